// Package analytics 记录业务事件的计数，用于观察功能的使用情况
// 事件统计失败不能影响业务流程，因此本包中的错误只记录日志，不向上传播
package analytics

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Tracker struct {
	redisClient *redis.Client
	timeout     time.Duration
}

func NewTracker(rdb *redis.Client, timeout time.Duration) *Tracker {
	return &Tracker{
		redisClient: rdb,
		timeout:     timeout,
	}
}

// Track 记录一次事件，按事件名和当天日期累加计数
func (t *Tracker) Track(event string, fields map[string]any) {
	slog.Info("事件", append([]any{"event", event}, flatten(fields)...)...)

	if t == nil || t.redisClient == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	key := "analytics_" + time.Now().Format("2006-01-02")
	if err := t.redisClient.HIncrBy(ctx, key, event, 1).Err(); err != nil {
		slog.Warn("事件计数失败", "event", event, "error", err)
	}
}

func flatten(fields map[string]any) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
