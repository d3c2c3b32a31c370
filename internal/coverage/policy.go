// Package coverage 实现照护排班的核心计算：缺口检测、处理方案生成、聚合建议和覆盖统计
// 本包中的函数都是纯计算，不做任何 I/O，产生的通知以事件的形式返回给调用方投递
package coverage

import (
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
)

// Block 表示一天的固定时段划分中的一段
type Block struct {
	Label     string `json:"label"`
	StartTime string `json:"startTime"` // HH:MM
	EndTime   string `json:"endTime"`   // 小于 StartTime 时表示跨夜时段
}

// Policy 将缺口检测参数化：时段划分、每个时段要求的人数、缺口优先级分类
// 历史上固定时段和偏好驱动两套规则由此统一为同一个检测器的两种配置
type Policy struct {
	Name     string
	Blocks   []Block
	Required func(date time.Time, block Block) int
	Classify func(date time.Time, block Block) domain.GapPriority
}

const (
	PolicyFixed      = "fixed"
	PolicyPreference = "preference"
)

// 固定时段策略的三个时段
const (
	BlockDay       = "day"
	BlockEvening   = "evening"
	BlockOvernight = "overnight"
)

// 偏好策略的四个时段
const (
	BlockMorning   = "morning"
	BlockAfternoon = "afternoon"
	BlockNight     = "night" // 18:00~22:00，与固定策略的 evening 划分不同
)

// FixedBlockPolicy 返回固定时段策略：三个时段，每个时段要求一人
// 夜间时段的缺口为 moderate，其余为 critical
func FixedBlockPolicy() *Policy {
	return &Policy{
		Name: PolicyFixed,
		Blocks: []Block{
			{Label: BlockDay, StartTime: "06:00", EndTime: "14:00"},
			{Label: BlockEvening, StartTime: "14:00", EndTime: "22:00"},
			{Label: BlockOvernight, StartTime: "22:00", EndTime: "06:00"},
		},
		Required: func(time.Time, Block) int {
			return 1
		},
		Classify: func(_ time.Time, block Block) domain.GapPriority {
			if block.Label == BlockOvernight {
				return domain.GapPriorityModerate
			}
			return domain.GapPriorityCritical
		},
	}
}

// criticalSpan 是解析过的关键时段，分钟数在策略构造时已校验
type criticalSpan struct {
	days  []int32
	start int
	end   int
}

// PreferencePolicy 返回偏好驱动策略：四个时段，要求人数取自偏好配置
// 与关键时段相交的缺口为 high，其余为 medium
// 关键时段的时间格式在构造时校验，不合法的配置直接返回错误
func PreferencePolicy(prefs *domain.CoveragePreferences) (*Policy, error) {
	blocks := []Block{
		{Label: BlockMorning, StartTime: "06:00", EndTime: "12:00"},
		{Label: BlockAfternoon, StartTime: "12:00", EndTime: "18:00"},
		{Label: BlockNight, StartTime: "18:00", EndTime: "22:00"},
		{Label: BlockOvernight, StartTime: "22:00", EndTime: "06:00"},
	}

	blockSpans := make(map[string][2]int, len(blocks))
	for _, block := range blocks {
		start, err := timeutil.ToMinutes(block.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := timeutil.ToMinutes(block.EndTime)
		if err != nil {
			return nil, err
		}
		blockSpans[block.Label] = [2]int{start, end}
	}

	spans := make([]criticalSpan, 0, len(prefs.CriticalSlots))
	for _, slot := range prefs.CriticalSlots {
		start, err := timeutil.ToMinutes(slot.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := timeutil.ToMinutes(slot.EndTime)
		if err != nil {
			return nil, err
		}
		spans = append(spans, criticalSpan{days: slot.Days, start: start, end: end})
	}

	return &Policy{
		Name:   PolicyPreference,
		Blocks: blocks,
		Required: func(date time.Time, block Block) int {
			req, exists := prefs.Required[block.Label]
			if !exists {
				return 1
			}
			if isWeekend(date) {
				return int(req.Weekend)
			}
			return int(req.Weekday)
		},
		Classify: func(date time.Time, block Block) domain.GapPriority {
			weekday := int32(date.Weekday())
			span := blockSpans[block.Label]
			for _, slot := range spans {
				if !containsDay(slot.days, weekday) {
					continue
				}
				if timeutil.Overlaps(span[0], span[1], slot.start, slot.end) {
					return domain.GapPriorityHigh
				}
			}
			return domain.GapPriorityMedium
		},
	}, nil
}

func isWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func containsDay(days []int32, day int32) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
