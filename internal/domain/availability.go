package domain

import "time"

type AvailabilityStatus string

const (
	AvailabilityStatusAvailable   AvailabilityStatus = "available"
	AvailabilityStatusTentative   AvailabilityStatus = "tentative"
	AvailabilityStatusUnavailable AvailabilityStatus = "unavailable"
)

// AvailabilitySlot 表示周模式中某天的一个时间槽
type AvailabilitySlot struct {
	StartTime string             `json:"startTime"` // HH:MM
	EndTime   string             `json:"endTime"`
	Status    AvailabilityStatus `json:"status"`
}

// UserAvailability 表示某个照护者的空闲状态
// 优先级：日期覆盖 > 周模式当天的时间槽 > 整体状态
type UserAvailability struct {
	UserID        int64                         `json:"userID"`
	Status        AvailabilityStatus            `json:"status"`
	Overrides     map[string]AvailabilityStatus `json:"overrides"`     // 日期(YYYY-MM-DD) -> 状态
	WeeklyPattern map[int32][]AvailabilitySlot  `json:"weeklyPattern"` // 0~6 -> 时间槽，0 表示周日
	UpdatedAt     time.Time                     `json:"updatedAt"`
	Version       int32                         `json:"-"`
}
