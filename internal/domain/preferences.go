package domain

import "time"

// BlockRequirement 表示某个时段在工作日和周末各需要多少名照护者
type BlockRequirement struct {
	Weekday int32 `json:"weekday"`
	Weekend int32 `json:"weekend"`
}

// CriticalTimeSlot 表示一个关键时段，落在其中的缺口会被强制提升为 high 优先级
type CriticalTimeSlot struct {
	Days      []int32 `json:"days"` // 0~6，0 表示周日
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	Reason    string  `json:"reason"`
}

// CoveragePreferences 表示偏好策略所需的覆盖要求配置
type CoveragePreferences struct {
	ID                  int64                       `json:"id"`
	Required            map[string]BlockRequirement `json:"required"`            // 时段名 -> 要求人数
	PreferredCaregivers map[string][]int64          `json:"preferredCaregivers"` // 时段名 -> 照护者 ID
	CriticalSlots       []CriticalTimeSlot          `json:"criticalSlots"`
	UpdatedAt           time.Time                   `json:"updatedAt"`
	Version             int32                       `json:"-"`
}
