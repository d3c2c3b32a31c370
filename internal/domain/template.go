package domain

import "time"

// ShiftTemplate 表示创建班次时可以套用的模板
type ShiftTemplate struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	DurationMinutes int32        `json:"durationMinutes"`
	CoverageType    CoverageType `json:"coverageType"`
	DefaultTaskIDs  []string     `json:"defaultTaskIDs,omitempty"`
	Color           string       `json:"color,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	Version         int32        `json:"-"`
}
