package domain

import "time"

type ShiftStatus string

const (
	ShiftStatusOpen       ShiftStatus = "open"
	ShiftStatusScheduled  ShiftStatus = "scheduled"
	ShiftStatusInProgress ShiftStatus = "in_progress"
	ShiftStatusCompleted  ShiftStatus = "completed"
	ShiftStatusCancelled  ShiftStatus = "cancelled"
)

type CoverageType string

const (
	CoverageTypePrimary    CoverageType = "primary"
	CoverageTypeSpecialist CoverageType = "specialist"
	CoverageTypeBackup     CoverageType = "backup"
)

type RecurrenceType string

const (
	RecurrenceTypeDaily  RecurrenceType = "daily"
	RecurrenceTypeWeekly RecurrenceType = "weekly"
)

// Recurrence 描述班次的重复规则
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int32          `json:"interval"`
	Days     []int32        `json:"days,omitempty"`  // 0~6，0 表示周日
	Until    *string        `json:"until,omitempty"` // YYYY-MM-DD
	Count    *int32         `json:"count,omitempty"`
}

// CareShift 表示一个照护班次
// 注意：AssigneeID 为 nil 时 Status 必须为 open，这个约束由 utils.ValidateShift 保证
type CareShift struct {
	ID           int64        `json:"id"`
	Date         string       `json:"date"`      // YYYY-MM-DD
	StartTime    string       `json:"startTime"` // HH:MM
	EndTime      string       `json:"endTime"`   // 若小于 StartTime，表示跨夜班次
	AssigneeID   *int64       `json:"assigneeID"`
	Status       ShiftStatus  `json:"status"`
	CoverageType CoverageType `json:"coverageType"`
	TaskIDs      []string     `json:"taskIDs,omitempty"`
	HandoffNotes string       `json:"handoffNotes,omitempty"`
	Recurrence   *Recurrence  `json:"recurrence,omitempty"`
	Color        string       `json:"color,omitempty"` // 仅用于前端展示
	CreatedBy    int64        `json:"createdBy"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	Version      int32        `json:"-"`
}

// Assigned 表示该班次是否已被指派
func (s *CareShift) Assigned() bool {
	return s.AssigneeID != nil
}
