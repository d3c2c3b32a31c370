package domain

import "time"

type GapPriority string

// 两套优先级词汇：固定时段策略使用 critical/moderate，偏好策略使用 high/medium
const (
	GapPriorityCritical GapPriority = "critical"
	GapPriorityHigh     GapPriority = "high"
	GapPriorityMedium   GapPriority = "medium"
	GapPriorityModerate GapPriority = "moderate"
	GapPriorityLow      GapPriority = "low"
)

// Urgent 表示该优先级是否需要立即处理
func (p GapPriority) Urgent() bool {
	return p == GapPriorityCritical || p == GapPriorityHigh
}

type GapStatus string

const (
	GapStatusIdentified       GapStatus = "identified"
	GapStatusPendingResponses GapStatus = "pending_responses"
	GapStatusResolved         GapStatus = "resolved"
)

type ResolutionType string

const (
	ResolutionTypeReassign   ResolutionType = "reassign"
	ResolutionTypeSplit      ResolutionType = "split"
	ResolutionTypeReschedule ResolutionType = "reschedule"
	ResolutionTypeCancel     ResolutionType = "cancel"
)

// ResolutionOption 表示针对某个缺口的一种处理方案
type ResolutionOption struct {
	ID          string         `json:"id"`
	Type        ResolutionType `json:"type"`
	Description string         `json:"description"`
	AssigneeID  *int64         `json:"assigneeID,omitempty"` // 仅 reassign 使用
	Date        *string        `json:"date,omitempty"`       // 仅 reschedule 使用
	StartTime   *string        `json:"startTime,omitempty"`
	EndTime     *string        `json:"endTime,omitempty"`
}

// CoverageGap 表示某天固定时段划分中没有被已指派班次覆盖的时段
type CoverageGap struct {
	ID           int64              `json:"id"`
	Date         string             `json:"date"` // YYYY-MM-DD
	Block        string             `json:"block"`
	StartTime    string             `json:"startTime"`
	EndTime      string             `json:"endTime"`
	Priority     GapPriority        `json:"priority"`
	Status       GapStatus          `json:"status"`
	Options      []ResolutionOption `json:"options,omitempty"`
	SuggestedIDs []int64            `json:"suggestedIDs,omitempty"`
	IdentifiedAt time.Time          `json:"identifiedAt"`
	ResolvedAt   *time.Time         `json:"resolvedAt,omitempty"`
	Version      int32              `json:"-"`
}
