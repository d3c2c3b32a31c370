package domain

type RecommendationType string

const (
	RecommendationTypeCriticalGaps   RecommendationType = "critical_gaps"
	RecommendationTypeUnderutilized  RecommendationType = "underutilized_caregivers"
	RecommendationTypeImbalance      RecommendationType = "workload_imbalance"
	RecommendationTypeRecurringShift RecommendationType = "recurring_shift"
)

// Recommendation 表示展示给协调员的一条聚合建议
type Recommendation struct {
	Type         RecommendationType `json:"type"`
	Priority     GapPriority        `json:"priority"`
	Title        string             `json:"title"`
	Message      string             `json:"message"`
	GapIDs       []int64            `json:"gapIDs,omitempty"`
	CaregiverIDs []int64            `json:"caregiverIDs,omitempty"`
	Dates        []string           `json:"dates,omitempty"`
	Days         []int32            `json:"days,omitempty"` // 0~6
	StartTime    string             `json:"startTime,omitempty"`
	EndTime      string             `json:"endTime,omitempty"`
}
