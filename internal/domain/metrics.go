package domain

// CoverageMetrics 表示某个日期范围内的覆盖统计，按需计算，不落库
type CoverageMetrics struct {
	StartDate          string              `json:"startDate"`
	EndDate            string              `json:"endDate"`
	TotalHours         float64             `json:"totalHours"`
	CoveredHours       float64             `json:"coveredHours"`
	CoveragePercentage int                 `json:"coveragePercentage"`
	ShiftsByStatus     map[ShiftStatus]int `json:"shiftsByStatus"`
	GapsByPriority     map[GapPriority]int `json:"gapsByPriority"`
}
