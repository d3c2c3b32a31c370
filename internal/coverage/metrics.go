package coverage

import (
	"math"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
)

// CalculateMetrics 汇总日期范围内的覆盖统计
// 总时长是范围内所有班次时长之和，而不是按每天 24 小时折算的理论值
func CalculateMetrics(start, end time.Time, shifts []*domain.CareShift, gaps []*domain.CoverageGap) (*domain.CoverageMetrics, error) {
	startDate := start.Format(dateLayout)
	endDate := end.Format(dateLayout)

	metrics := &domain.CoverageMetrics{
		StartDate:      startDate,
		EndDate:        endDate,
		ShiftsByStatus: make(map[domain.ShiftStatus]int),
		GapsByPriority: make(map[domain.GapPriority]int),
	}

	var totalMinutes, coveredMinutes int
	for _, shift := range shifts {
		if shift.Date < startDate || shift.Date > endDate {
			continue
		}

		metrics.ShiftsByStatus[shift.Status]++

		// 已取消的班次计入状态统计，但不计入时长
		if shift.Status == domain.ShiftStatusCancelled {
			continue
		}

		minutes, err := timeutil.DurationTime(shift.StartTime, shift.EndTime)
		if err != nil {
			return nil, err
		}
		totalMinutes += minutes
		if shift.Assigned() {
			coveredMinutes += minutes
		}
	}

	metrics.TotalHours = float64(totalMinutes) / 60
	metrics.CoveredHours = float64(coveredMinutes) / 60
	if totalMinutes > 0 {
		metrics.CoveragePercentage = int(math.Round(float64(coveredMinutes) / float64(totalMinutes) * 100))
	}

	for _, gap := range gaps {
		if gap.Date < startDate || gap.Date > endDate {
			continue
		}
		metrics.GapsByPriority[gap.Priority]++
	}

	return metrics, nil
}
