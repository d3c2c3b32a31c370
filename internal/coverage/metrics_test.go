package coverage

import (
	"math"
	"testing"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMetricsEmpty(t *testing.T) {
	metrics, err := CalculateMetrics(day(t, "2026-03-02"), day(t, "2026-03-08"), nil, nil)
	require.NoError(t, err)
	assert.Zero(t, metrics.TotalHours)
	assert.Zero(t, metrics.CoveredHours)
	assert.Zero(t, metrics.CoveragePercentage, "总时长为零时覆盖率为零")
}

func TestCalculateMetricsDenominatorIsScheduledHours(t *testing.T) {
	// 分母是范围内班次时长之和，而不是每周固定小时数
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-04", StartTime: "09:00", EndTime: "13:00", Status: domain.ShiftStatusOpen},
		// 范围外的班次不计入
		{Date: "2026-03-10", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
	}

	metrics, err := CalculateMetrics(day(t, "2026-03-02"), day(t, "2026-03-08"), shifts, nil)
	require.NoError(t, err)

	assert.InDelta(t, 12.0, metrics.TotalHours, 0.001)
	assert.InDelta(t, 8.0, metrics.CoveredHours, 0.001)
	assert.Equal(t, int(math.Round(8.0/12.0*100)), metrics.CoveragePercentage)
	assert.Equal(t, 1, metrics.ShiftsByStatus[domain.ShiftStatusScheduled])
	assert.Equal(t, 1, metrics.ShiftsByStatus[domain.ShiftStatusOpen])
}

func TestCalculateMetricsSingleAssignedShiftWeek(t *testing.T) {
	// 一周内只有一个 8 小时已指派班次时覆盖率是 100%
	shifts := []*domain.CareShift{
		{Date: "2026-03-03", StartTime: "08:00", EndTime: "16:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
	}

	metrics, err := CalculateMetrics(day(t, "2026-03-02"), day(t, "2026-03-08"), shifts, nil)
	require.NoError(t, err)
	assert.Equal(t, 100, metrics.CoveragePercentage)
}

func TestCalculateMetricsIgnoresCancelledShifts(t *testing.T) {
	// 已指派但被取消的班次不应抬高覆盖率
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-03", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(2), Status: domain.ShiftStatusCancelled},
		{Date: "2026-03-04", StartTime: "09:00", EndTime: "13:00", Status: domain.ShiftStatusOpen},
	}

	metrics, err := CalculateMetrics(day(t, "2026-03-02"), day(t, "2026-03-08"), shifts, nil)
	require.NoError(t, err)

	assert.InDelta(t, 12.0, metrics.TotalHours, 0.001)
	assert.InDelta(t, 8.0, metrics.CoveredHours, 0.001)
	assert.Equal(t, int(math.Round(8.0/12.0*100)), metrics.CoveragePercentage)
	assert.Equal(t, 1, metrics.ShiftsByStatus[domain.ShiftStatusCancelled], "状态统计仍然包含已取消的班次")
}

func TestCalculateMetricsGapCounts(t *testing.T) {
	gaps := []*domain.CoverageGap{
		{Date: "2026-03-02", StartTime: "06:00", EndTime: "14:00", Priority: domain.GapPriorityCritical},
		{Date: "2026-03-02", StartTime: "22:00", EndTime: "06:00", Priority: domain.GapPriorityModerate},
		{Date: "2026-03-20", StartTime: "06:00", EndTime: "14:00", Priority: domain.GapPriorityCritical},
	}

	metrics, err := CalculateMetrics(day(t, "2026-03-02"), day(t, "2026-03-08"), nil, gaps)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.GapsByPriority[domain.GapPriorityCritical])
	assert.Equal(t, 1, metrics.GapsByPriority[domain.GapPriorityModerate])
}
