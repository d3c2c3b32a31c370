package coverage

import (
	"testing"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkloads(t *testing.T) {
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-03", StartTime: "22:00", EndTime: "02:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-03", StartTime: "09:00", EndTime: "12:00", AssigneeID: int64Ptr(2), Status: domain.ShiftStatusScheduled},
		// 未指派和已取消的班次不计入
		{Date: "2026-03-04", StartTime: "09:00", EndTime: "17:00", Status: domain.ShiftStatusOpen},
		{Date: "2026-03-04", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(2), Status: domain.ShiftStatusCancelled},
	}

	workloads, err := Workloads(shifts)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, workloads[1], 0.001, "8 小时加跨夜 4 小时")
	assert.InDelta(t, 3.0, workloads[2], 0.001)
}

func recommendationByType(recs []*domain.Recommendation, typ domain.RecommendationType) *domain.Recommendation {
	for _, rec := range recs {
		if rec.Type == typ {
			return rec
		}
	}
	return nil
}

func TestBuildRecommendationsCriticalGaps(t *testing.T) {
	start := day(t, "2026-03-02")
	end := day(t, "2026-03-08")

	gaps := []*domain.CoverageGap{
		{ID: 10, Date: "2026-03-02", StartTime: "06:00", EndTime: "14:00", Priority: domain.GapPriorityCritical, Status: domain.GapStatusIdentified},
		{ID: 11, Date: "2026-03-03", StartTime: "14:00", EndTime: "22:00", Priority: domain.GapPriorityHigh, Status: domain.GapStatusIdentified},
		{ID: 12, Date: "2026-03-04", StartTime: "22:00", EndTime: "06:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
		// 已解决的缺口不参与
		{ID: 13, Date: "2026-03-05", StartTime: "06:00", EndTime: "14:00", Priority: domain.GapPriorityCritical, Status: domain.GapStatusResolved},
	}

	recs, err := BuildRecommendations(start, end, nil, gaps, nil)
	require.NoError(t, err)

	rec := recommendationByType(recs, domain.RecommendationTypeCriticalGaps)
	require.NotNil(t, rec)
	assert.ElementsMatch(t, []int64{10, 11}, rec.GapIDs)
}

func TestBuildRecommendationsUnderutilized(t *testing.T) {
	start := day(t, "2026-03-02")
	end := day(t, "2026-03-08")

	caregivers := []*domain.User{
		{ID: 1, FullName: "王芳", IsActive: true},
		{ID: 2, FullName: "李静", IsActive: true},
		{ID: 3, FullName: "张敏", IsActive: false},
	}
	// 1 号每天 8 小时共 24 小时，2 号只有 3 小时
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-03", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-04", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-05", StartTime: "09:00", EndTime: "12:00", AssigneeID: int64Ptr(2), Status: domain.ShiftStatusScheduled},
	}
	gaps := []*domain.CoverageGap{
		{ID: 10, Date: "2026-03-06", StartTime: "06:00", EndTime: "14:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
	}

	recs, err := BuildRecommendations(start, end, shifts, gaps, caregivers)
	require.NoError(t, err)

	rec := recommendationByType(recs, domain.RecommendationTypeUnderutilized)
	require.NotNil(t, rec)
	assert.Equal(t, []int64{2}, rec.CaregiverIDs, "已离职的照护者不参与统计")

	// 没有缺口时不产生利用不足建议
	recs, err = BuildRecommendations(start, end, shifts, nil, caregivers)
	require.NoError(t, err)
	assert.Nil(t, recommendationByType(recs, domain.RecommendationTypeUnderutilized))
}

func TestBuildRecommendationsImbalance(t *testing.T) {
	start := day(t, "2026-03-02")
	end := day(t, "2026-03-03")

	// 1 号在 3 月 2 日有三个班次
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "06:00", EndTime: "10:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-02", StartTime: "10:00", EndTime: "14:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-02", StartTime: "14:00", EndTime: "18:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-03", StartTime: "06:00", EndTime: "10:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-03", StartTime: "10:00", EndTime: "14:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
	}

	recs, err := BuildRecommendations(start, end, shifts, nil, nil)
	require.NoError(t, err)

	rec := recommendationByType(recs, domain.RecommendationTypeImbalance)
	require.NotNil(t, rec)
	assert.Equal(t, []string{"2026-03-02"}, rec.Dates)
}

func TestBuildRecommendationsRecurring(t *testing.T) {
	start := day(t, "2026-03-02")
	end := day(t, "2026-03-15")

	// 两个周一的同一时段都有缺口，另一个时段只出现一次
	gaps := []*domain.CoverageGap{
		{ID: 10, Date: "2026-03-02", StartTime: "14:00", EndTime: "22:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
		{ID: 11, Date: "2026-03-09", StartTime: "14:00", EndTime: "22:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
		{ID: 12, Date: "2026-03-03", StartTime: "06:00", EndTime: "14:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
	}

	recs, err := BuildRecommendations(start, end, nil, gaps, nil)
	require.NoError(t, err)

	rec := recommendationByType(recs, domain.RecommendationTypeRecurringShift)
	require.NotNil(t, rec)
	assert.Equal(t, []int32{1}, rec.Days, "两个缺口都在周一")
	assert.ElementsMatch(t, []int64{10, 11}, rec.GapIDs)
	assert.Equal(t, "14:00", rec.StartTime)
	assert.Equal(t, "22:00", rec.EndTime)
}

func TestBuildRecommendationsRecurringDeterministicOrder(t *testing.T) {
	start := day(t, "2026-03-02")
	end := day(t, "2026-03-15")

	// 同一时段在周三和周一都反复出现缺口，缺口 ID 按星期几升序排列
	gaps := []*domain.CoverageGap{
		{ID: 20, Date: "2026-03-04", StartTime: "14:00", EndTime: "22:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
		{ID: 21, Date: "2026-03-11", StartTime: "14:00", EndTime: "22:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
		{ID: 22, Date: "2026-03-02", StartTime: "14:00", EndTime: "22:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
		{ID: 23, Date: "2026-03-09", StartTime: "14:00", EndTime: "22:00", Priority: domain.GapPriorityModerate, Status: domain.GapStatusIdentified},
	}

	for i := 0; i < 10; i++ {
		recs, err := BuildRecommendations(start, end, nil, gaps, nil)
		require.NoError(t, err)

		rec := recommendationByType(recs, domain.RecommendationTypeRecurringShift)
		require.NotNil(t, rec)
		assert.Equal(t, []int32{1, 3}, rec.Days)
		assert.Equal(t, []int64{22, 23, 20, 21}, rec.GapIDs, "缺口 ID 顺序不随 map 遍历变化")
	}
}
