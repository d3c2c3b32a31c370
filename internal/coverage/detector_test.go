package coverage

import (
	"testing"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func day(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, date)
	require.NoError(t, err)
	return d
}

func TestDetectRangeEmptyDay(t *testing.T) {
	// 一天没有任何班次时，固定时段策略应产出三个缺口
	detector := NewDetector(FixedBlockPolicy())
	monday := day(t, "2026-03-02")

	gaps, err := detector.DetectRange(monday, monday, nil, nil)
	require.NoError(t, err)
	require.Len(t, gaps, 3)

	byBlock := make(map[string]*domain.CoverageGap)
	for _, gap := range gaps {
		byBlock[gap.Block] = gap
		assert.Equal(t, "2026-03-02", gap.Date)
		assert.Equal(t, domain.GapStatusIdentified, gap.Status)
	}

	assert.Equal(t, domain.GapPriorityCritical, byBlock[BlockDay].Priority)
	assert.Equal(t, domain.GapPriorityCritical, byBlock[BlockEvening].Priority)
	assert.Equal(t, domain.GapPriorityModerate, byBlock[BlockOvernight].Priority)
}

func TestDetectRangeOpenShiftDoesNotCount(t *testing.T) {
	// 已指派 08:00~16:00，另有未指派的 open 班次 16:00~22:00
	// 06:00~14:00 时段被覆盖，14:00~22:00 时段仍有缺口
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-02", StartTime: "16:00", EndTime: "22:00", Status: domain.ShiftStatusOpen},
	}

	detector := NewDetector(FixedBlockPolicy())
	monday := day(t, "2026-03-02")

	gaps, err := detector.DetectRange(monday, monday, shifts, nil)
	require.NoError(t, err)

	blocks := make(map[string]bool)
	for _, gap := range gaps {
		blocks[gap.Block] = true
	}
	assert.False(t, blocks[BlockDay], "06:00~14:00 已被指派班次覆盖，不应有缺口")
	assert.True(t, blocks[BlockEvening], "14:00~22:00 仅有未指派班次，应有缺口")
	assert.True(t, blocks[BlockOvernight])
}

func TestDetectRangeIdempotent(t *testing.T) {
	// 对同一范围重复扫描不应产生重复缺口
	detector := NewDetector(FixedBlockPolicy())
	start := day(t, "2026-03-02")
	end := day(t, "2026-03-04")

	first, err := detector.DetectRange(start, end, nil, nil)
	require.NoError(t, err)
	require.Len(t, first, 9)

	second, err := detector.DetectRange(start, end, nil, first)
	require.NoError(t, err)
	assert.Empty(t, second)
}

func TestDetectRangeResolvedGapReopens(t *testing.T) {
	// 已解决的缺口不参与去重，覆盖再次消失时应重新识别
	detector := NewDetector(FixedBlockPolicy())
	monday := day(t, "2026-03-02")

	resolved := []*domain.CoverageGap{
		{Date: "2026-03-02", Block: BlockDay, StartTime: "06:00", EndTime: "14:00", Status: domain.GapStatusResolved},
	}

	gaps, err := detector.DetectRange(monday, monday, nil, resolved)
	require.NoError(t, err)
	assert.Len(t, gaps, 3)
}

func TestDetectRangeOvernightShiftCoversOvernightBlock(t *testing.T) {
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "21:00", EndTime: "05:00", AssigneeID: int64Ptr(2), Status: domain.ShiftStatusScheduled},
	}

	detector := NewDetector(FixedBlockPolicy())
	monday := day(t, "2026-03-02")

	gaps, err := detector.DetectRange(monday, monday, shifts, nil)
	require.NoError(t, err)

	for _, gap := range gaps {
		assert.NotEqual(t, BlockOvernight, gap.Block, "跨夜班次应覆盖夜间时段")
	}
}

func testPreferences() *domain.CoveragePreferences {
	return &domain.CoveragePreferences{
		Required: map[string]domain.BlockRequirement{
			BlockMorning:   {Weekday: 2, Weekend: 1},
			BlockAfternoon: {Weekday: 1, Weekend: 1},
			BlockNight:     {Weekday: 1, Weekend: 1},
			BlockOvernight: {Weekday: 0, Weekend: 0},
		},
		CriticalSlots: []domain.CriticalTimeSlot{
			// 周一早上是服药时间
			{Days: []int32{1}, StartTime: "08:00", EndTime: "10:00", Reason: "服药时间"},
		},
	}
}

func TestDetectRangePreferencePolicy(t *testing.T) {
	// 周一早上要求两人，只有一人 → high 缺口；下午有一人 → 无缺口；夜间要求 0 人 → 无缺口
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "08:00", EndTime: "12:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-02", StartTime: "12:00", EndTime: "18:00", AssigneeID: int64Ptr(2), Status: domain.ShiftStatusScheduled},
	}

	policy, err := PreferencePolicy(testPreferences())
	require.NoError(t, err)
	detector := NewDetector(policy)
	monday := day(t, "2026-03-02")

	gaps, err := detector.DetectRange(monday, monday, shifts, nil)
	require.NoError(t, err)
	require.Len(t, gaps, 2)

	byBlock := make(map[string]*domain.CoverageGap)
	for _, gap := range gaps {
		byBlock[gap.Block] = gap
	}

	require.Contains(t, byBlock, BlockMorning)
	assert.Equal(t, domain.GapPriorityHigh, byBlock[BlockMorning].Priority, "与关键时段相交的缺口应为 high")
	require.Contains(t, byBlock, BlockNight)
	assert.Equal(t, domain.GapPriorityMedium, byBlock[BlockNight].Priority)
}

func TestScanAttachesSuggestions(t *testing.T) {
	caregivers := []*domain.User{
		{ID: 1, FullName: "王芳", Role: domain.RoleCaregiver, IsActive: true},
		{ID: 2, FullName: "李静", Role: domain.RoleCaregiver, IsActive: true},
	}
	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "06:00", EndTime: "14:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
	}

	detector := NewDetector(FixedBlockPolicy())
	monday := day(t, "2026-03-02")

	result, err := detector.Scan(monday, monday, shifts, nil, caregivers)
	require.NoError(t, err)
	require.Len(t, result.Gaps, 2)

	for _, gap := range result.Gaps {
		assert.NotEmpty(t, gap.SuggestedIDs)
		assert.Empty(t, gap.Options, "固定时段策略只附带推荐照护者")
	}

	// 晚间时段是 critical，应产生通知事件
	assert.NotEmpty(t, result.Events)
	for _, event := range result.Events {
		assert.Equal(t, "coverage_gap", event.Type)
		assert.True(t, event.Priority.Urgent())
	}
}

func TestIsCovered(t *testing.T) {
	gap := &domain.CoverageGap{Date: "2026-03-02", StartTime: "14:00", EndTime: "22:00"}

	covered, err := IsCovered(gap, nil)
	require.NoError(t, err)
	assert.False(t, covered)

	shifts := []*domain.CareShift{
		{Date: "2026-03-02", StartTime: "15:00", EndTime: "18:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
	}
	covered, err = IsCovered(gap, shifts)
	require.NoError(t, err)
	assert.True(t, covered)
}
