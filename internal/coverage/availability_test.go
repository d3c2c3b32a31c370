package coverage

import (
	"testing"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveStatusPrecedence(t *testing.T) {
	av := &domain.UserAvailability{
		UserID: 1,
		Status: domain.AvailabilityStatusTentative,
		Overrides: map[string]domain.AvailabilityStatus{
			"2026-03-02": domain.AvailabilityStatusUnavailable,
		},
		WeeklyPattern: map[int32][]domain.AvailabilitySlot{
			// 周一和周二
			1: {{StartTime: "09:00", EndTime: "17:00", Status: domain.AvailabilityStatusAvailable}},
			2: {{StartTime: "09:00", EndTime: "17:00", Status: domain.AvailabilityStatusAvailable}},
		},
	}

	// 日期覆盖优先于周模式
	assert.Equal(t, domain.AvailabilityStatusUnavailable, EffectiveStatus(av, day(t, "2026-03-02")))
	// 没有覆盖时取周模式
	assert.Equal(t, domain.AvailabilityStatusAvailable, EffectiveStatus(av, day(t, "2026-03-03")))
	// 周模式为空时回落到整体状态（2026-03-04 是周三）
	assert.Equal(t, domain.AvailabilityStatusTentative, EffectiveStatus(av, day(t, "2026-03-04")))
}

func TestEffectiveStatusAtHonorsTimeWindow(t *testing.T) {
	av := &domain.UserAvailability{
		UserID: 1,
		Status: domain.AvailabilityStatusAvailable,
		WeeklyPattern: map[int32][]domain.AvailabilitySlot{
			1: {
				{StartTime: "09:00", EndTime: "12:00", Status: domain.AvailabilityStatusAvailable},
				{StartTime: "14:00", EndTime: "18:00", Status: domain.AvailabilityStatusTentative},
			},
		},
	}
	monday := day(t, "2026-03-02")

	status, err := EffectiveStatusAt(av, monday, "10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityStatusAvailable, status)

	status, err = EffectiveStatusAt(av, monday, "15:00", "16:00")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityStatusTentative, status)

	// 当天有时间槽但都不与窗口重叠时视为不可用
	status, err = EffectiveStatusAt(av, monday, "19:00", "21:00")
	require.NoError(t, err)
	assert.Equal(t, domain.AvailabilityStatusUnavailable, status)
}

func TestAvailableCaregivers(t *testing.T) {
	avs := []*domain.UserAvailability{
		{UserID: 1, Status: domain.AvailabilityStatusAvailable},
		{UserID: 2, Status: domain.AvailabilityStatusTentative},
		{UserID: 3, Status: domain.AvailabilityStatusUnavailable},
	}

	ids, err := AvailableCaregivers(avs, day(t, "2026-03-02"), "", "")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids, "available 和 tentative 都算可用")
}

func TestAvailabilityIndependentOfShiftAssignment(t *testing.T) {
	// 班次指派不会反过来影响空闲状态：两个存储相互独立
	av := &domain.UserAvailability{UserID: 1, Status: domain.AvailabilityStatusAvailable}
	shift := &domain.CareShift{
		Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00",
		AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled,
	}

	events := ShiftEvents(nil, shift)
	require.NotEmpty(t, events)

	ids, err := AvailableCaregivers([]*domain.UserAvailability{av}, day(t, "2026-03-02"), "08:00", "16:00")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids, "指派班次后该照护者的空闲记录不受影响")
}

func TestMergeOverridesKeepsUnlistedDates(t *testing.T) {
	existing := map[string]domain.AvailabilityStatus{
		"2026-03-02": domain.AvailabilityStatusUnavailable,
		"2026-03-03": domain.AvailabilityStatusTentative,
	}
	updates := map[string]domain.AvailabilityStatus{
		"2026-03-03": domain.AvailabilityStatusAvailable,
		"2026-03-10": domain.AvailabilityStatusUnavailable,
	}

	merged := MergeOverrides(existing, updates)

	// 第二次批量提交不应抹掉之前设置的日期
	assert.Equal(t, domain.AvailabilityStatusUnavailable, merged["2026-03-02"])
	assert.Equal(t, domain.AvailabilityStatusAvailable, merged["2026-03-03"], "提交的日期覆盖旧值")
	assert.Equal(t, domain.AvailabilityStatusUnavailable, merged["2026-03-10"])
	assert.Len(t, merged, 3)

	// 原 map 不被修改
	assert.Equal(t, domain.AvailabilityStatusTentative, existing["2026-03-03"])
}

func TestMergeOverridesNilExisting(t *testing.T) {
	merged := MergeOverrides(nil, map[string]domain.AvailabilityStatus{
		"2026-03-02": domain.AvailabilityStatusTentative,
	})
	assert.Equal(t, domain.AvailabilityStatusTentative, merged["2026-03-02"])
}

func TestDefaultWeeklyPattern(t *testing.T) {
	pattern := DefaultWeeklyPattern()
	require.Len(t, pattern, 5)
	for day := int32(1); day <= 5; day++ {
		require.Len(t, pattern[day], 1)
		assert.Equal(t, "09:00", pattern[day][0].StartTime)
		assert.Equal(t, "17:00", pattern[day][0].EndTime)
		assert.Equal(t, domain.AvailabilityStatusAvailable, pattern[day][0].Status)
	}
	assert.NotContains(t, pattern, int32(0))
	assert.NotContains(t, pattern, int32(6))
}
