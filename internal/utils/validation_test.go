package utils

import (
	"testing"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShift(t *testing.T) {
	assigneeID := int64(1)

	t.Run("合法的已指派班次", func(t *testing.T) {
		shift := &domain.CareShift{
			Date:       "2026-03-02",
			StartTime:  "09:00",
			EndTime:    "17:00",
			AssigneeID: &assigneeID,
			Status:     domain.ShiftStatusScheduled,
		}
		require.NoError(t, ValidateShift(shift))
	})

	t.Run("合法的跨夜班次", func(t *testing.T) {
		shift := &domain.CareShift{
			Date:      "2026-03-02",
			StartTime: "22:00",
			EndTime:   "06:00",
			Status:    domain.ShiftStatusOpen,
		}
		require.NoError(t, ValidateShift(shift))
	})

	t.Run("未指派的班次状态必须为 open", func(t *testing.T) {
		shift := &domain.CareShift{
			Date:      "2026-03-02",
			StartTime: "09:00",
			EndTime:   "17:00",
			Status:    domain.ShiftStatusScheduled,
		}
		assert.Error(t, ValidateShift(shift))
	})

	t.Run("时间格式错误", func(t *testing.T) {
		shift := &domain.CareShift{
			Date:      "2026-03-02",
			StartTime: "9:00",
			EndTime:   "17:00",
			Status:    domain.ShiftStatusOpen,
		}
		assert.Error(t, ValidateShift(shift))
	})

	t.Run("开始结束时间相同", func(t *testing.T) {
		shift := &domain.CareShift{
			Date:      "2026-03-02",
			StartTime: "09:00",
			EndTime:   "09:00",
			Status:    domain.ShiftStatusOpen,
		}
		assert.Error(t, ValidateShift(shift))
	})
}

func TestValidateRecurrence(t *testing.T) {
	t.Run("合法的按周重复", func(t *testing.T) {
		rec := &domain.Recurrence{
			Type:     domain.RecurrenceTypeWeekly,
			Interval: 1,
			Days:     []int32{1, 3, 5},
		}
		require.NoError(t, ValidateRecurrence(rec))
	})

	t.Run("按周重复必须指定星期几", func(t *testing.T) {
		rec := &domain.Recurrence{
			Type:     domain.RecurrenceTypeWeekly,
			Interval: 1,
		}
		assert.Error(t, ValidateRecurrence(rec))
	})

	t.Run("截止日期和重复次数互斥", func(t *testing.T) {
		until := "2026-06-01"
		count := int32(10)
		rec := &domain.Recurrence{
			Type:     domain.RecurrenceTypeDaily,
			Interval: 1,
			Until:    &until,
			Count:    &count,
		}
		assert.Error(t, ValidateRecurrence(rec))
	})

	t.Run("间隔必须为正", func(t *testing.T) {
		rec := &domain.Recurrence{
			Type:     domain.RecurrenceTypeDaily,
			Interval: 0,
		}
		assert.Error(t, ValidateRecurrence(rec))
	})
}

func TestValidateWeeklyPattern(t *testing.T) {
	t.Run("合法的周模式", func(t *testing.T) {
		pattern := map[int32][]domain.AvailabilitySlot{
			1: {{StartTime: "09:00", EndTime: "17:00", Status: domain.AvailabilityStatusAvailable}},
		}
		require.NoError(t, ValidateWeeklyPattern(pattern))
	})

	t.Run("星期几超出范围", func(t *testing.T) {
		pattern := map[int32][]domain.AvailabilitySlot{
			7: {{StartTime: "09:00", EndTime: "17:00", Status: domain.AvailabilityStatusAvailable}},
		}
		assert.Error(t, ValidateWeeklyPattern(pattern))
	})

	t.Run("时间槽状态非法", func(t *testing.T) {
		pattern := map[int32][]domain.AvailabilitySlot{
			1: {{StartTime: "09:00", EndTime: "17:00", Status: "busy"}},
		}
		assert.Error(t, ValidateWeeklyPattern(pattern))
	})
}

func TestValidatePreferences(t *testing.T) {
	t.Run("合法的配置", func(t *testing.T) {
		prefs := &domain.CoveragePreferences{
			Required: map[string]domain.BlockRequirement{
				"morning": {Weekday: 1, Weekend: 1},
			},
			CriticalSlots: []domain.CriticalTimeSlot{
				{Days: []int32{1}, StartTime: "08:00", EndTime: "10:00", Reason: "晨间服药"},
			},
		}
		require.NoError(t, ValidatePreferences(prefs))
	})

	t.Run("要求人数不能为负", func(t *testing.T) {
		prefs := &domain.CoveragePreferences{
			Required: map[string]domain.BlockRequirement{
				"morning": {Weekday: -1},
			},
		}
		assert.Error(t, ValidatePreferences(prefs))
	})

	t.Run("关键时段必须指定星期几", func(t *testing.T) {
		prefs := &domain.CoveragePreferences{
			CriticalSlots: []domain.CriticalTimeSlot{
				{StartTime: "08:00", EndTime: "10:00"},
			},
		}
		assert.Error(t, ValidatePreferences(prefs))
	})
}
