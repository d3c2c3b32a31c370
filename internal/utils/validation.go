package utils

import (
	"errors"
	"fmt"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
)

// ValidateShift 检查班次的时间和状态是否自洽
// 未指派的班次状态必须是 open，跨夜班次允许结束时间小于开始时间
func ValidateShift(shift *domain.CareShift) error {
	start, err := timeutil.ToMinutes(shift.StartTime)
	if err != nil {
		return errors.New("开始时间格式错误")
	}
	end, err := timeutil.ToMinutes(shift.EndTime)
	if err != nil {
		return errors.New("结束时间格式错误")
	}
	if start == end {
		return errors.New("开始时间和结束时间不能相同")
	}

	if !shift.Assigned() && shift.Status != domain.ShiftStatusOpen {
		return errors.New("未指派的班次状态必须为 open")
	}

	if shift.Recurrence != nil {
		if err := ValidateRecurrence(shift.Recurrence); err != nil {
			return err
		}
	}

	return nil
}

func ValidateRecurrence(rec *domain.Recurrence) error {
	switch rec.Type {
	case domain.RecurrenceTypeDaily, domain.RecurrenceTypeWeekly:
	default:
		return fmt.Errorf("不支持的重复类型 %s", rec.Type)
	}

	if rec.Interval <= 0 {
		return errors.New("重复间隔必须大于 0")
	}

	if rec.Type == domain.RecurrenceTypeWeekly && len(rec.Days) == 0 {
		return errors.New("按周重复的班次必须指定星期几")
	}
	for _, day := range rec.Days {
		if day < 0 || day > 6 {
			return fmt.Errorf("星期几 %d 超出范围", day)
		}
	}

	if rec.Until != nil && rec.Count != nil {
		return errors.New("截止日期和重复次数只能指定其中之一")
	}

	return nil
}

// ValidateWeeklyPattern 检查周模式中的每个时间槽
func ValidateWeeklyPattern(pattern map[int32][]domain.AvailabilitySlot) error {
	for day, slots := range pattern {
		if day < 0 || day > 6 {
			return fmt.Errorf("星期几 %d 超出范围", day)
		}
		for _, slot := range slots {
			if _, err := timeutil.ToMinutes(slot.StartTime); err != nil {
				return fmt.Errorf("星期 %d 的时间槽开始时间格式错误", day)
			}
			if _, err := timeutil.ToMinutes(slot.EndTime); err != nil {
				return fmt.Errorf("星期 %d 的时间槽结束时间格式错误", day)
			}
			switch slot.Status {
			case domain.AvailabilityStatusAvailable, domain.AvailabilityStatusTentative, domain.AvailabilityStatusUnavailable:
			default:
				return fmt.Errorf("星期 %d 的时间槽状态非法", day)
			}
		}
	}
	return nil
}

// ValidatePreferences 检查覆盖要求配置
func ValidatePreferences(prefs *domain.CoveragePreferences) error {
	for block, req := range prefs.Required {
		if req.Weekday < 0 || req.Weekend < 0 {
			return fmt.Errorf("时段 %s 的要求人数不能为负", block)
		}
	}

	for i, slot := range prefs.CriticalSlots {
		if len(slot.Days) == 0 {
			return fmt.Errorf("第 %d 个关键时段必须指定星期几", i+1)
		}
		for _, day := range slot.Days {
			if day < 0 || day > 6 {
				return fmt.Errorf("第 %d 个关键时段的星期几 %d 超出范围", i+1, day)
			}
		}
		if _, err := timeutil.ToMinutes(slot.StartTime); err != nil {
			return fmt.Errorf("第 %d 个关键时段的开始时间格式错误", i+1)
		}
		if _, err := timeutil.ToMinutes(slot.EndTime); err != nil {
			return fmt.Errorf("第 %d 个关键时段的结束时间格式错误", i+1)
		}
	}

	return nil
}
