package coverage

import (
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
)

// DefaultWeeklyPattern 返回默认的周模式：工作日 09:00~17:00 可用
func DefaultWeeklyPattern() map[int32][]domain.AvailabilitySlot {
	pattern := make(map[int32][]domain.AvailabilitySlot)
	for day := int32(1); day <= 5; day++ {
		pattern[day] = []domain.AvailabilitySlot{
			{StartTime: "09:00", EndTime: "17:00", Status: domain.AvailabilityStatusAvailable},
		}
	}
	return pattern
}

// MergeOverrides 将新提交的日期覆盖合并进已有覆盖
// 只更新提交的日期，之前设置过的其他日期保持不变
func MergeOverrides(existing, updates map[string]domain.AvailabilityStatus) map[string]domain.AvailabilityStatus {
	merged := make(map[string]domain.AvailabilityStatus, len(existing)+len(updates))
	for date, status := range existing {
		merged[date] = status
	}
	for date, status := range updates {
		merged[date] = status
	}
	return merged
}

// EffectiveStatus 解析某个照护者在某天的有效状态
// 优先级：日期覆盖 > 周模式当天第一个时间槽 > 整体状态
func EffectiveStatus(av *domain.UserAvailability, date time.Time) domain.AvailabilityStatus {
	if status, exists := av.Overrides[date.Format(dateLayout)]; exists {
		return status
	}

	slots := av.WeeklyPattern[int32(date.Weekday())]
	if len(slots) > 0 {
		return slots[0].Status
	}

	return av.Status
}

// EffectiveStatusAt 在 EffectiveStatus 的基础上考虑具体时间窗口：
// 当天的周模式非空时，取与窗口重叠的第一个时间槽的状态，没有重叠的槽则视为不可用
func EffectiveStatusAt(av *domain.UserAvailability, date time.Time, startTime, endTime string) (domain.AvailabilityStatus, error) {
	if status, exists := av.Overrides[date.Format(dateLayout)]; exists {
		return status, nil
	}

	slots := av.WeeklyPattern[int32(date.Weekday())]
	if len(slots) > 0 {
		for _, slot := range slots {
			overlap, err := timeutil.OverlapsTime(slot.StartTime, slot.EndTime, startTime, endTime)
			if err != nil {
				return "", err
			}
			if overlap {
				return slot.Status, nil
			}
		}
		return domain.AvailabilityStatusUnavailable, nil
	}

	return av.Status, nil
}

// AvailableCaregivers 返回某天（可选某时间窗口）内状态为 available 或 tentative 的照护者 ID
// startTime 和 endTime 为空时按天粒度判断
func AvailableCaregivers(avs []*domain.UserAvailability, date time.Time, startTime, endTime string) ([]int64, error) {
	var ids []int64
	for _, av := range avs {
		var status domain.AvailabilityStatus
		if startTime == "" || endTime == "" {
			status = EffectiveStatus(av, date)
		} else {
			var err error
			status, err = EffectiveStatusAt(av, date, startTime, endTime)
			if err != nil {
				return nil, err
			}
		}
		if status == domain.AvailabilityStatusAvailable || status == domain.AvailabilityStatusTentative {
			ids = append(ids, av.UserID)
		}
	}
	return ids, nil
}
