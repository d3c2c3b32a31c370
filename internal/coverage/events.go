package coverage

import (
	"fmt"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

// ShiftEvents 比较班次变更前后的指派情况，返回需要投递的通知事件
// old 为 nil 表示新建，new 为 nil 表示删除
func ShiftEvents(oldShift, newShift *domain.CareShift) []domain.Notification {
	var events []domain.Notification

	switch {
	case oldShift == nil && newShift != nil:
		if newShift.Assigned() {
			events = append(events, assignedEvent(newShift))
		}
	case oldShift != nil && newShift == nil:
		if oldShift.Assigned() {
			events = append(events, domain.Notification{
				Type:        "shift_cancelled",
				Title:       "班次已取消",
				Message:     fmt.Sprintf("%s %s~%s 的班次已被取消", oldShift.Date, oldShift.StartTime, oldShift.EndTime),
				Priority:    domain.GapPriorityMedium,
				RelatedTo:   "shift",
				RelatedID:   oldShift.ID,
				Date:        oldShift.Date,
				StartTime:   oldShift.StartTime,
				EndTime:     oldShift.EndTime,
				RecipientID: oldShift.AssigneeID,
			})
		}
	default:
		if sameAssignee(oldShift, newShift) {
			return nil
		}
		if oldShift.Assigned() {
			events = append(events, domain.Notification{
				Type:        "shift_unassigned",
				Title:       "班次指派已变更",
				Message:     fmt.Sprintf("您不再负责 %s %s~%s 的班次", newShift.Date, newShift.StartTime, newShift.EndTime),
				Priority:    domain.GapPriorityMedium,
				RelatedTo:   "shift",
				RelatedID:   newShift.ID,
				Date:        newShift.Date,
				StartTime:   newShift.StartTime,
				EndTime:     newShift.EndTime,
				RecipientID: oldShift.AssigneeID,
			})
		}
		if newShift.Assigned() {
			events = append(events, assignedEvent(newShift))
		}
	}

	return events
}

// ClaimEvents 返回班次被认领后需要投递的事件
// 除了告知认领人，还会产生一条 RecipientID 为空的事件，由投递方广播给协调员
func ClaimEvents(shift *domain.CareShift) []domain.Notification {
	events := ShiftEvents(nil, shift)
	return append(events, domain.Notification{
		Type:      "shift_claimed",
		Title:     "班次已被认领",
		Message:   fmt.Sprintf("%s %s~%s 的班次已被认领", shift.Date, shift.StartTime, shift.EndTime),
		Priority:  domain.GapPriorityLow,
		RelatedTo: "shift",
		RelatedID: shift.ID,
		Date:      shift.Date,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
	})
}

func assignedEvent(shift *domain.CareShift) domain.Notification {
	return domain.Notification{
		Type:        "shift_assigned",
		Title:       "新的班次指派",
		Message:     fmt.Sprintf("您被安排负责 %s %s~%s 的班次", shift.Date, shift.StartTime, shift.EndTime),
		Priority:    domain.GapPriorityMedium,
		RelatedTo:   "shift",
		RelatedID:   shift.ID,
		Date:        shift.Date,
		StartTime:   shift.StartTime,
		EndTime:     shift.EndTime,
		RecipientID: shift.AssigneeID,
	}
}

func sameAssignee(a, b *domain.CareShift) bool {
	if a.AssigneeID == nil || b.AssigneeID == nil {
		return a.AssigneeID == nil && b.AssigneeID == nil
	}
	return *a.AssigneeID == *b.AssigneeID
}
