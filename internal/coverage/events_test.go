package coverage

import (
	"testing"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftEventsCreate(t *testing.T) {
	shift := &domain.CareShift{
		ID: 7, Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00",
		AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled,
	}

	events := ShiftEvents(nil, shift)
	require.Len(t, events, 1)
	assert.Equal(t, "shift_assigned", events[0].Type)
	assert.Equal(t, int64(1), *events[0].RecipientID)
	assert.Equal(t, int64(7), events[0].RelatedID)

	// 创建未指派的班次不产生事件
	open := &domain.CareShift{ID: 8, Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00", Status: domain.ShiftStatusOpen}
	assert.Empty(t, ShiftEvents(nil, open))
}

func TestClaimEventsNotifyCoordinators(t *testing.T) {
	shift := &domain.CareShift{
		ID: 7, Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00",
		AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled,
	}

	events := ClaimEvents(shift)
	require.Len(t, events, 2)

	assert.Equal(t, "shift_assigned", events[0].Type)
	require.NotNil(t, events[0].RecipientID)
	assert.Equal(t, int64(1), *events[0].RecipientID)

	// 认领事件没有指定接收人，由投递方广播给所有协调员
	assert.Equal(t, "shift_claimed", events[1].Type)
	assert.Nil(t, events[1].RecipientID)
	assert.Equal(t, int64(7), events[1].RelatedID)
}

func TestShiftEventsReassign(t *testing.T) {
	oldShift := &domain.CareShift{ID: 7, Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00", AssigneeID: int64Ptr(1)}
	newShift := &domain.CareShift{ID: 7, Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00", AssigneeID: int64Ptr(2)}

	events := ShiftEvents(oldShift, newShift)
	require.Len(t, events, 2)
	assert.Equal(t, "shift_unassigned", events[0].Type)
	assert.Equal(t, int64(1), *events[0].RecipientID)
	assert.Equal(t, "shift_assigned", events[1].Type)
	assert.Equal(t, int64(2), *events[1].RecipientID)
}

func TestShiftEventsNoChange(t *testing.T) {
	shift := &domain.CareShift{ID: 7, Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00", AssigneeID: int64Ptr(1)}
	updated := &domain.CareShift{ID: 7, Date: "2026-03-02", StartTime: "09:00", EndTime: "17:00", AssigneeID: int64Ptr(1)}

	assert.Empty(t, ShiftEvents(shift, updated), "指派未变化时不产生事件")
}

func TestShiftEventsDelete(t *testing.T) {
	shift := &domain.CareShift{ID: 7, Date: "2026-03-02", StartTime: "08:00", EndTime: "16:00", AssigneeID: int64Ptr(1)}

	events := ShiftEvents(shift, nil)
	require.Len(t, events, 1)
	assert.Equal(t, "shift_cancelled", events[0].Type)
	assert.Equal(t, int64(1), *events[0].RecipientID)
}
