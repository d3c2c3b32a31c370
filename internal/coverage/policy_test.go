package coverage

import (
	"testing"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferencePolicyRejectsInvalidSlotTime(t *testing.T) {
	// 关键时段时间不合法时必须报错，而不是静默降级缺口优先级
	prefs := testPreferences()
	prefs.CriticalSlots = []domain.CriticalTimeSlot{
		{Days: []int32{1}, StartTime: "8:00", EndTime: "10:00", Reason: "服药时间"},
	}

	policy, err := PreferencePolicy(prefs)
	require.Error(t, err)
	assert.ErrorIs(t, err, timeutil.ErrInvalidTime)
	assert.Nil(t, policy)
}

func TestPreferencePolicyWeekendRequired(t *testing.T) {
	policy, err := PreferencePolicy(testPreferences())
	require.NoError(t, err)

	morning := policy.Blocks[0]
	require.Equal(t, BlockMorning, morning.Label)

	assert.Equal(t, 2, policy.Required(day(t, "2026-03-02"), morning), "工作日取 weekday 人数")
	assert.Equal(t, 1, policy.Required(day(t, "2026-03-07"), morning), "周末取 weekend 人数")
}
