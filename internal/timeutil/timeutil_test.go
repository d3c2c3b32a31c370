package timeutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:05", 545},
		{"23:59", 1439},
	}
	for _, c := range cases {
		got, err := ToMinutes(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestToMinutesInvalid(t *testing.T) {
	for _, in := range []string{"", "9:00", "24:00", "12:60", "ab:cd", "12-30", "12:3"} {
		_, err := ToMinutes(in)
		assert.ErrorIs(t, err, ErrInvalidTime, "输入 %q 应当返回格式错误", in)
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "00:00", FormatMinutes(0))
	assert.Equal(t, "09:05", FormatMinutes(545))
	assert.Equal(t, "00:30", FormatMinutes(1470)) // 超过一天自动回绕
}

func mustMinutes(t *testing.T, s string) int {
	t.Helper()
	m, err := ToMinutes(s)
	require.NoError(t, err)
	return m
}

func TestOverlapsSymmetry(t *testing.T) {
	// 非跨夜区间的重叠判断应当是对称的，且正时长区间与自身重叠
	intervals := [][2]string{
		{"06:00", "14:00"},
		{"09:00", "10:00"},
		{"13:30", "22:00"},
		{"00:00", "23:59"},
	}
	for _, a := range intervals {
		as, ae := mustMinutes(t, a[0]), mustMinutes(t, a[1])
		assert.True(t, Overlaps(as, ae, as, ae), "区间 %v 应与自身重叠", a)
		for _, b := range intervals {
			bs, be := mustMinutes(t, b[0]), mustMinutes(t, b[1])
			assert.Equal(t, Overlaps(as, ae, bs, be), Overlaps(bs, be, as, ae), "重叠判断应对称: %v vs %v", a, b)
		}
	}
}

func TestOverlapsOvernight(t *testing.T) {
	got, err := OverlapsTime("22:00", "06:00", "23:00", "01:00")
	require.NoError(t, err)
	assert.True(t, got, "两个跨夜区间应判定为重叠")

	// 跨夜区间与非跨夜区间
	got, err = OverlapsTime("22:00", "06:00", "05:00", "08:00")
	require.NoError(t, err)
	assert.True(t, got, "非跨夜区间落在零点后段应判定为重叠")

	got, err = OverlapsTime("22:00", "06:00", "08:00", "12:00")
	require.NoError(t, err)
	assert.False(t, got, "非跨夜区间完全在跨夜区间外应判定为不重叠")
}

func TestOverlapsHalfOpen(t *testing.T) {
	got, err := OverlapsTime("09:00", "10:00", "10:00", "11:00")
	require.NoError(t, err)
	assert.False(t, got, "端点相接不算重叠")
}

func TestDuration(t *testing.T) {
	d, err := DurationTime("22:00", "02:00")
	require.NoError(t, err)
	assert.Equal(t, 240, d)

	d, err = DurationTime("09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, 480, d)
}

func TestMidpoint(t *testing.T) {
	m, err := MidpointTime("22:00", "02:00")
	require.NoError(t, err)
	assert.Equal(t, "00:00", m)

	m, err = MidpointTime("06:00", "14:00")
	require.NoError(t, err)
	assert.Equal(t, "10:00", m)

	// 向下取整
	m, err = MidpointTime("09:00", "09:01")
	require.NoError(t, err)
	assert.Equal(t, "09:00", m)
}

func TestAddMinutes(t *testing.T) {
	s, err := AddMinutes("23:00", 120)
	require.NoError(t, err)
	assert.Equal(t, "01:00", s)
}
