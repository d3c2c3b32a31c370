// Package timeutil 提供 HH:MM 时间字符串的算术运算
// 所有函数都支持跨夜区间（结束时间小于开始时间表示延续到次日）
package timeutil

import (
	"errors"
	"fmt"
)

const minutesPerDay = 24 * 60

// ErrInvalidTime 表示时间字符串不是合法的 24 小时制 HH:MM 格式
var ErrInvalidTime = errors.New("时间格式错误，应为 HH:MM")

// ToMinutes 将 HH:MM 解析为从零点开始的分钟数（0~1439）
func ToMinutes(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	hour, ok := parseTwoDigits(s[0], s[1])
	if !ok || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	minute, ok := parseTwoDigits(s[3], s[4])
	if !ok || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}

	return hour*60 + minute, nil
}

func parseTwoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// FormatMinutes 将分钟数格式化回补零的 HH:MM
func FormatMinutes(m int) string {
	m = ((m % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Overlaps 判断两个区间是否有重叠，参数为分钟数
// 区间按半开处理，端点相接不算重叠
// 两个区间都跨夜时必然都覆盖零点，直接判定为重叠
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	aOvernight := aEnd < aStart
	bOvernight := bEnd < bStart

	switch {
	case aOvernight && bOvernight:
		return true
	case aOvernight:
		// b 只要落在 a 的零点前段或零点后段之一即可
		return bStart < aEnd || aStart < bEnd
	case bOvernight:
		return aStart < bEnd || bStart < aEnd
	default:
		return aStart < bEnd && bStart < aEnd
	}
}

// Duration 计算区间时长（分钟），跨夜时加上一天
func Duration(start, end int) int {
	d := end - start
	if d < 0 {
		d += minutesPerDay
	}
	return d
}

// Midpoint 计算区间的中点（分钟），向下取整
func Midpoint(start, end int) int {
	if end < start {
		end += minutesPerDay
	}
	return ((start + end) / 2) % minutesPerDay
}

// OverlapsTime 是 Overlaps 的字符串版本
func OverlapsTime(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := ToMinutes(aStart)
	if err != nil {
		return false, err
	}
	ae, err := ToMinutes(aEnd)
	if err != nil {
		return false, err
	}
	bs, err := ToMinutes(bStart)
	if err != nil {
		return false, err
	}
	be, err := ToMinutes(bEnd)
	if err != nil {
		return false, err
	}
	return Overlaps(as, ae, bs, be), nil
}

// DurationTime 是 Duration 的字符串版本
func DurationTime(start, end string) (int, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return 0, err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return 0, err
	}
	return Duration(s, e), nil
}

// MidpointTime 是 Midpoint 的字符串版本，返回 HH:MM
func MidpointTime(start, end string) (string, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return "", err
	}
	e, err := ToMinutes(end)
	if err != nil {
		return "", err
	}
	return FormatMinutes(Midpoint(s, e)), nil
}

// AddMinutes 在 HH:MM 上加上若干分钟，超过零点时取模回绕
func AddMinutes(start string, minutes int) (string, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return "", err
	}
	return FormatMinutes(s + minutes), nil
}
