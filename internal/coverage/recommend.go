package coverage

import (
	"fmt"
	"sort"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
)

const (
	// 一周工作少于 20 小时的照护者视为利用不足
	underutilizedHours = 20.0
	// 同一个人一天超过 2 个班次视为负荷失衡
	dailyShiftLimit = 2
)

// Workloads 计算每个照护者在给定班次集合中的总工作时长（小时）
func Workloads(shifts []*domain.CareShift) (map[int64]float64, error) {
	hours := make(map[int64]float64)
	for _, shift := range shifts {
		if !shift.Assigned() || shift.Status == domain.ShiftStatusCancelled {
			continue
		}
		minutes, err := timeutil.DurationTime(shift.StartTime, shift.EndTime)
		if err != nil {
			return nil, err
		}
		hours[*shift.AssigneeID] += float64(minutes) / 60
	}
	return hours, nil
}

// BuildRecommendations 聚合缺口和负荷情况，产出给协调员的优先级建议
func BuildRecommendations(start, end time.Time, shifts []*domain.CareShift, gaps []*domain.CoverageGap, caregivers []*domain.User) ([]*domain.Recommendation, error) {
	var recs []*domain.Recommendation

	// 1. 紧急缺口
	var urgentIDs []int64
	for _, gap := range gaps {
		if gap.Status != domain.GapStatusResolved && gap.Priority.Urgent() {
			urgentIDs = append(urgentIDs, gap.ID)
		}
	}
	if len(urgentIDs) > 0 {
		recs = append(recs, &domain.Recommendation{
			Type:     domain.RecommendationTypeCriticalGaps,
			Priority: domain.GapPriorityCritical,
			Title:    "存在紧急覆盖缺口",
			Message:  fmt.Sprintf("有 %d 个高优先级缺口需要尽快安排人手", len(urgentIDs)),
			GapIDs:   urgentIDs,
		})
	}

	// 2. 利用不足的照护者
	workloads, err := Workloads(shifts)
	if err != nil {
		return nil, err
	}
	if len(gaps) > 0 {
		var underutilized []int64
		for _, user := range caregivers {
			if !user.IsActive {
				continue
			}
			if workloads[user.ID] < underutilizedHours {
				underutilized = append(underutilized, user.ID)
			}
		}
		if len(underutilized) > 0 {
			recs = append(recs, &domain.Recommendation{
				Type:         domain.RecommendationTypeUnderutilized,
				Priority:     domain.GapPriorityMedium,
				Title:        "部分照护者工作量偏低",
				Message:      fmt.Sprintf("有 %d 位照护者本期工作不足 %.0f 小时，可以考虑请他们补位", len(underutilized), underutilizedHours),
				CaregiverIDs: underutilized,
			})
		}
	}

	// 3. 负荷失衡
	imbalanced, err := imbalancedDates(start, end, shifts)
	if err != nil {
		return nil, err
	}
	if len(imbalanced) > 0 {
		recs = append(recs, &domain.Recommendation{
			Type:     domain.RecommendationTypeImbalance,
			Priority: domain.GapPriorityMedium,
			Title:    "工作负荷分配失衡",
			Message:  fmt.Sprintf("有 %d 天存在同一人承担超过 %d 个班次的情况", len(imbalanced), dailyShiftLimit),
			Dates:    imbalanced,
		})
	}

	// 4. 重复出现的缺口模式
	recs = append(recs, recurringSuggestions(gaps)...)

	return recs, nil
}

// imbalancedDates 找出范围内存在某人班次数超过上限的日期
func imbalancedDates(start, end time.Time, shifts []*domain.CareShift) ([]string, error) {
	shiftsByDate := groupShiftsByDate(shifts)

	var dates []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)

		perAssignee := make(map[int64]int)
		for _, shift := range shiftsByDate[date] {
			if !shift.Assigned() || shift.Status == domain.ShiftStatusCancelled {
				continue
			}
			perAssignee[*shift.AssigneeID]++
		}

		for _, count := range perAssignee {
			if count > dailyShiftLimit {
				dates = append(dates, date)
				break
			}
		}
	}
	return dates, nil
}

// recurringSuggestions 按 (开始, 结束) 时间对缺口分组，
// 同组中同一星期几出现两次以上时，建议创建重复班次
func recurringSuggestions(gaps []*domain.CoverageGap) []*domain.Recommendation {
	groups := make(map[string][]*domain.CoverageGap)
	var order []string
	for _, gap := range gaps {
		key := gap.StartTime + "~" + gap.EndTime
		if _, exists := groups[key]; !exists {
			order = append(order, key)
		}
		groups[key] = append(groups[key], gap)
	}

	var recs []*domain.Recommendation
	for _, key := range order {
		group := groups[key]

		byDay := make(map[int32][]*domain.CoverageGap)
		for _, gap := range group {
			day, err := time.Parse(dateLayout, gap.Date)
			if err != nil {
				continue
			}
			weekday := int32(day.Weekday())
			byDay[weekday] = append(byDay[weekday], gap)
		}

		weekdays := make([]int32, 0, len(byDay))
		for weekday := range byDay {
			weekdays = append(weekdays, weekday)
		}
		sort.Slice(weekdays, func(i, j int) bool { return weekdays[i] < weekdays[j] })

		var days []int32
		var gapIDs []int64
		for _, weekday := range weekdays {
			dayGaps := byDay[weekday]
			if len(dayGaps) < 2 {
				continue
			}
			days = append(days, weekday)
			for _, gap := range dayGaps {
				gapIDs = append(gapIDs, gap.ID)
			}
		}
		if len(days) == 0 {
			continue
		}

		recs = append(recs, &domain.Recommendation{
			Type:      domain.RecommendationTypeRecurringShift,
			Priority:  domain.GapPriorityLow,
			Title:     "考虑创建重复班次",
			Message:   fmt.Sprintf("%s~%s 时段在固定的星期几反复出现缺口，可以创建重复班次来长期覆盖", group[0].StartTime, group[0].EndTime),
			GapIDs:    gapIDs,
			Days:      days,
			StartTime: group[0].StartTime,
			EndTime:   group[0].EndTime,
		})
	}
	return recs
}
