package coverage

import (
	"fmt"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
)

// 时长达到四个小时的缺口才值得拆分为两个班次
const splitMinimumMinutes = 240

// freeCaregivers 找出当天没有任何已指派班次与缺口时段重叠的照护者，即可以改派的候选人
func freeCaregivers(gap *domain.CoverageGap, shifts []*domain.CareShift, caregivers []*domain.User) ([]*domain.User, error) {
	busy := make(map[int64]bool)
	for _, shift := range shifts {
		if shift.Date != gap.Date || !shift.Assigned() || shift.Status == domain.ShiftStatusCancelled {
			continue
		}
		overlap, err := timeutil.OverlapsTime(shift.StartTime, shift.EndTime, gap.StartTime, gap.EndTime)
		if err != nil {
			return nil, err
		}
		if overlap {
			busy[*shift.AssigneeID] = true
		}
	}

	var free []*domain.User
	for _, user := range caregivers {
		if !user.IsActive || busy[user.ID] {
			continue
		}
		free = append(free, user)
	}
	return free, nil
}

// SuggestCaregivers 返回可以补位的照护者 ID 列表
func SuggestCaregivers(gap *domain.CoverageGap, shifts []*domain.CareShift, caregivers []*domain.User) ([]int64, error) {
	free, err := freeCaregivers(gap, shifts, caregivers)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(free))
	for _, user := range free {
		ids = append(ids, user.ID)
	}
	return ids, nil
}

// BuildOptions 为缺口生成处理方案
// 顺序固定：每个候选人一个改派方案，时长足够时一个拆分方案，最后总是一个改期方案
func BuildOptions(gap *domain.CoverageGap, shifts []*domain.CareShift, caregivers []*domain.User) ([]domain.ResolutionOption, error) {
	free, err := freeCaregivers(gap, shifts, caregivers)
	if err != nil {
		return nil, err
	}

	var options []domain.ResolutionOption

	for i, user := range free {
		assigneeID := user.ID
		options = append(options, domain.ResolutionOption{
			ID:          fmt.Sprintf("reassign-%d", i+1),
			Type:        domain.ResolutionTypeReassign,
			Description: fmt.Sprintf("改派给 %s", user.FullName),
			AssigneeID:  &assigneeID,
		})
	}

	duration, err := timeutil.DurationTime(gap.StartTime, gap.EndTime)
	if err != nil {
		return nil, err
	}
	if duration >= splitMinimumMinutes {
		midpoint, err := timeutil.MidpointTime(gap.StartTime, gap.EndTime)
		if err != nil {
			return nil, err
		}
		options = append(options, domain.ResolutionOption{
			ID:          "split-1",
			Type:        domain.ResolutionTypeSplit,
			Description: fmt.Sprintf("在 %s 拆分为两个班次", midpoint),
			StartTime:   &gap.StartTime,
			EndTime:     &gap.EndTime,
		})
	}

	date := gap.Date
	options = append(options, domain.ResolutionOption{
		ID:          "reschedule-1",
		Type:        domain.ResolutionTypeReschedule,
		Description: "调整该时段的安排",
		Date:        &date,
		StartTime:   &gap.StartTime,
		EndTime:     &gap.EndTime,
	})

	return options, nil
}
