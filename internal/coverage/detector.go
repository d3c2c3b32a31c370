package coverage

import (
	"fmt"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
)

const dateLayout = "2006-01-02"

// Detector 按照给定策略扫描日期范围，找出没有被足够的已指派班次覆盖的时段
type Detector struct {
	policy *Policy
}

func NewDetector(policy *Policy) *Detector {
	return &Detector{policy: policy}
}

// ScanResult 表示一次扫描的输出：新发现的缺口和待投递的通知事件
type ScanResult struct {
	Gaps   []*domain.CoverageGap
	Events []domain.Notification
}

// DetectRange 扫描 [start, end]（含两端）中的每一天
// 只返回新发现的缺口：同一 (日期, 时段) 上已存在未解决缺口时不再重复记录，
// 因此对同一范围的重复扫描是幂等的
func (d *Detector) DetectRange(start, end time.Time, shifts []*domain.CareShift, existing []*domain.CoverageGap) ([]*domain.CoverageGap, error) {
	shiftsByDate := groupShiftsByDate(shifts)

	seen := make(map[string]bool)
	for _, gap := range existing {
		if gap.Status != domain.GapStatusResolved {
			seen[gapKey(gap.Date, gap.StartTime, gap.EndTime)] = true
		}
	}

	var gaps []*domain.CoverageGap
	now := time.Now()

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)

		for _, block := range d.policy.Blocks {
			required := d.policy.Required(day, block)
			if required <= 0 {
				continue
			}

			assigned, err := countAssignedOverlapping(shiftsByDate[date], block)
			if err != nil {
				return nil, err
			}
			if assigned >= required {
				continue
			}

			key := gapKey(date, block.StartTime, block.EndTime)
			if seen[key] {
				continue
			}
			seen[key] = true

			gaps = append(gaps, &domain.CoverageGap{
				Date:         date,
				Block:        block.Label,
				StartTime:    block.StartTime,
				EndTime:      block.EndTime,
				Priority:     d.policy.Classify(day, block),
				Status:       domain.GapStatusIdentified,
				IdentifiedAt: now,
			})
		}
	}

	return gaps, nil
}

// Scan 在 DetectRange 的基础上为每个缺口补充处理建议，并生成通知事件
// 固定时段策略附带推荐照护者列表，偏好策略附带完整的处理方案
func (d *Detector) Scan(start, end time.Time, shifts []*domain.CareShift, existing []*domain.CoverageGap, caregivers []*domain.User) (*ScanResult, error) {
	gaps, err := d.DetectRange(start, end, shifts, existing)
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Gaps: gaps}

	for _, gap := range gaps {
		switch d.policy.Name {
		case PolicyPreference:
			options, err := BuildOptions(gap, shifts, caregivers)
			if err != nil {
				return nil, err
			}
			gap.Options = options
		default:
			suggested, err := SuggestCaregivers(gap, shifts, caregivers)
			if err != nil {
				return nil, err
			}
			gap.SuggestedIDs = suggested
		}

		if gap.Priority.Urgent() {
			result.Events = append(result.Events, domain.Notification{
				Type:      "coverage_gap",
				Title:     "发现紧急覆盖缺口",
				Message:   fmt.Sprintf("%s %s~%s 时段没有足够的照护安排", gap.Date, gap.StartTime, gap.EndTime),
				Priority:  gap.Priority,
				RelatedTo: "gap",
				Date:      gap.Date,
				StartTime: gap.StartTime,
				EndTime:   gap.EndTime,
			})
		}
	}

	return result, nil
}

func gapKey(date, start, end string) string {
	return date + " " + start + "~" + end
}

func groupShiftsByDate(shifts []*domain.CareShift) map[string][]*domain.CareShift {
	byDate := make(map[string][]*domain.CareShift)
	for _, shift := range shifts {
		byDate[shift.Date] = append(byDate[shift.Date], shift)
	}
	return byDate
}

// countAssignedOverlapping 统计与时段重叠的已指派班次数量
// 未指派的 open 班次不计入覆盖
func countAssignedOverlapping(shifts []*domain.CareShift, block Block) (int, error) {
	count := 0
	for _, shift := range shifts {
		if !shift.Assigned() || shift.Status == domain.ShiftStatusCancelled {
			continue
		}
		overlap, err := timeutil.OverlapsTime(shift.StartTime, shift.EndTime, block.StartTime, block.EndTime)
		if err != nil {
			return 0, err
		}
		if overlap {
			count++
		}
	}
	return count, nil
}

// IsCovered 判断某个缺口对应的时段当前是否已被已指派班次覆盖
// 用于缺口解决时的复核
func IsCovered(gap *domain.CoverageGap, shifts []*domain.CareShift) (bool, error) {
	var sameDay []*domain.CareShift
	for _, shift := range shifts {
		if shift.Date == gap.Date {
			sameDay = append(sameDay, shift)
		}
	}
	count, err := countAssignedOverlapping(sameDay, Block{StartTime: gap.StartTime, EndTime: gap.EndTime})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
