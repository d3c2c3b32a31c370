package coverage

import (
	"testing"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOptionsOrdering(t *testing.T) {
	gap := &domain.CoverageGap{Date: "2026-03-02", StartTime: "14:00", EndTime: "22:00"}
	caregivers := []*domain.User{
		{ID: 1, FullName: "王芳", IsActive: true},
		{ID: 2, FullName: "李静", IsActive: true},
	}

	options, err := BuildOptions(gap, nil, caregivers)
	require.NoError(t, err)
	require.Len(t, options, 4)

	// 顺序：改派 x2 → 拆分 → 改期
	assert.Equal(t, domain.ResolutionTypeReassign, options[0].Type)
	assert.Equal(t, int64(1), *options[0].AssigneeID)
	assert.Equal(t, domain.ResolutionTypeReassign, options[1].Type)
	assert.Equal(t, int64(2), *options[1].AssigneeID)
	assert.Equal(t, domain.ResolutionTypeSplit, options[2].Type)
	assert.Contains(t, options[2].Description, "18:00", "拆分点应为中点")
	assert.Equal(t, domain.ResolutionTypeReschedule, options[3].Type)
}

func TestBuildOptionsShortGapNoSplit(t *testing.T) {
	// 不足四个小时的缺口不提供拆分方案
	gap := &domain.CoverageGap{Date: "2026-03-02", StartTime: "18:00", EndTime: "21:00"}

	options, err := BuildOptions(gap, nil, nil)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, domain.ResolutionTypeReschedule, options[0].Type)
}

func TestBuildOptionsSkipsBusyCaregivers(t *testing.T) {
	gap := &domain.CoverageGap{Date: "2026-03-02", StartTime: "14:00", EndTime: "22:00"}
	caregivers := []*domain.User{
		{ID: 1, FullName: "王芳", IsActive: true},
		{ID: 2, FullName: "李静", IsActive: true},
		{ID: 3, FullName: "张敏", IsActive: false},
	}
	shifts := []*domain.CareShift{
		// 1 号在缺口时段已有班次，2 号的班次在另一天
		{Date: "2026-03-02", StartTime: "15:00", EndTime: "18:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
		{Date: "2026-03-03", StartTime: "15:00", EndTime: "18:00", AssigneeID: int64Ptr(2), Status: domain.ShiftStatusScheduled},
	}

	options, err := BuildOptions(gap, shifts, caregivers)
	require.NoError(t, err)

	var reassignIDs []int64
	for _, option := range options {
		if option.Type == domain.ResolutionTypeReassign {
			reassignIDs = append(reassignIDs, *option.AssigneeID)
		}
	}
	assert.Equal(t, []int64{2}, reassignIDs, "有冲突班次或已离职的照护者不应成为改派候选")
}

func TestSuggestCaregivers(t *testing.T) {
	gap := &domain.CoverageGap{Date: "2026-03-02", StartTime: "22:00", EndTime: "06:00"}
	caregivers := []*domain.User{
		{ID: 1, FullName: "王芳", IsActive: true},
		{ID: 2, FullName: "李静", IsActive: true},
	}
	shifts := []*domain.CareShift{
		// 跨夜班次与跨夜缺口重叠
		{Date: "2026-03-02", StartTime: "23:00", EndTime: "03:00", AssigneeID: int64Ptr(1), Status: domain.ShiftStatusScheduled},
	}

	ids, err := SuggestCaregivers(gap, shifts, caregivers)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}
