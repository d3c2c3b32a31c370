package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/coverage"
	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/utils"
)

const dateLayout = "2006-01-02"

func parseDateRange(startDate, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("startDate 参数无效")
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("endDate 参数无效")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("endDate 不能早于 startDate")
	}
	return start, end, nil
}

// ScanCoverage 扫描日期范围内的覆盖缺口并入库
// 重复扫描同一范围是幂等的：已存在的未解决缺口不会被重复记录
func (h *Handler) ScanCoverage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
		EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
		Policy    string `json:"policy" validate:"omitempty,oneof=fixed preference"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	policy, err := h.policy(req.Policy)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shifts, err := h.repository.GetShiftsByDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	existing, err := h.repository.GetGapsByDateRange(req.StartDate, req.EndDate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	caregivers, err := h.repository.GetActiveUsersByRole(domain.RoleCaregiver)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	result, err := coverage.NewDetector(policy).Scan(start, end, shifts, existing, caregivers)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.InsertGaps(result.Gaps); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.tracker.Track("coverage_scan", map[string]any{"policy": policy.Name, "gaps": len(result.Gaps)})
	h.dispatchEvents(result.Events)

	h.successResponse(w, r, fmt.Sprintf("扫描完成，发现 %d 个新缺口", len(result.Gaps)), result.Gaps)
}

// GetGaps 获取缺口列表，带日期范围时按范围查询，否则返回所有未解决的缺口
func (h *Handler) GetGaps(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var gaps []*domain.CoverageGap
	var err error

	if query.Get("startDate") != "" && query.Get("endDate") != "" {
		gaps, err = h.repository.GetGapsByDateRange(query.Get("startDate"), query.Get("endDate"))
	} else {
		gaps, err = h.repository.GetUnresolvedGaps()
	}
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取缺口列表成功", gaps)
}

func (h *Handler) GetGap(w http.ResponseWriter, r *http.Request) {
	gap := r.Context().Value(CoverageGapCtx).(*domain.CoverageGap)
	h.successResponse(w, r, "获取缺口成功", gap)
}

// RequestCoverage 就某个缺口向推荐的照护者发出补位请求
func (h *Handler) RequestCoverage(w http.ResponseWriter, r *http.Request) {
	gap := r.Context().Value(CoverageGapCtx).(*domain.CoverageGap)

	if gap.Status == domain.GapStatusResolved {
		h.errorResponse(w, r, "缺口已解决，无需请求补位")
		return
	}

	recipients := gap.SuggestedIDs
	if len(recipients) == 0 {
		for _, option := range gap.Options {
			if option.Type == domain.ResolutionTypeReassign && option.AssigneeID != nil {
				recipients = append(recipients, *option.AssigneeID)
			}
		}
	}
	if len(recipients) == 0 {
		h.errorResponse(w, r, "没有可以请求补位的照护者")
		return
	}

	gap.Status = domain.GapStatusPendingResponses

	if err := h.repository.UpdateGap(gap); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "缺口已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	var events []domain.Notification
	for _, recipientID := range recipients {
		id := recipientID
		events = append(events, domain.Notification{
			Type:        "coverage_request",
			Title:       "补位请求",
			Message:     fmt.Sprintf("%s %s~%s 时段缺少照护安排，您是否方便补位？", gap.Date, gap.StartTime, gap.EndTime),
			Priority:    gap.Priority,
			RelatedTo:   "gap",
			RelatedID:   gap.ID,
			Date:        gap.Date,
			StartTime:   gap.StartTime,
			EndTime:     gap.EndTime,
			RecipientID: &id,
		})
	}

	h.tracker.Track("coverage_requested", map[string]any{"gap_id": gap.ID, "recipients": len(recipients)})
	h.dispatchEvents(events)

	h.successResponse(w, r, "补位请求已发送", gap)
}

// ResolveGap 将缺口标记为已解决
// 标记前会复核该时段是否真的已被已指派班次覆盖
func (h *Handler) ResolveGap(w http.ResponseWriter, r *http.Request) {
	gap := r.Context().Value(CoverageGapCtx).(*domain.CoverageGap)

	if gap.Status == domain.GapStatusResolved {
		h.successResponse(w, r, "缺口已解决", gap)
		return
	}

	shifts, err := h.repository.GetShiftsByDate(gap.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	covered, err := coverage.IsCovered(gap, shifts)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !covered {
		h.errorResponse(w, r, "该时段仍未被已指派的班次覆盖，无法标记为已解决")
		return
	}

	now := time.Now()
	gap.Status = domain.GapStatusResolved
	gap.ResolvedAt = &now

	if err := h.repository.UpdateGap(gap); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "缺口已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.tracker.Track("gap_resolved", map[string]any{"gap_id": gap.ID})

	h.successResponse(w, r, "缺口已解决", gap)
}

func (h *Handler) GetCoverageMetrics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, end, err := parseDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	shifts, err := h.repository.GetShiftsByDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	gaps, err := h.repository.GetGapsByDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	metrics, err := coverage.CalculateMetrics(start, end, shifts, gaps)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取覆盖统计成功", metrics)
}

func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, end, err := parseDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	shifts, err := h.repository.GetShiftsByDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	gaps, err := h.repository.GetGapsByDateRange(query.Get("startDate"), query.Get("endDate"))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	caregivers, err := h.repository.GetActiveUsersByRole(domain.RoleCaregiver)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	recs, err := coverage.BuildRecommendations(start, end, shifts, gaps, caregivers)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取建议成功", recs)
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.repository.GetPreferences()
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// 还没有保存过配置时返回默认值
			prefs = &domain.CoveragePreferences{
				Required: map[string]domain.BlockRequirement{
					coverage.BlockMorning:   {Weekday: 1, Weekend: 1},
					coverage.BlockAfternoon: {Weekday: 1, Weekend: 1},
					coverage.BlockNight:     {Weekday: 1, Weekend: 1},
					coverage.BlockOvernight: {Weekday: 1, Weekend: 1},
				},
				PreferredCaregivers: make(map[string][]int64),
			}
		default:
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "获取覆盖要求成功", prefs)
}

func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Required            map[string]domain.BlockRequirement `json:"required" validate:"required"`
		PreferredCaregivers map[string][]int64                 `json:"preferredCaregivers"`
		CriticalSlots       []domain.CriticalTimeSlot          `json:"criticalSlots"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	prefs := &domain.CoveragePreferences{
		Required:            req.Required,
		PreferredCaregivers: req.PreferredCaregivers,
		CriticalSlots:       req.CriticalSlots,
	}

	if err := utils.ValidatePreferences(prefs); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.SavePreferences(prefs); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存覆盖要求成功", prefs)
}
