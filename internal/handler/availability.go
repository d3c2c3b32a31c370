package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/coverage"
	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
	"github.com/caresupportcom/care-schedule/backend/internal/utils"
	"github.com/go-chi/chi/v5"
)

func availabilityUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

// getOrCreateAvailability 获取照护者的空闲状态，不存在时懒创建默认记录
func (h *Handler) getOrCreateAvailability(userID int64) (*domain.UserAvailability, error) {
	av, err := h.repository.GetAvailability(userID)
	if err == nil {
		return av, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	av = &domain.UserAvailability{
		UserID:        userID,
		Status:        domain.AvailabilityStatusAvailable,
		Overrides:     make(map[string]domain.AvailabilityStatus),
		WeeklyPattern: coverage.DefaultWeeklyPattern(),
	}
	if err := h.repository.CreateAvailability(av); err != nil {
		return nil, err
	}
	return av, nil
}

func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	userID, err := availabilityUserID(r)
	if err != nil {
		h.errorResponse(w, r, "用户ID无效")
		return
	}

	av, err := h.getOrCreateAvailability(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取空闲状态成功", av)
}

func (h *Handler) UpdateAvailabilityStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := availabilityUserID(r)
	if err != nil {
		h.errorResponse(w, r, "用户ID无效")
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=available tentative unavailable"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	av, err := h.getOrCreateAvailability(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	av.Status = domain.AvailabilityStatus(req.Status)

	if err := h.repository.UpdateAvailability(av); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "空闲状态已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新空闲状态成功", av)
}

// SetAvailabilityOverride 设置某一天的状态覆盖
func (h *Handler) SetAvailabilityOverride(w http.ResponseWriter, r *http.Request) {
	userID, err := availabilityUserID(r)
	if err != nil {
		h.errorResponse(w, r, "用户ID无效")
		return
	}

	var req struct {
		Date   string `json:"date" validate:"required,datetime=2006-01-02"`
		Status string `json:"status" validate:"required,oneof=available tentative unavailable"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	av, err := h.getOrCreateAvailability(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	av.Overrides[req.Date] = domain.AvailabilityStatus(req.Status)

	if err := h.repository.UpdateAvailability(av); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "空闲状态已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "设置日期覆盖成功", av)
}

// SetAvailabilityOverrides 批量设置日期覆盖
// 只更新提交的日期，不影响之前设置过的其他日期
func (h *Handler) SetAvailabilityOverrides(w http.ResponseWriter, r *http.Request) {
	userID, err := availabilityUserID(r)
	if err != nil {
		h.errorResponse(w, r, "用户ID无效")
		return
	}

	var req struct {
		Overrides map[string]string `json:"overrides" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	overrides := make(map[string]domain.AvailabilityStatus, len(req.Overrides))
	for date, status := range req.Overrides {
		if _, err := time.Parse(dateLayout, date); err != nil {
			h.errorResponse(w, r, "日期格式错误："+date)
			return
		}
		switch domain.AvailabilityStatus(status) {
		case domain.AvailabilityStatusAvailable, domain.AvailabilityStatusTentative, domain.AvailabilityStatusUnavailable:
		default:
			h.errorResponse(w, r, "状态非法："+status)
			return
		}
		overrides[date] = domain.AvailabilityStatus(status)
	}

	av, err := h.getOrCreateAvailability(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	av.Overrides = coverage.MergeOverrides(av.Overrides, overrides)

	if err := h.repository.UpdateAvailability(av); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "空闲状态已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "批量设置日期覆盖成功", av)
}

// UpdateWeeklyPattern 替换整个周模式
func (h *Handler) UpdateWeeklyPattern(w http.ResponseWriter, r *http.Request) {
	userID, err := availabilityUserID(r)
	if err != nil {
		h.errorResponse(w, r, "用户ID无效")
		return
	}

	var req struct {
		WeeklyPattern map[int32][]domain.AvailabilitySlot `json:"weeklyPattern" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateWeeklyPattern(req.WeeklyPattern); err != nil {
		h.badRequest(w, r, err)
		return
	}

	av, err := h.getOrCreateAvailability(userID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	av.WeeklyPattern = req.WeeklyPattern

	if err := h.repository.UpdateAvailability(av); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "空闲状态已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新周模式成功", av)
}

// GetAvailableCaregivers 获取某天（可选某时间窗口）有空的照护者 ID 列表
func (h *Handler) GetAvailableCaregivers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateParam := query.Get("date")
	date, err := time.Parse(dateLayout, dateParam)
	if err != nil {
		h.errorResponse(w, r, "date 参数无效")
		return
	}

	startTime := query.Get("startTime")
	endTime := query.Get("endTime")
	if (startTime == "") != (endTime == "") {
		h.errorResponse(w, r, "startTime 和 endTime 必须同时提供")
		return
	}
	if startTime != "" {
		if _, err := timeutil.ToMinutes(startTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
		if _, err := timeutil.ToMinutes(endTime); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	avs, err := h.repository.GetAllAvailability()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ids, err := coverage.AvailableCaregivers(avs, date, startTime, endTime)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取有空的照护者成功", ids)
}
