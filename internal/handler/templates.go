package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

func (h *Handler) GetAllShiftTemplates(w http.ResponseWriter, r *http.Request) {
	tpls, err := h.repository.GetAllTemplates()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取模板列表成功", tpls)
}

func (h *Handler) GetShiftTemplate(w http.ResponseWriter, r *http.Request) {
	tpl := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)
	h.successResponse(w, r, "获取模板成功", tpl)
}

func (h *Handler) CreateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string   `json:"name" validate:"required"`
		DurationMinutes int32    `json:"durationMinutes" validate:"required,gt=0,lte=1440"`
		CoverageType    string   `json:"coverageType" validate:"required,oneof=primary specialist backup"`
		DefaultTaskIDs  []string `json:"defaultTaskIDs"`
		Color           string   `json:"color"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl := &domain.ShiftTemplate{
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		CoverageType:    domain.CoverageType(req.CoverageType),
		DefaultTaskIDs:  req.DefaultTaskIDs,
		Color:           req.Color,
	}

	if err := h.repository.CreateTemplate(tpl); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建模板成功", tpl)
}

func (h *Handler) UpdateShiftTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            *string  `json:"name"`
		DurationMinutes *int32   `json:"durationMinutes" validate:"omitempty,gt=0,lte=1440"`
		CoverageType    *string  `json:"coverageType" validate:"omitempty,oneof=primary specialist backup"`
		DefaultTaskIDs  []string `json:"defaultTaskIDs"`
		Color           *string  `json:"color"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	if req.Name != nil {
		tpl.Name = *req.Name
	}
	if req.DurationMinutes != nil {
		tpl.DurationMinutes = *req.DurationMinutes
	}
	if req.CoverageType != nil {
		tpl.CoverageType = domain.CoverageType(*req.CoverageType)
	}
	if req.DefaultTaskIDs != nil {
		tpl.DefaultTaskIDs = req.DefaultTaskIDs
	}
	if req.Color != nil {
		tpl.Color = *req.Color
	}

	if err := h.repository.UpdateTemplate(tpl); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "模板已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新模板成功", tpl)
}

func (h *Handler) DeleteShiftTemplate(w http.ResponseWriter, r *http.Request) {
	tpl := r.Context().Value(ShiftTemplateCtx).(*domain.ShiftTemplate)

	if err := h.repository.DeleteTemplate(tpl.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除模板成功", nil)
}
