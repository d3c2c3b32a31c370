package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/caresupportcom/care-schedule/backend/internal/coverage"
	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/caresupportcom/care-schedule/backend/internal/repository"
	"github.com/caresupportcom/care-schedule/backend/internal/timeutil"
	"github.com/caresupportcom/care-schedule/backend/internal/utils"
	"github.com/jackc/pgx/v5/pgconn"
)

// GetShifts 按查询参数获取班次列表
// 支持 date、startDate+endDate、assigneeID 三种过滤方式，不带参数时返回全部
func (h *Handler) GetShifts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var shifts []*domain.CareShift
	var err error

	switch {
	case query.Get("date") != "":
		shifts, err = h.repository.GetShiftsByDate(query.Get("date"))
	case query.Get("startDate") != "" && query.Get("endDate") != "":
		shifts, err = h.repository.GetShiftsByDateRange(query.Get("startDate"), query.Get("endDate"))
	case query.Get("assigneeID") != "":
		var assigneeID int64
		assigneeID, err = strconv.ParseInt(query.Get("assigneeID"), 10, 64)
		if err != nil {
			h.errorResponse(w, r, "assigneeID 参数无效")
			return
		}
		shifts, err = h.repository.GetShiftsByAssignee(assigneeID)
	default:
		shifts, err = h.repository.GetAllShifts()
	}

	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次列表成功", shifts)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)
	h.successResponse(w, r, "获取班次成功", shift)
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date         string             `json:"date" validate:"required,datetime=2006-01-02"`
		StartTime    string             `json:"startTime" validate:"required"`
		EndTime      string             `json:"endTime" validate:"required"`
		AssigneeID   *int64             `json:"assigneeID"`
		CoverageType string             `json:"coverageType" validate:"required,oneof=primary specialist backup"`
		TaskIDs      []string           `json:"taskIDs"`
		HandoffNotes string             `json:"handoffNotes"`
		Recurrence   *domain.Recurrence `json:"recurrence"`
		Color        string             `json:"color"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	subString := r.Context().Value(SubCtxKey).(string)
	createdBy, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shift := &domain.CareShift{
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		AssigneeID:   req.AssigneeID,
		Status:       domain.ShiftStatusOpen,
		CoverageType: domain.CoverageType(req.CoverageType),
		TaskIDs:      req.TaskIDs,
		HandoffNotes: req.HandoffNotes,
		Recurrence:   req.Recurrence,
		Color:        req.Color,
		CreatedBy:    createdBy,
	}
	if shift.Assigned() {
		shift.Status = domain.ShiftStatusScheduled
	}

	if err := utils.ValidateShift(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShift(shift); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "shifts_assignee_id_fkey":
			h.badRequest(w, r, errors.New("指派的照护者不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.tracker.Track("shift_created", map[string]any{"coverage_type": req.CoverageType})
	h.dispatchEvents(coverage.ShiftEvents(nil, shift))

	h.successResponse(w, r, "创建班次成功", shift)
}

// CreateShiftFromTemplate 按模板创建班次，结束时间由开始时间加上模板时长得到
func (h *Handler) CreateShiftFromTemplate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TemplateID int64  `json:"templateID" validate:"required"`
		Date       string `json:"date" validate:"required,datetime=2006-01-02"`
		StartTime  string `json:"startTime" validate:"required"`
		AssigneeID *int64 `json:"assigneeID"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	tpl, err := h.repository.GetTemplateByID(req.TemplateID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "模板不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	endTime, err := timeutil.AddMinutes(req.StartTime, int(tpl.DurationMinutes))
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	subString := r.Context().Value(SubCtxKey).(string)
	createdBy, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	shift := &domain.CareShift{
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      endTime,
		AssigneeID:   req.AssigneeID,
		Status:       domain.ShiftStatusOpen,
		CoverageType: tpl.CoverageType,
		TaskIDs:      tpl.DefaultTaskIDs,
		Color:        tpl.Color,
		CreatedBy:    createdBy,
	}
	if shift.Assigned() {
		shift.Status = domain.ShiftStatusScheduled
	}

	if err := utils.ValidateShift(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.tracker.Track("shift_created_from_template", map[string]any{"template_id": tpl.ID})
	h.dispatchEvents(coverage.ShiftEvents(nil, shift))

	h.successResponse(w, r, "按模板创建班次成功", shift)
}

func (h *Handler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date         *string            `json:"date" validate:"omitempty,datetime=2006-01-02"`
		StartTime    *string            `json:"startTime"`
		EndTime      *string            `json:"endTime"`
		AssigneeID   *int64             `json:"assigneeID"`
		Unassign     bool               `json:"unassign"` // AssigneeID 为空无法区分"不修改"和"取消指派"，用这个标记表示取消指派
		Status       *string            `json:"status" validate:"omitempty,oneof=open scheduled in_progress completed cancelled"`
		CoverageType *string            `json:"coverageType" validate:"omitempty,oneof=primary specialist backup"`
		TaskIDs      []string           `json:"taskIDs"`
		HandoffNotes *string            `json:"handoffNotes"`
		Recurrence   *domain.Recurrence `json:"recurrence"`
		Color        *string            `json:"color"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)
	oldShift := *shift

	if req.Date != nil {
		shift.Date = *req.Date
	}
	if req.StartTime != nil {
		shift.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		shift.EndTime = *req.EndTime
	}
	if req.Unassign {
		shift.AssigneeID = nil
		shift.Status = domain.ShiftStatusOpen
	} else if req.AssigneeID != nil {
		shift.AssigneeID = req.AssigneeID
		if shift.Status == domain.ShiftStatusOpen {
			shift.Status = domain.ShiftStatusScheduled
		}
	}
	if req.Status != nil {
		shift.Status = domain.ShiftStatus(*req.Status)
	}
	if req.CoverageType != nil {
		shift.CoverageType = domain.CoverageType(*req.CoverageType)
	}
	if req.TaskIDs != nil {
		shift.TaskIDs = req.TaskIDs
	}
	if req.HandoffNotes != nil {
		shift.HandoffNotes = *req.HandoffNotes
	}
	if req.Recurrence != nil {
		shift.Recurrence = req.Recurrence
	}
	if req.Color != nil {
		shift.Color = *req.Color
	}

	if err := utils.ValidateShift(shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShift(shift); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "班次已被他人修改，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dispatchEvents(coverage.ShiftEvents(&oldShift, shift))

	h.successResponse(w, r, "更新班次成功", shift)
}

func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)

	if err := h.repository.DeleteShift(shift.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrShiftReferenced):
			h.errorResponse(w, r, "班次已被交接记录引用，无法删除")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.dispatchEvents(coverage.ShiftEvents(shift, nil))

	h.successResponse(w, r, "删除班次成功", nil)
}

// ClaimShift 认领未指派的 open 班次
// 已被他人抢先认领时不算错误，提示客户端刷新即可
func (h *Handler) ClaimShift(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)

	if !myInfo.IsActive {
		h.errorResponse(w, r, "您的账号已停用")
		return
	}

	claimed, err := h.repository.ClaimShift(shift.ID, myInfo.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if !claimed {
		h.successResponse(w, r, "班次当前不可认领", nil)
		return
	}

	shift.AssigneeID = &myInfo.ID
	shift.Status = domain.ShiftStatusScheduled

	h.tracker.Track("shift_claimed", map[string]any{"shift_id": shift.ID})
	h.dispatchEvents(coverage.ClaimEvents(shift))

	h.successResponse(w, r, "认领班次成功", shift)
}

func (h *Handler) StartShift(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)

	if shift.AssigneeID == nil || *shift.AssigneeID != myInfo.ID {
		h.errorResponse(w, r, "只有班次负责人才能开始班次")
		return
	}
	if shift.Status != domain.ShiftStatusScheduled {
		h.errorResponse(w, r, "只有已排班的班次才能开始")
		return
	}

	if err := h.repository.UpdateShiftStatus(shift.ID, domain.ShiftStatusInProgress); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	shift.Status = domain.ShiftStatusInProgress

	h.successResponse(w, r, "班次已开始", shift)
}

func (h *Handler) CompleteShift(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)

	if myInfo.Role != domain.RoleCoordinator && (shift.AssigneeID == nil || *shift.AssigneeID != myInfo.ID) {
		h.errorResponse(w, r, "只有班次负责人或协调员才能完成班次")
		return
	}
	if shift.Status != domain.ShiftStatusInProgress {
		h.errorResponse(w, r, "只有进行中的班次才能完成")
		return
	}

	if err := h.repository.UpdateShiftStatus(shift.ID, domain.ShiftStatusCompleted); err != nil {
		h.internalServerError(w, r, err)
		return
	}
	shift.Status = domain.ShiftStatusCompleted

	h.tracker.Track("shift_completed", map[string]any{"shift_id": shift.ID})

	h.successResponse(w, r, "班次已完成", shift)
}

func (h *Handler) CancelShift(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)

	if myInfo.Role != domain.RoleCoordinator && (shift.AssigneeID == nil || *shift.AssigneeID != myInfo.ID) {
		h.errorResponse(w, r, "只有班次负责人或协调员才能取消班次")
		return
	}
	if shift.Status == domain.ShiftStatusCompleted || shift.Status == domain.ShiftStatusCancelled {
		h.errorResponse(w, r, "班次已结束，无法取消")
		return
	}

	if err := h.repository.UpdateShiftStatus(shift.ID, domain.ShiftStatusCancelled); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.tracker.Track("shift_cancelled", map[string]any{"shift_id": shift.ID})
	h.dispatchEvents(coverage.ShiftEvents(shift, nil))

	shift.Status = domain.ShiftStatusCancelled

	h.successResponse(w, r, "取消班次成功", shift)
}
