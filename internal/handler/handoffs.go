package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CreateHandoff 创建交接记录，只有交出班次的负责人或协调员可以写
func (h *Handler) CreateHandoff(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	var req struct {
		FromShiftID int64  `json:"fromShiftID" validate:"required"`
		ToShiftID   *int64 `json:"toShiftID"`
		Notes       string `json:"notes" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	fromShift, err := h.repository.GetShiftByID(req.FromShiftID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "交出的班次不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if myInfo.Role != domain.RoleCoordinator && (fromShift.AssigneeID == nil || *fromShift.AssigneeID != myInfo.ID) {
		h.errorResponse(w, r, "只有班次负责人或协调员才能写交接记录")
		return
	}

	handoff := &domain.Handoff{
		FromShiftID: req.FromShiftID,
		ToShiftID:   req.ToShiftID,
		AuthorID:    myInfo.ID,
		Notes:       req.Notes,
	}

	if err := h.repository.CreateHandoff(handoff); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "handoffs_to_shift_id_fkey":
			h.badRequest(w, r, errors.New("接收的班次不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.tracker.Track("handoff_created", map[string]any{"from_shift_id": req.FromShiftID})

	h.successResponse(w, r, "创建交接记录成功", handoff)
}

func (h *Handler) GetHandoff(w http.ResponseWriter, r *http.Request) {
	handoffID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorResponse(w, r, "交接记录ID无效")
		return
	}

	handoff, err := h.repository.GetHandoffByID(handoffID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "交接记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取交接记录成功", handoff)
}

func (h *Handler) GetShiftHandoffs(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(CareShiftCtx).(*domain.CareShift)

	handoffs, err := h.repository.GetHandoffsByShift(shift.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取班次交接记录成功", handoffs)
}
