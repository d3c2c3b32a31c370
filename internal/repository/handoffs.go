package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

func scanHandoff(scan func(dst ...any) error) (*domain.Handoff, error) {
	handoff := &domain.Handoff{}

	var toShiftID sql.NullInt64

	dst := []any{&handoff.ID, &handoff.FromShiftID, &toShiftID, &handoff.AuthorID, &handoff.Notes, &handoff.CreatedAt, &handoff.Version}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if toShiftID.Valid {
		handoff.ToShiftID = &toShiftID.Int64
	}

	return handoff, nil
}

func (r *Repository) CreateHandoff(handoff *domain.Handoff) error {
	query := `
		INSERT INTO handoffs (from_shift_id, to_shift_id, author_id, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{handoff.FromShiftID, handoff.ToShiftID, handoff.AuthorID, handoff.Notes}
	dst := []any{&handoff.ID, &handoff.CreatedAt, &handoff.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetHandoffByID(id int64) (*domain.Handoff, error) {
	query := `
		SELECT id, from_shift_id, to_shift_id, author_id, notes, created_at, version
		FROM handoffs WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanHandoff(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

// GetHandoffsByShift 查询和某个班次相关的所有交接记录，交出方和接收方都算
func (r *Repository) GetHandoffsByShift(shiftID int64) ([]*domain.Handoff, error) {
	query := `
		SELECT id, from_shift_id, to_shift_id, author_id, notes, created_at, version
		FROM handoffs WHERE from_shift_id = $1 OR to_shift_id = $1
		ORDER BY created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	handoffs := make([]*domain.Handoff, 0)
	for rows.Next() {
		handoff, err := scanHandoff(rows.Scan)
		if err != nil {
			return nil, err
		}
		handoffs = append(handoffs, handoff)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return handoffs, nil
}
