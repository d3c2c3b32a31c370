package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

const shiftColumns = `
	id,
	to_char(date, 'YYYY-MM-DD'),
	start_time,
	end_time,
	assignee_id,
	status,
	coverage_type,
	task_ids,
	handoff_notes,
	recurrence,
	color,
	created_by,
	created_at,
	updated_at,
	version
`

// scanShift 从一行结果中解析班次，task_ids 和 recurrence 以 jsonb 存储
func scanShift(scan func(dst ...any) error) (*domain.CareShift, error) {
	shift := &domain.CareShift{}

	var assigneeID sql.NullInt64
	var taskIDs, recurrence []byte

	dst := []any{
		&shift.ID,
		&shift.Date,
		&shift.StartTime,
		&shift.EndTime,
		&assigneeID,
		&shift.Status,
		&shift.CoverageType,
		&taskIDs,
		&shift.HandoffNotes,
		&recurrence,
		&shift.Color,
		&shift.CreatedBy,
		&shift.CreatedAt,
		&shift.UpdatedAt,
		&shift.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if assigneeID.Valid {
		shift.AssigneeID = &assigneeID.Int64
	}
	if len(taskIDs) > 0 {
		if err := json.Unmarshal(taskIDs, &shift.TaskIDs); err != nil {
			return nil, err
		}
	}
	if len(recurrence) > 0 {
		shift.Recurrence = &domain.Recurrence{}
		if err := json.Unmarshal(recurrence, shift.Recurrence); err != nil {
			return nil, err
		}
	}

	return shift, nil
}

func (r *Repository) queryShifts(query string, args ...any) ([]*domain.CareShift, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.CareShift, 0)
	for rows.Next() {
		shift, err := scanShift(rows.Scan)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) GetAllShifts() ([]*domain.CareShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts ORDER BY date, start_time`
	return r.queryShifts(query)
}

func (r *Repository) GetShiftsByDate(date string) ([]*domain.CareShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE date = $1 ORDER BY start_time`
	return r.queryShifts(query, date)
}

func (r *Repository) GetShiftsByDateRange(startDate, endDate string) ([]*domain.CareShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE date BETWEEN $1 AND $2 ORDER BY date, start_time`
	return r.queryShifts(query, startDate, endDate)
}

func (r *Repository) GetShiftsByAssignee(userID int64) ([]*domain.CareShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE assignee_id = $1 ORDER BY date, start_time`
	return r.queryShifts(query, userID)
}

// GetUpcomingShiftsByAssignee 获取某照护者接下来的班次
// 今天的班次只保留开始时间还没到的
func (r *Repository) GetUpcomingShiftsByAssignee(userID int64, today string, timeOfDay string, limit int) ([]*domain.CareShift, error) {
	query := `
		SELECT ` + shiftColumns + `
		FROM shifts
		WHERE assignee_id = $1
		  AND status NOT IN ('completed', 'cancelled')
		  AND (date > $2 OR (date = $2 AND start_time > $3))
		ORDER BY date, start_time
		LIMIT $4
	`
	return r.queryShifts(query, userID, today, timeOfDay, limit)
}

func (r *Repository) GetShiftByID(id int64) (*domain.CareShift, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanShift(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func shiftJSONArgs(shift *domain.CareShift) (taskIDs, recurrence []byte, err error) {
	if len(shift.TaskIDs) > 0 {
		taskIDs, err = json.Marshal(shift.TaskIDs)
		if err != nil {
			return nil, nil, err
		}
	}
	if shift.Recurrence != nil {
		recurrence, err = json.Marshal(shift.Recurrence)
		if err != nil {
			return nil, nil, err
		}
	}
	return taskIDs, recurrence, nil
}

func (r *Repository) CreateShift(shift *domain.CareShift) error {
	query := `
		INSERT INTO shifts (date, start_time, end_time, assignee_id, status, coverage_type, task_ids, handoff_notes, recurrence, color, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	taskIDs, recurrence, err := shiftJSONArgs(shift)
	if err != nil {
		return err
	}

	args := []any{
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.AssigneeID,
		shift.Status,
		shift.CoverageType,
		taskIDs,
		shift.HandoffNotes,
		recurrence,
		shift.Color,
		shift.CreatedBy,
	}
	dst := []any{&shift.ID, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateShift(shift *domain.CareShift) error {
	query := `
		UPDATE shifts
		SET
			date = $1,
			start_time = $2,
			end_time = $3,
			assignee_id = $4,
			status = $5,
			coverage_type = $6,
			task_ids = $7,
			handoff_notes = $8,
			recurrence = $9,
			color = $10,
			updated_at = now(),
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	taskIDs, recurrence, err := shiftJSONArgs(shift)
	if err != nil {
		return err
	}

	args := []any{
		shift.Date,
		shift.StartTime,
		shift.EndTime,
		shift.AssigneeID,
		shift.Status,
		shift.CoverageType,
		taskIDs,
		shift.HandoffNotes,
		recurrence,
		shift.Color,
		shift.ID,
		shift.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.UpdatedAt, &shift.Version); err != nil {
		return err
	}

	return nil
}

// DeleteShift 删除班次，被交接记录引用的班次不允许删除
func (r *Repository) DeleteShift(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var referenced int
	query := `SELECT count(*) FROM handoffs WHERE from_shift_id = $1 OR to_shift_id = $1`
	if err := tx.QueryRowContext(ctx, query, id).Scan(&referenced); err != nil {
		return err
	}
	if referenced > 0 {
		return ErrShiftReferenced
	}

	query = `DELETE FROM shifts WHERE id = $1`
	if _, err := tx.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return tx.Commit()
}

// ClaimShift 认领 open 状态且未指派的班次
// 条件不满足（包括班次不存在或已被他人认领）时返回 false，不报错，以便安全重试
func (r *Repository) ClaimShift(id int64, userID int64) (bool, error) {
	query := `
		UPDATE shifts
		SET
			assignee_id = $1,
			status = $2,
			updated_at = now(),
			version = version + 1
		WHERE id = $3 AND status = $4 AND assignee_id IS NULL
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, userID, domain.ShiftStatusScheduled, id, domain.ShiftStatusOpen)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// UpdateShiftStatus 修改班次状态，班次不存在时不做任何事
func (r *Repository) UpdateShiftStatus(id int64, status domain.ShiftStatus) error {
	query := `
		UPDATE shifts
		SET status = $1, updated_at = now(), version = version + 1
		WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, status, id)
	return err
}
