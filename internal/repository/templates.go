package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

func scanTemplate(scan func(dst ...any) error) (*domain.ShiftTemplate, error) {
	tpl := &domain.ShiftTemplate{}

	var taskIDs []byte

	dst := []any{&tpl.ID, &tpl.Name, &tpl.DurationMinutes, &tpl.CoverageType, &taskIDs, &tpl.Color, &tpl.CreatedAt, &tpl.Version}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if len(taskIDs) > 0 {
		if err := json.Unmarshal(taskIDs, &tpl.DefaultTaskIDs); err != nil {
			return nil, err
		}
	}

	return tpl, nil
}

func (r *Repository) GetAllTemplates() ([]*domain.ShiftTemplate, error) {
	query := `
		SELECT id, name, duration_minutes, coverage_type, default_task_ids, color, created_at, version
		FROM shift_templates ORDER BY id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tpls := make([]*domain.ShiftTemplate, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		tpls = append(tpls, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tpls, nil
}

func (r *Repository) GetTemplateByID(id int64) (*domain.ShiftTemplate, error) {
	query := `
		SELECT id, name, duration_minutes, coverage_type, default_task_ids, color, created_at, version
		FROM shift_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanTemplate(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func (r *Repository) CreateTemplate(tpl *domain.ShiftTemplate) error {
	query := `
		INSERT INTO shift_templates (name, duration_minutes, coverage_type, default_task_ids, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var taskIDs []byte
	var err error
	if len(tpl.DefaultTaskIDs) > 0 {
		taskIDs, err = json.Marshal(tpl.DefaultTaskIDs)
		if err != nil {
			return err
		}
	}

	args := []any{tpl.Name, tpl.DurationMinutes, tpl.CoverageType, taskIDs, tpl.Color}
	dst := []any{&tpl.ID, &tpl.CreatedAt, &tpl.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateTemplate(tpl *domain.ShiftTemplate) error {
	query := `
		UPDATE shift_templates
		SET
			name = $1,
			duration_minutes = $2,
			coverage_type = $3,
			default_task_ids = $4,
			color = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var taskIDs []byte
	var err error
	if len(tpl.DefaultTaskIDs) > 0 {
		taskIDs, err = json.Marshal(tpl.DefaultTaskIDs)
		if err != nil {
			return err
		}
	}

	args := []any{tpl.Name, tpl.DurationMinutes, tpl.CoverageType, taskIDs, tpl.Color, tpl.ID, tpl.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&tpl.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteTemplate(id int64) error {
	query := `
		DELETE FROM shift_templates WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
