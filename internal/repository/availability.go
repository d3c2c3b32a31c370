package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

func scanAvailability(scan func(dst ...any) error) (*domain.UserAvailability, error) {
	av := &domain.UserAvailability{}

	var overrides, pattern []byte

	dst := []any{&av.UserID, &av.Status, &overrides, &pattern, &av.UpdatedAt, &av.Version}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	av.Overrides = make(map[string]domain.AvailabilityStatus)
	if len(overrides) > 0 {
		if err := json.Unmarshal(overrides, &av.Overrides); err != nil {
			return nil, err
		}
	}
	av.WeeklyPattern = make(map[int32][]domain.AvailabilitySlot)
	if len(pattern) > 0 {
		if err := json.Unmarshal(pattern, &av.WeeklyPattern); err != nil {
			return nil, err
		}
	}

	return av, nil
}

func (r *Repository) GetAvailability(userID int64) (*domain.UserAvailability, error) {
	query := `
		SELECT user_id, status, overrides, weekly_pattern, updated_at, version
		FROM availability WHERE user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanAvailability(r.dbpool.QueryRowContext(ctx, query, userID).Scan)
}

func (r *Repository) GetAllAvailability() ([]*domain.UserAvailability, error) {
	query := `
		SELECT user_id, status, overrides, weekly_pattern, updated_at, version
		FROM availability
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	avs := make([]*domain.UserAvailability, 0)
	for rows.Next() {
		av, err := scanAvailability(rows.Scan)
		if err != nil {
			return nil, err
		}
		avs = append(avs, av)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return avs, nil
}

func availabilityJSONArgs(av *domain.UserAvailability) (overrides, pattern []byte, err error) {
	overrides, err = json.Marshal(av.Overrides)
	if err != nil {
		return nil, nil, err
	}
	pattern, err = json.Marshal(av.WeeklyPattern)
	if err != nil {
		return nil, nil, err
	}
	return overrides, pattern, nil
}

func (r *Repository) CreateAvailability(av *domain.UserAvailability) error {
	query := `
		INSERT INTO availability (user_id, status, overrides, weekly_pattern)
		VALUES ($1, $2, $3, $4)
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	overrides, pattern, err := availabilityJSONArgs(av)
	if err != nil {
		return err
	}

	args := []any{av.UserID, av.Status, overrides, pattern}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&av.UpdatedAt, &av.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateAvailability(av *domain.UserAvailability) error {
	query := `
		UPDATE availability
		SET
			status = $1,
			overrides = $2,
			weekly_pattern = $3,
			updated_at = now(),
			version = version + 1
		WHERE user_id = $4 AND version = $5
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	overrides, pattern, err := availabilityJSONArgs(av)
	if err != nil {
		return err
	}

	args := []any{av.Status, overrides, pattern, av.UserID, av.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&av.UpdatedAt, &av.Version); err != nil {
		return err
	}

	return nil
}
