package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

// 偏好配置整个系统只有一份
const preferencesRowID = 1

func (r *Repository) GetPreferences() (*domain.CoveragePreferences, error) {
	query := `
		SELECT id, required, preferred_caregivers, critical_slots, updated_at, version
		FROM coverage_preferences WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	prefs := &domain.CoveragePreferences{}

	var required, preferred, criticalSlots []byte

	dst := []any{&prefs.ID, &required, &preferred, &criticalSlots, &prefs.UpdatedAt, &prefs.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, preferencesRowID).Scan(dst...); err != nil {
		return nil, err
	}

	prefs.Required = make(map[string]domain.BlockRequirement)
	if len(required) > 0 {
		if err := json.Unmarshal(required, &prefs.Required); err != nil {
			return nil, err
		}
	}
	prefs.PreferredCaregivers = make(map[string][]int64)
	if len(preferred) > 0 {
		if err := json.Unmarshal(preferred, &prefs.PreferredCaregivers); err != nil {
			return nil, err
		}
	}
	if len(criticalSlots) > 0 {
		if err := json.Unmarshal(criticalSlots, &prefs.CriticalSlots); err != nil {
			return nil, err
		}
	}

	return prefs, nil
}

func (r *Repository) SavePreferences(prefs *domain.CoveragePreferences) error {
	query := `
		INSERT INTO coverage_preferences (id, required, preferred_caregivers, critical_slots)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET
			required = EXCLUDED.required,
			preferred_caregivers = EXCLUDED.preferred_caregivers,
			critical_slots = EXCLUDED.critical_slots,
			updated_at = now(),
			version = coverage_preferences.version + 1
		RETURNING id, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	required, err := json.Marshal(prefs.Required)
	if err != nil {
		return err
	}
	preferred, err := json.Marshal(prefs.PreferredCaregivers)
	if err != nil {
		return err
	}
	criticalSlots, err := json.Marshal(prefs.CriticalSlots)
	if err != nil {
		return err
	}

	args := []any{preferencesRowID, required, preferred, criticalSlots}
	dst := []any{&prefs.ID, &prefs.UpdatedAt, &prefs.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}
