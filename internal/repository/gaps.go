package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/caresupportcom/care-schedule/backend/internal/domain"
)

const gapColumns = `
	id,
	to_char(date, 'YYYY-MM-DD'),
	block,
	start_time,
	end_time,
	priority,
	status,
	options,
	suggested_ids,
	identified_at,
	resolved_at,
	version
`

func scanGap(scan func(dst ...any) error) (*domain.CoverageGap, error) {
	gap := &domain.CoverageGap{}

	var options, suggestedIDs []byte
	var resolvedAt sql.NullTime

	dst := []any{
		&gap.ID,
		&gap.Date,
		&gap.Block,
		&gap.StartTime,
		&gap.EndTime,
		&gap.Priority,
		&gap.Status,
		&options,
		&suggestedIDs,
		&gap.IdentifiedAt,
		&resolvedAt,
		&gap.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if len(options) > 0 {
		if err := json.Unmarshal(options, &gap.Options); err != nil {
			return nil, err
		}
	}
	if len(suggestedIDs) > 0 {
		if err := json.Unmarshal(suggestedIDs, &gap.SuggestedIDs); err != nil {
			return nil, err
		}
	}
	if resolvedAt.Valid {
		gap.ResolvedAt = &resolvedAt.Time
	}

	return gap, nil
}

func (r *Repository) queryGaps(query string, args ...any) ([]*domain.CoverageGap, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	gaps := make([]*domain.CoverageGap, 0)
	for rows.Next() {
		gap, err := scanGap(rows.Scan)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, gap)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return gaps, nil
}

func (r *Repository) GetGapsByDateRange(startDate, endDate string) ([]*domain.CoverageGap, error) {
	query := `SELECT ` + gapColumns + ` FROM gaps WHERE date BETWEEN $1 AND $2 ORDER BY date, start_time`
	return r.queryGaps(query, startDate, endDate)
}

func (r *Repository) GetUnresolvedGaps() ([]*domain.CoverageGap, error) {
	query := `SELECT ` + gapColumns + ` FROM gaps WHERE status != $1 ORDER BY date, start_time`
	return r.queryGaps(query, domain.GapStatusResolved)
}

func (r *Repository) GetGapByID(id int64) (*domain.CoverageGap, error) {
	query := `SELECT ` + gapColumns + ` FROM gaps WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanGap(r.dbpool.QueryRowContext(ctx, query, id).Scan)
}

func gapJSONArgs(gap *domain.CoverageGap) (options, suggestedIDs []byte, err error) {
	if len(gap.Options) > 0 {
		options, err = json.Marshal(gap.Options)
		if err != nil {
			return nil, nil, err
		}
	}
	if len(gap.SuggestedIDs) > 0 {
		suggestedIDs, err = json.Marshal(gap.SuggestedIDs)
		if err != nil {
			return nil, nil, err
		}
	}
	return options, suggestedIDs, nil
}

// InsertGaps 批量写入一次扫描发现的缺口
func (r *Repository) InsertGaps(gaps []*domain.CoverageGap) error {
	if len(gaps) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO gaps (date, block, start_time, end_time, priority, status, options, suggested_ids, identified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, version
	`

	for _, gap := range gaps {
		options, suggestedIDs, err := gapJSONArgs(gap)
		if err != nil {
			return err
		}

		args := []any{
			gap.Date,
			gap.Block,
			gap.StartTime,
			gap.EndTime,
			gap.Priority,
			gap.Status,
			options,
			suggestedIDs,
			gap.IdentifiedAt,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&gap.ID, &gap.Version); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateGap(gap *domain.CoverageGap) error {
	query := `
		UPDATE gaps
		SET
			priority = $1,
			status = $2,
			options = $3,
			suggested_ids = $4,
			resolved_at = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	options, suggestedIDs, err := gapJSONArgs(gap)
	if err != nil {
		return err
	}

	args := []any{gap.Priority, gap.Status, options, suggestedIDs, gap.ResolvedAt, gap.ID, gap.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&gap.Version); err != nil {
		return err
	}

	return nil
}
