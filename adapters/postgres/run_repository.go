package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/ports"

	"github.com/jmoiron/sqlx"
)

// runRepository persists analysis reports as JSONB in analysis_runs.
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL analysis run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// SaveRun stores a report; saving the same run twice overwrites it
func (r *runRepository) SaveRun(ctx context.Context, report *stats.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, generated_at, respondents, method, alpha, significant, report)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			generated_at = EXCLUDED.generated_at,
			respondents = EXCLUDED.respondents,
			method = EXCLUDED.method,
			alpha = EXCLUDED.alpha,
			significant = EXCLUDED.significant,
			report = EXCLUDED.report
	`, report.RunID.String(), report.GeneratedAt, report.Respondents, report.Method,
		report.Alpha, len(report.Significant()), payload)
	if err != nil {
		return fmt.Errorf("failed to save analysis run: %w", err)
	}
	return nil
}

// GetRun loads a stored report by id
func (r *runRepository) GetRun(ctx context.Context, id core.RunID) (*stats.Report, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT report FROM analysis_runs WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis run %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	var report stats.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode analysis run: %w", err)
	}
	return &report, nil
}

// ListRuns returns the most recent runs first
func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []ports.RunSummary
	err := r.db.SelectContext(ctx, &runs, `
		SELECT id, generated_at, respondents, method, alpha, significant
		FROM analysis_runs
		ORDER BY generated_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis runs: %w", err)
	}
	return runs, nil
}
