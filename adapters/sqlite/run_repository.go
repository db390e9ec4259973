package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// RunStore keeps analysis reports in a local SQLite file for CLI runs that
// have no Postgres.
type RunStore struct {
	db *sqlx.DB
}

var _ ports.RunRepository = (*RunStore)(nil)

// Open opens or creates the store at dbPath. ":memory:" is accepted.
func Open(dbPath string) (*RunStore, error) {
	db, err := sqlx.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return &RunStore{db: db}, nil
}

func createTables(db *sqlx.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id TEXT PRIMARY KEY,
		generated_at DATETIME NOT NULL,
		respondents INTEGER NOT NULL,
		method TEXT NOT NULL,
		alpha REAL NOT NULL,
		significant INTEGER NOT NULL DEFAULT 0,
		report TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analysis_runs_generated_at ON analysis_runs(generated_at);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

// Close closes the database connection
func (s *RunStore) Close() error {
	return s.db.Close()
}

// SaveRun stores a report, replacing an earlier save of the same run
func (s *RunStore) SaveRun(ctx context.Context, report *stats.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_runs (id, generated_at, respondents, method, alpha, significant, report)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.RunID.String(), report.GeneratedAt.UTC(), report.Respondents, report.Method,
		report.Alpha, len(report.Significant()), string(payload))
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// GetRun loads a stored report by id
func (s *RunStore) GetRun(ctx context.Context, id core.RunID) (*stats.Report, error) {
	var payload string
	err := s.db.GetContext(ctx, &payload, `SELECT report FROM analysis_runs WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis run %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	var report stats.Report
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("decoding run: %w", err)
	}
	return &report, nil
}

// ListRuns returns the most recent runs first
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, generated_at, respondents, method, alpha, significant
		FROM analysis_runs
		ORDER BY generated_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []ports.RunSummary
	for rows.Next() {
		var (
			run ports.RunSummary
			id  string
			ts  time.Time
		)
		if err := rows.Scan(&id, &ts, &run.Respondents, &run.Method, &run.Alpha, &run.Significant); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.ID = core.RunID(id)
		run.GeneratedAt = ts
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
