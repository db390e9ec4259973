package migration

import (
	"context"
	"fmt"
	"strings"

	"vrsurvey/domain/survey"
	"vrsurvey/internal"
	"vrsurvey/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
	logger  *internal.Logger
}

// NewRunner creates a new migration runner
func NewRunner(logger *internal.Logger) *MigrationRunner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &MigrationRunner{
		version: "1.1.0",
		logger:  logger.WithComponent("Migration"),
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createSurveyResultsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create survey_results table")
	}

	if err := r.addMissingItemColumns(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add survey_results item columns")
	}

	if err := r.createAnalysisRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create analysis_runs table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	r.logger.Info("schema at version %s", r.version)
	return nil
}

// SurveyResultsDDL renders the survey_results table. Item columns are
// nullable so partially answered submissions can be stored.
func SurveyResultsDDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS survey_results (\n")
	b.WriteString("\tid SERIAL PRIMARY KEY,\n")
	b.WriteString("\tsubmitted_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),\n")
	for _, a := range survey.Attributes {
		fmt.Fprintf(&b, "\t%s TEXT,\n", a)
	}
	for i, it := range survey.AllItems {
		sep := ","
		if i == len(survey.AllItems)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "\t%s INT CHECK (%s BETWEEN %d AND %d)%s\n", it, it, survey.MinScore, survey.MaxScore, sep)
	}
	b.WriteString(")")
	return b.String()
}

func (r *MigrationRunner) createSurveyResultsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, SurveyResultsDDL())
	return err
}

// addMissingItemColumns upgrades tables created before the full item set
// was collected.
func (r *MigrationRunner) addMissingItemColumns(ctx context.Context, db *sqlx.DB) error {
	for _, it := range survey.AllItems {
		stmt := fmt.Sprintf("ALTER TABLE survey_results ADD COLUMN IF NOT EXISTS %s INT", it)
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("column %s: %w", it, err)
		}
	}
	return nil
}

func (r *MigrationRunner) createAnalysisRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analysis_runs (
			id UUID PRIMARY KEY,
			generated_at TIMESTAMP WITH TIME ZONE NOT NULL,
			respondents INT NOT NULL,
			method VARCHAR(16) NOT NULL,
			alpha DOUBLE PRECISION NOT NULL,
			significant INT NOT NULL DEFAULT 0,
			report JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		// Survey results indexes
		"CREATE INDEX IF NOT EXISTS idx_survey_results_submitted_at ON survey_results(submitted_at)",

		// Analysis runs indexes
		"CREATE INDEX IF NOT EXISTS idx_analysis_runs_generated_at ON analysis_runs(generated_at DESC)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Log but don't fail on index creation errors
			r.logger.Warn("failed to create index: %v", err)
		}
	}

	return nil
}
