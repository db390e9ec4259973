package container

import (
	"context"
	"fmt"
	"io"

	"vrsurvey/adapters/excel"
	"vrsurvey/adapters/postgres"
	"vrsurvey/app"
	"vrsurvey/internal"
	"vrsurvey/internal/config"
	"vrsurvey/internal/engine"
	"vrsurvey/internal/report"
	"vrsurvey/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	DB *sqlx.DB

	// Repositories (data access layer)
	RespondentRepo ports.RespondentRepository
	RunRepo        ports.RunRepository

	// Analysis components
	Source      ports.RespondentSource
	Engine      *engine.Engine
	Analysis    *app.AnalysisService
	Submissions *app.SubmissionService

	closers []io.Closer
}

// New creates a new dependency injection container and builds the engine
// from the analysis settings.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	eng, err := engine.New(app.EngineConfig(cfg.Analysis), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		Engine: eng,
	}, nil
}

// InitWithDatabase wires the Postgres repositories. The database becomes
// the respondent source unless a file source was set.
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	c.DB = db
	c.RespondentRepo = postgres.NewRespondentRepository(db)
	if c.Config.Analysis.PersistRuns && c.RunRepo == nil {
		c.RunRepo = postgres.NewRunRepository(db)
	}
	if c.Source == nil {
		c.Source = app.RepositorySource{Repo: c.RespondentRepo}
	}

	c.Logger.Info("Container initialized with database connection")
	return nil
}

// InitWithFile makes a spreadsheet export the respondent source.
func (c *Container) InitWithFile(path, sheet string) {
	c.Source = excel.NewDataReaderWithConfig(excel.ExcelConfig{FilePath: path, Sheet: sheet}, c.Logger)
	c.Logger.Info("Using spreadsheet data source: %s", path)
}

// UseRunRepository overrides where analysis runs are persisted. closer, if
// non-nil, is closed on Shutdown.
func (c *Container) UseRunRepository(repo ports.RunRepository, closer io.Closer) {
	c.RunRepo = repo
	if closer != nil {
		c.closers = append(c.closers, closer)
	}
}

// InitServices builds the application services once a source is wired.
func (c *Container) InitServices() error {
	if c.Source == nil {
		return fmt.Errorf("no respondent source: set DATABASE_URL or SURVEY_FILE")
	}

	var runs ports.RunRepository
	if c.Config.Analysis.PersistRuns {
		runs = c.RunRepo
	}
	c.Analysis = app.NewAnalysisService(c.Source, runs, c.Engine, c.Logger)
	if c.RespondentRepo != nil {
		c.Submissions = app.NewSubmissionService(c.RespondentRepo)
	}
	return nil
}

// Formatter returns the report formatter for the configured precision.
func (c *Container) Formatter() report.Formatter {
	return report.Formatter{
		Precision:    c.Config.Analysis.ReportPrecision,
		PValueDigits: c.Config.Analysis.PValueDigits,
	}
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
