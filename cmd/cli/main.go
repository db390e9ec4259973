package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"vrsurvey/adapters/sqlite"
	"vrsurvey/internal"
	"vrsurvey/internal/analysis/dist"
	"vrsurvey/internal/config"
	"vrsurvey/internal/container"
	"vrsurvey/internal/errors"
	"vrsurvey/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	source   string
	file     string
	sheet    string
	format   string
	runsDB   string
	method   string
	alpha    float64
	logLevel string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:           "vrsurvey-cli",
		Short:         "Statistical analysis of paired 2D and VR survey responses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.source, "source", "", "Respondent source: db or file (default: file when --file is set)")
	flags.StringVar(&opts.file, "file", "", "Survey export (.xlsx or .csv)")
	flags.StringVar(&opts.sheet, "sheet", "", "Worksheet name for .xlsx files")
	flags.StringVar(&opts.format, "format", "markdown", "Output format: json, markdown or html")
	flags.StringVar(&opts.runsDB, "runs-db", "", "SQLite file for run history when no database is configured")
	flags.StringVar(&opts.method, "method", "", "Distribution method: legacy or exact")
	flags.Float64Var(&opts.alpha, "alpha", 0, "Significance level")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: error, warn, info or debug")

	rootCmd.AddCommand(
		newAnalyzeCmd(opts),
		newAnomaliesCmd(opts),
		newDescriptivesCmd(opts),
		newNormalityCmd(opts),
		newCompareCmd(opts),
		newANOVACmd(opts),
		newDemographicsCmd(opts),
		newRunsCmd(opts),
		newGenerateCmd(),
		newExportCmd(opts),
		newMigrateCmd(opts),
	)
	return rootCmd
}

func (o *globalOptions) logger() *internal.Logger {
	level, ok := internal.ParseLogLevel(o.logLevel)
	if !ok {
		level = internal.LogLevelWarn
	}
	return internal.NewLoggerTo(os.Stderr, level)
}

// loadConfig reads the environment and applies the flags on top.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var method dist.Method
	if o.method != "" {
		m, err := dist.ParseMethod(o.method)
		if err != nil {
			return nil, errors.InvalidInput(err.Error())
		}
		method = m
	}

	source := strings.ToLower(o.source)
	switch source {
	case "", "db", "file":
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unknown source %q (want db or file)", o.source))
	}

	return config.LoadWith(func(cfg *config.Config) {
		if o.file != "" {
			cfg.Data.SurveyFile = o.file
		}
		if o.sheet != "" {
			cfg.Data.Sheet = o.sheet
		}
		if o.runsDB != "" {
			cfg.Data.RunStore = o.runsDB
		}
		if o.method != "" {
			cfg.Analysis.Method = method
		}
		if o.alpha != 0 {
			cfg.Analysis.Alpha = o.alpha
		}
		switch source {
		case "db":
			cfg.Data.SurveyFile = ""
		case "file":
			if o.file != "" || cfg.Data.SurveyFile != "" {
				cfg.Database.URL = ""
			}
		}
	})
}

// setup builds a container wired to the configured respondent source and
// run history.
func (o *globalOptions) setup(ctx context.Context) (*container.Container, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := o.logger()

	c, err := container.New(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Data.SurveyFile != "" {
		c.InitWithFile(cfg.Data.SurveyFile, cfg.Data.Sheet)
	}

	if cfg.HasDatabase() {
		db, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := c.InitWithDatabase(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	} else if cfg.Data.RunStore != "" {
		store, err := sqlite.Open(cfg.Data.RunStore)
		if err != nil {
			return nil, errors.DatabaseError("failed to open run store", err)
		}
		c.UseRunRepository(store, store)
	}

	if err := c.InitServices(); err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	return c, nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*sqlx.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, "postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := migration.NewRunner(logger).Run(connectCtx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}
