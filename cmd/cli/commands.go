package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"vrsurvey/adapters/excel"
	"vrsurvey/domain/core"
	"vrsurvey/internal/container"
	"vrsurvey/internal/errors"
	"vrsurvey/internal/migration"
	"vrsurvey/internal/report"
	"vrsurvey/internal/testkit"

	"github.com/spf13/cobra"
)

// render writes value in the requested format. markdown renders the same
// value for the markdown and html formats.
func (o *globalOptions) render(w io.Writer, value interface{}, title string, markdown func() string) error {
	switch strings.ToLower(o.format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "markdown", "md", "":
		_, err := io.WriteString(w, markdown())
		return err
	case "html":
		_, err := w.Write(report.MarkdownToHTML(markdown(), title))
		return err
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown format %q (want json, markdown or html)", o.format))
	}
}

// withContainer runs fn against a freshly wired container and shuts it
// down afterwards.
func (o *globalOptions) withContainer(cmd *cobra.Command, fn func(ctx context.Context, c *container.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := o.setup(ctx)
	if err != nil {
		return err
	}
	defer c.Shutdown(context.Background())
	return fn(ctx, c)
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full analysis and print the report",
		Long: `Run anomaly screening, descriptives, normality, paired comparisons,
ANOVA and demographics over every respondent.

Example: vrsurvey-cli analyze --file responses.xlsx --format html --out report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				r, err := c.Analysis.Analyze(ctx)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if out != "" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("failed to create %s: %w", out, err)
					}
					defer f.Close()
					w = f
				}

				f := c.Formatter()
				if err := opts.render(w, r, "Survey analysis "+r.RunID.String(), func() string { return f.Markdown(r) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "run %s: %d respondents, %d significant comparisons\n",
					r.RunID, r.Respondents, len(r.Significant()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the report to a file instead of stdout")
	return cmd
}

func newAnomaliesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "anomalies",
		Short: "List respondents flagged by the anomaly screen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				entries, err := c.Analysis.Anomalies(ctx)
				if err != nil {
					return err
				}
				f := c.Formatter()
				return opts.render(cmd.OutOrStdout(), entries, "Anomalies", func() string { return f.Anomalies(entries) })
			})
		},
	}
}

func newDescriptivesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "descriptives",
		Short: "Descriptive statistics for every analysis variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				ds, err := c.Analysis.Descriptives(ctx)
				if err != nil {
					return err
				}
				f := c.Formatter()
				return opts.render(cmd.OutOrStdout(), ds, "Descriptive statistics", func() string { return f.Descriptives(ds) })
			})
		},
	}
}

func newNormalityCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "normality",
		Short: "Jarque-Bera normality verdicts for every analysis variable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				vs, err := c.Analysis.Normality(ctx)
				if err != nil {
					return err
				}
				f := c.Formatter()
				return opts.render(cmd.OutOrStdout(), vs, "Normality", func() string { return f.Normality(vs) })
			})
		},
	}
}

func newCompareCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Paired 2D vs VR comparison per construct",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				cs, err := c.Analysis.Comparisons(ctx)
				if err != nil {
					return err
				}
				f := c.Formatter()
				return opts.render(cmd.OutOrStdout(), cs, "Paired comparisons", func() string { return f.Comparisons(cs) })
			})
		},
	}
}

func newANOVACmd(opts *globalOptions) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "anova",
		Short: "One-way ANOVA of VR - 2D differences across demographic groups",
		Long: `One-way ANOVA of each construct's VR - 2D difference across the levels of
a demographic attribute. Without --by every attribute is tested.

Example: vrsurvey-cli anova --by vr_access`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				as, err := c.Analysis.ANOVA(ctx, by)
				if err != nil {
					return err
				}
				f := c.Formatter()
				return opts.render(cmd.OutOrStdout(), as, "One-way ANOVA", func() string { return f.ANOVA(as) })
			})
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "Demographic attribute (gender, age, college_degree, occupation, vr_access)")
	return cmd
}

func newDemographicsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demographics",
		Short: "Frequency tables for the demographic attributes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				ts, err := c.Analysis.Demographics(ctx)
				if err != nil {
					return err
				}
				f := c.Formatter()
				return opts.render(cmd.OutOrStdout(), ts, "Demographics", func() string { return f.Demographics(ts) })
			})
		},
	}
}

func newRunsCmd(opts *globalOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List persisted analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				runs, err := c.Analysis.Runs(ctx, limit)
				if err != nil {
					return err
				}
				if strings.EqualFold(opts.format, "json") {
					return opts.render(cmd.OutOrStdout(), runs, "", nil)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tGENERATED\tRESPONDENTS\tMETHOD\tALPHA\tSIGNIFICANT")
				for _, run := range runs {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%g\t%d\n",
						run.ID, run.GeneratedAt.Format(time.RFC3339), run.Respondents, run.Method, run.Alpha, run.Significant)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")

	cmd.AddCommand(&cobra.Command{
		Use:   "show [run-id]",
		Short: "Print a persisted report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseRunID(args[0])
			if err != nil {
				return errors.InvalidInput(err.Error())
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				r, err := c.Analysis.Run(ctx, id)
				if err != nil {
					return err
				}
				f := c.Formatter()
				return opts.render(cmd.OutOrStdout(), r, "Survey analysis "+r.RunID.String(), func() string { return f.Markdown(r) })
			})
		},
	})
	return cmd
}

func newGenerateCmd() *cobra.Command {
	cfg := testkit.DefaultSurveyConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic survey export for testing",
		Long: `Generate reproducible synthetic respondents and write them as .xlsx or .csv
with the survey_results column layout.

Example: vrsurvey-cli generate --count 200 --lift 0.4 --seed 7 --out synthetic.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.InvalidInput("--out is required")
			}
			if cfg.RespondentCount <= 0 {
				return errors.InvalidInput("--count must be positive")
			}

			respondents := testkit.NewSurveyGenerator(cfg).Generate()
			if err := excel.WriteRespondents(out, respondents); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d respondents to %s\n", len(respondents), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (.xlsx or .csv)")
	cmd.Flags().IntVar(&cfg.RespondentCount, "count", cfg.RespondentCount, "Number of respondents")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	cmd.Flags().Float64Var(&cfg.VRLift, "lift", cfg.VRLift, "Mean VR - 2D shift of every construct")
	cmd.Flags().Float64Var(&cfg.StraightlineRate, "straightline-rate", cfg.StraightlineRate, "Share of respondents answering one value throughout")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Share of unanswered items")
	return cmd
}

func newExportCmd(opts *globalOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy respondents from the configured source to a spreadsheet",
		Long: `Export every respondent of the configured source as .xlsx or .csv.

Example: vrsurvey-cli export --source db --out responses.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return errors.InvalidInput("--out is required")
			}
			return opts.withContainer(cmd, func(ctx context.Context, c *container.Container) error {
				respondents, err := c.Analysis.Respondents(ctx)
				if err != nil {
					return err
				}
				if err := excel.WriteRespondents(out, respondents); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d respondents from %s to %s\n", len(respondents), c.Source.Name(), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (.xlsx or .csv)")
	return cmd
}

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the PostgreSQL schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if !cfg.HasDatabase() {
				return errors.ConfigInvalid("DATABASE_URL is required to migrate")
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := openDatabase(ctx, cfg, opts.logger())
			if err != nil {
				return err
			}
			defer db.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "schema at version %s\n", migration.NewRunner(nil).Version())
			return nil
		},
	}
}
