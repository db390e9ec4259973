package app

import (
	"context"
	"time"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
	"vrsurvey/internal"
	"vrsurvey/internal/anomaly"
	"vrsurvey/internal/config"
	"vrsurvey/internal/engine"
	"vrsurvey/internal/errors"
	"vrsurvey/ports"
)

// AnalysisService loads respondents, runs the engine and records runs.
type AnalysisService struct {
	source ports.RespondentSource
	runs   ports.RunRepository
	engine *engine.Engine
	logger *internal.Logger
}

// EngineConfig maps the analysis settings onto an engine configuration.
func EngineConfig(cfg config.AnalysisConfig) engine.Config {
	ec := engine.DefaultConfig()
	ec.Alpha = cfg.Alpha
	ec.Method = cfg.Method
	ec.CompositeDigits = cfg.CompositeDigits
	ec.HistogramBins = cfg.HistogramBins
	ec.Anomaly = anomaly.Config{
		ZThreshold: cfg.ZThreshold,
		MinAge:     cfg.MinAge,
		MaxAge:     cfg.MaxAge,
	}
	return ec
}

// NewAnalysisService creates an analysis service. runs may be nil, in which
// case reports are not persisted.
func NewAnalysisService(source ports.RespondentSource, runs ports.RunRepository, eng *engine.Engine, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		source: source,
		runs:   runs,
		engine: eng,
		logger: logger.WithComponent("AnalysisService"),
	}
}

// Engine returns the engine the service runs.
func (s *AnalysisService) Engine() *engine.Engine { return s.engine }

// Respondents loads the current respondent set. An empty set is an error
// because no analysis is defined on it.
func (s *AnalysisService) Respondents(ctx context.Context) ([]survey.Respondent, error) {
	start := time.Now()
	respondents, err := s.source.Load(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load respondents from %s", s.source.Name())
	}
	if len(respondents) == 0 {
		return nil, errors.Wrapf(core.ErrEmptyInput, "no respondents in %s", s.source.Name())
	}
	s.logger.Debug("loaded %d respondents from %s in %v", len(respondents), s.source.Name(), time.Since(start))
	return respondents, nil
}

// Analyze runs the full report and persists it when a run repository is
// configured. A persistence failure is logged, not returned: the report is
// still valid.
func (s *AnalysisService) Analyze(ctx context.Context) (*stats.Report, error) {
	respondents, err := s.Respondents(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.Run(ctx, respondents)
	if err != nil {
		return nil, errors.Wrap(err, "analysis failed")
	}
	s.logger.Info("run %s: %d respondents, %d anomalies, %d significant comparisons",
		report.RunID, report.Respondents, len(report.Anomalies), len(report.Significant()))

	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, report); err != nil {
			s.logger.Error("failed to persist run %s: %v", report.RunID, err)
		}
	}
	return report, nil
}

// Anomalies screens the current respondents.
func (s *AnalysisService) Anomalies(ctx context.Context) ([]stats.AnomalyEntry, error) {
	respondents, err := s.Respondents(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Screen(respondents), nil
}

// Descriptives summarises every composite column.
func (s *AnalysisService) Descriptives(ctx context.Context) ([]stats.Descriptive, error) {
	respondents, err := s.Respondents(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Describe(respondents), nil
}

// Normality tests every composite column.
func (s *AnalysisService) Normality(ctx context.Context) ([]stats.NormalityVerdict, error) {
	respondents, err := s.Respondents(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Normality(respondents), nil
}

// Comparisons runs the paired comparison for every construct.
func (s *AnalysisService) Comparisons(ctx context.Context) ([]stats.Comparison, error) {
	respondents, err := s.Respondents(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Compare(respondents), nil
}

// ANOVA runs one-way ANOVA by attr, or by every configured attribute when
// attr is empty.
func (s *AnalysisService) ANOVA(ctx context.Context, attr string) ([]stats.ANOVAResult, error) {
	var (
		a  survey.Attribute
		ok bool
	)
	if attr != "" {
		if a, ok = survey.ParseAttribute(attr); !ok {
			return nil, errors.Wrapf(core.ErrUnknownAttribute, "cannot group by %q", attr)
		}
	}

	respondents, err := s.Respondents(ctx)
	if err != nil {
		return nil, err
	}

	var results []stats.ANOVAResult
	if attr == "" {
		results, err = s.engine.ANOVA(respondents)
	} else {
		results, err = s.engine.ANOVAFor(respondents, a)
	}
	if err != nil {
		return nil, errors.Wrap(err, "anova failed")
	}
	return results, nil
}

// Demographics counts respondents per demographic category.
func (s *AnalysisService) Demographics(ctx context.Context) ([]stats.FrequencyTable, error) {
	respondents, err := s.Respondents(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.Demographics(respondents), nil
}

// Run loads a persisted report.
func (s *AnalysisService) Run(ctx context.Context, id core.RunID) (*stats.Report, error) {
	if s.runs == nil {
		return nil, errors.NotFound("run history")
	}
	report, err := s.runs.GetRun(ctx, id)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load run %s", id)
	}
	return report, nil
}

// Runs lists persisted runs, newest first.
func (s *AnalysisService) Runs(ctx context.Context, limit int) ([]ports.RunSummary, error) {
	if s.runs == nil {
		return nil, nil
	}
	runs, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	return runs, nil
}
