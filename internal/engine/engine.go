// Package engine runs the full survey analysis: screening, descriptives,
// normality, paired comparisons, ANOVA and demographic tables.
package engine

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
	"vrsurvey/internal"
	"vrsurvey/internal/analysis/anova"
	"vrsurvey/internal/analysis/demographics"
	"vrsurvey/internal/analysis/descriptive"
	"vrsurvey/internal/analysis/hypothesis"
	"vrsurvey/internal/analysis/normality"
	"vrsurvey/internal/anomaly"
	"vrsurvey/internal/extract"
)

// Engine is safe for concurrent use; it holds no mutable state.
type Engine struct {
	cfg       Config
	extractor *extract.Extractor
	detector  *anomaly.Detector
	selector  *hypothesis.Selector
	logger    *internal.Logger
}

// New validates cfg and builds an engine. A nil logger uses
// internal.DefaultLogger.
func New(cfg Config, logger *internal.Logger) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{
		cfg:       cfg,
		extractor: extract.New(cfg.Schema, cfg.CompositeDigits),
		detector:  anomaly.NewDetector(cfg.Anomaly),
		selector:  hypothesis.NewSelector(hypothesis.Options{Alpha: cfg.Alpha, Method: cfg.Method}),
		logger:    logger.WithComponent("Engine"),
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Extractor exposes the composite extractor used by the engine.
func (e *Engine) Extractor() *extract.Extractor { return e.extractor }

// Screen flags low-quality respondents.
func (e *Engine) Screen(respondents []survey.Respondent) []stats.AnomalyEntry {
	entries := e.detector.Screen(respondents)
	e.logger.Info("Screened %d respondents, %d flagged", len(respondents), len(entries))
	return entries
}

// variables lists composite columns in construct order, 2D before VR.
func (e *Engine) variables() []survey.Variable {
	var vars []survey.Variable
	for _, c := range e.cfg.Schema.Constructs() {
		for _, cond := range survey.Conditions {
			vars = append(vars, survey.VariableOf(c, cond))
		}
	}
	return vars
}

// Describe summarises every composite column.
func (e *Engine) Describe(respondents []survey.Respondent) []stats.Descriptive {
	cols := e.extractor.Columns(respondents)
	out := make([]stats.Descriptive, 0, len(cols))
	for _, v := range e.variables() {
		d := descriptive.Describe(cols[v])
		d.Variable = string(v)
		out = append(out, d)
	}
	return out
}

// Distributions builds the histogram and five-number summary of every
// composite column.
func (e *Engine) Distributions(respondents []survey.Respondent) []stats.Distribution {
	cols := e.extractor.Columns(respondents)
	out := make([]stats.Distribution, 0, len(cols))
	for _, v := range e.variables() {
		out = append(out, stats.Distribution{
			Variable:   string(v),
			Histogram:  descriptive.Histogram(cols[v], e.cfg.HistogramBins),
			FiveNumber: descriptive.FiveNumber(cols[v]),
		})
	}
	return out
}

// Normality runs Jarque-Bera on every composite column.
func (e *Engine) Normality(respondents []survey.Respondent) []stats.NormalityVerdict {
	cols := e.extractor.Columns(respondents)
	out := make([]stats.NormalityVerdict, 0, len(cols))
	for _, v := range e.variables() {
		verdict := normality.JarqueBera(cols[v], e.cfg.Method, e.cfg.Alpha)
		verdict.Variable = string(v)
		e.checkNormalityDrift(string(v), verdict)
		out = append(out, verdict)
	}
	return out
}

// CompareConstruct runs the selector on one construct. A construct whose
// test is undefined (no complete pairs, or every difference zero) still
// yields a comparison with Error set.
func (e *Engine) CompareConstruct(respondents []survey.Respondent, c survey.Construct) stats.Comparison {
	twoD, vr := e.extractor.Pair(respondents, c)
	cmp, err := e.selector.Compare(string(c), twoD, vr)
	if err != nil {
		e.logger.Warn("%s: comparison undefined: %v", c, err)
		return cmp
	}
	e.logger.Info("%s: 2D normal=%v, VR normal=%v, using %s (p=%.4f)",
		c, cmp.Normality2D.IsNormal, cmp.NormalityVR.IsNormal, cmp.Test, cmp.Result().P())
	e.checkNormalityDrift(cmp.Normality2D.Variable, cmp.Normality2D)
	e.checkNormalityDrift(cmp.NormalityVR.Variable, cmp.NormalityVR)
	if cmp.PairedT != nil && cmp.PairedT.ReferenceDrift() > driftTolerance {
		e.logger.Warn("%s: %s p-value differs from reference by %.4g", c, cmp.PairedT.Method, cmp.PairedT.ReferenceDrift())
	}
	return cmp
}

// driftTolerance is the p-value gap to the reference distribution above
// which a result is logged.
const driftTolerance = 1e-3

func (e *Engine) checkNormalityDrift(variable string, v stats.NormalityVerdict) {
	if v.Fallback {
		e.logger.Warn("%s: legacy chi-square series did not converge at JB=%.4g, used continued fraction", variable, v.JB.Float64())
	}
	if d := v.ReferenceDrift(); d > driftTolerance {
		e.logger.Warn("%s: %s Jarque-Bera p-value differs from reference by %.4g", variable, v.Method, d)
	}
}

// Compare runs the paired comparison for every construct.
func (e *Engine) Compare(respondents []survey.Respondent) []stats.Comparison {
	constructs := e.cfg.Schema.Constructs()
	out := make([]stats.Comparison, len(constructs))
	for i, c := range constructs {
		out[i] = e.CompareConstruct(respondents, c)
	}
	return out
}

// ANOVAFor runs one-way ANOVA of every construct's VR - 2D difference
// across the levels of attr.
func (e *Engine) ANOVAFor(respondents []survey.Respondent, attr survey.Attribute) ([]stats.ANOVAResult, error) {
	constructs := e.cfg.Schema.Constructs()
	out := make([]stats.ANOVAResult, 0, len(constructs))
	for _, c := range constructs {
		rows, err := e.extractor.Observations(respondents, attr, c)
		if err != nil {
			return nil, err
		}
		res := anova.ByAttribute(string(attr), string(c)+"_diff", rows, e.cfg.Alpha)
		e.logger.Debug("ANOVA %s by %s: F=%v p=%v groups=%d", c, attr, res.F, res.PValue, len(res.Groups))
		out = append(out, res)
	}
	return out, nil
}

// ANOVA runs ANOVAFor over every configured grouping attribute.
func (e *Engine) ANOVA(respondents []survey.Respondent) ([]stats.ANOVAResult, error) {
	var out []stats.ANOVAResult
	for _, attr := range e.cfg.GroupBy {
		res, err := e.ANOVAFor(respondents, attr)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

// Demographics builds a frequency table per demographic attribute.
func (e *Engine) Demographics(respondents []survey.Respondent) []stats.FrequencyTable {
	return demographics.All(respondents)
}

// Run executes every stage and assembles a report. Comparisons and ANOVAs
// for different constructs and attributes run concurrently; ctx only
// cancels that fan-out. respondents must not be modified while Run is in
// progress.
func (e *Engine) Run(ctx context.Context, respondents []survey.Respondent) (*stats.Report, error) {
	if len(respondents) == 0 {
		return nil, fmt.Errorf("run analysis: %w", core.ErrEmptyInput)
	}
	start := time.Now()

	report := &stats.Report{
		RunID:       core.NewRunID(),
		Respondents: len(respondents),
		Alpha:       e.cfg.Alpha,
		Method:      e.cfg.Method.String(),
	}

	report.Anomalies = e.Screen(respondents)
	report.Descriptives = e.Describe(respondents)
	report.Distributions = e.Distributions(respondents)
	report.Normality = e.Normality(respondents)
	report.Demographics = e.Demographics(respondents)
	e.logger.Debug("Sequential stages done in %v", time.Since(start))

	constructs := e.cfg.Schema.Constructs()
	comparisons := make([]stats.Comparison, len(constructs))
	anovas := make([][]stats.ANOVAResult, len(e.cfg.GroupBy))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range constructs {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			comparisons[i] = e.CompareConstruct(respondents, c)
			return nil
		})
	}
	for i, attr := range e.cfg.GroupBy {
		i, attr := i, attr
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.ANOVAFor(respondents, attr)
			if err != nil {
				return fmt.Errorf("anova by %s: %w", attr, err)
			}
			anovas[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report.Comparisons = comparisons
	for _, res := range anovas {
		report.ANOVA = append(report.ANOVA, res...)
	}
	report.GeneratedAt = time.Now().UTC()

	e.logger.Info("Run %s finished in %v: %d respondents, %d significant comparisons",
		report.RunID, time.Since(start), report.Respondents, len(report.Significant()))
	return report, nil
}
