package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vrsurvey/domain/core"
	"vrsurvey/domain/stats"
)

func sampleReport() *stats.Report {
	return &stats.Report{
		RunID:       core.RunID("0190a3c4-0000-7000-8000-000000000001"),
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Respondents: 40,
		Alpha:       0.05,
		Method:      "legacy",
		Anomalies: []stats.AnomalyEntry{{
			RespondentID: 9,
			Reasons:      []string{"Straightlining detected", "Unrealistic age: 140"},
			Rules:        []stats.AnomalyRule{stats.RuleStraightlining, stats.RuleAge},
		}},
		Descriptives: []stats.Descriptive{
			{Variable: "trust_2d", Count: 40, Mean: 3.25, Median: 3.2, StdDev: 0.61234, Min: 1.8, Max: 4.6},
		},
		Normality: []stats.NormalityVerdict{
			{Variable: "trust_2d", N: 40, JB: 1.234, PValue: 0.5394, IsNormal: true},
			{Variable: "trust_vr", N: 40, JB: stats.NaN, PValue: stats.NaN},
		},
		Comparisons: []stats.Comparison{
			{Construct: "trust", N: 40, Test: stats.TestPairedT,
				PairedT: &stats.PairedTResult{N: 40, T: 4.2, DF: 39, PValue: 0.00001, CohensD: 0.66, Significant: true}},
			{Construct: "uncertainty", N: 40, Test: stats.TestWilcoxon,
				Wilcoxon: &stats.WilcoxonResult{N: 35, Discarded: 5, W: 210, Z: -1.5, PValue: 0.1336}},
			{Construct: "purchase_intent", N: 40, Test: stats.TestWilcoxon, Error: "no non-zero differences"},
		},
		ANOVA: []stats.ANOVAResult{
			{Attribute: "gender", Dependent: "trust_diff", F: stats.Float(math.Inf(1)), PValue: 0, DFBetween: 1, DFWithin: 38,
				Groups: []stats.GroupStats{{Name: "Female"}, {Name: "Man"}}},
		},
		Demographics: []stats.FrequencyTable{
			{Attribute: "age", Total: 40, Rows: []stats.Frequency{{Category: "twenty-to-forty", Count: 30, Percent: 75}, {Category: "sixty-or-more", Count: 10, Percent: 25}}},
		},
	}
}

func TestFormatterNumbers(t *testing.T) {
	f := DefaultFormatter()

	assert.Equal(t, "0.612", f.Num(0.61234))
	assert.Equal(t, "NaN", f.Num(stats.NaN))
	assert.Equal(t, "+Inf", f.Num(stats.Float(math.Inf(1))))
	assert.Equal(t, "0.0679", f.P(0.06789))
	assert.Equal(t, "<0.0001", f.P(0.00001))
	assert.Equal(t, "0.0000", f.P(0))
}

func TestMarkdownContainsEverySection(t *testing.T) {
	md := DefaultFormatter().Markdown(sampleReport())

	for _, want := range []string{
		"# Survey analysis 0190a3c4-0000-7000-8000-000000000001",
		"| 9 |  | Straightlining detected; Unrealistic age: 140 |",
		"| trust_2d | 40 | 3.250 | 3.200 | 0.612 | 1.800 | 4.600 |",
		"| trust_vr | 40 | NaN | NaN |",
		"| trust | 40 | paired t | t(39) = 4.200 | <0.0001 | d = 0.660 | yes |",
		"| uncertainty | 40 | Wilcoxon | W = 210.000, z = -1.500 | 0.1336 |",
		"no non-zero differences",
		"F(1, 38) = +Inf",
		"### Age",
		"| 20-40 | 30 | 75.0% |",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "## Distributions")
}

func TestMarkdownNoAnomalies(t *testing.T) {
	r := sampleReport()
	r.Anomalies = nil
	assert.Contains(t, DefaultFormatter().Markdown(r), "No respondents flagged.")
}

func TestHTMLRendersTables(t *testing.T) {
	page := string(DefaultFormatter().HTML(sampleReport()))

	assert.True(t, strings.Contains(page, "<table>"))
	assert.Contains(t, page, "<title>Survey analysis 0190a3c4-0000-7000-8000-000000000001</title>")
	assert.Contains(t, page, "<td>uncertainty</td>")
}

func TestSectionRenderers(t *testing.T) {
	f := DefaultFormatter()
	r := sampleReport()

	cmp := f.Comparisons(r.Comparisons)
	assert.True(t, strings.HasPrefix(cmp, "## Paired comparisons"))
	assert.NotContains(t, cmp, "## Anomalies")

	assert.Contains(t, f.Normality(r.Normality), "| trust_2d | 40 | 1.234 | 0.5394 |")
	assert.Contains(t, f.Anomalies(r.Anomalies), "Unrealistic age: 140")
	assert.Contains(t, f.ANOVA(r.ANOVA), "| gender | trust_diff | 2 |")
	assert.Contains(t, f.Demographics(r.Demographics), "| 60+ | 10 | 25.0% |")
	assert.Contains(t, f.Descriptives(r.Descriptives), "| Variable | N | Mean |")
	assert.Empty(t, f.ANOVA(nil))
}
