package stats

import (
	"math"
	"time"

	"vrsurvey/domain/core"
)

// TestKind tags the variant carried by a Comparison.
type TestKind string

const (
	TestPairedT  TestKind = "paired_t"
	TestWilcoxon TestKind = "wilcoxon"
)

// TestResult is the common view over paired-test outcomes.
type TestResult interface {
	Kind() TestKind
	P() float64
	IsSignificant() bool
}

// Descriptive summarises one composite column. StdDev uses n-1.
type Descriptive struct {
	Variable string `json:"variable"`
	Count    int    `json:"count"`
	Mean     Float  `json:"mean"`
	Median   Float  `json:"median"`
	StdDev   Float  `json:"std_dev"`
	Min      Float  `json:"min"`
	Max      Float  `json:"max"`
}

// HistogramBin is one equal-width bin. Label is the lower edge at two
// decimals.
type HistogramBin struct {
	Label string `json:"label"`
	Lower Float  `json:"lower"`
	Upper Float  `json:"upper"`
	Count int    `json:"count"`
}

// FiveNumber is the box-plot summary of a column.
type FiveNumber struct {
	Min    Float `json:"min"`
	Q1     Float `json:"q1"`
	Median Float `json:"median"`
	Q3     Float `json:"q3"`
	Max    Float `json:"max"`
}

// Distribution groups the shape summaries of one column.
type Distribution struct {
	Variable   string         `json:"variable"`
	Histogram  []HistogramBin `json:"histogram"`
	FiveNumber FiveNumber     `json:"five_number"`
}

// NormalityVerdict is a Jarque-Bera outcome. Skewness and Kurtosis are the
// population moments; Kurtosis is not excess kurtosis. Fallback is set when
// the legacy chi-square series did not converge and the continued fraction
// supplied PValue instead.
type NormalityVerdict struct {
	Variable   string `json:"variable"`
	N          int    `json:"n"`
	JB         Float  `json:"jb"`
	PValue     Float  `json:"p_value"`
	ReferenceP Float  `json:"reference_p"`
	Skewness   Float  `json:"skewness"`
	Kurtosis   Float  `json:"kurtosis"`
	IsNormal   bool   `json:"is_normal"`
	Method     string `json:"method"`
	Fallback   bool   `json:"fallback,omitempty"`
}

// ReferenceDrift is |PValue - ReferenceP|. It is 0 when either is NaN.
func (v NormalityVerdict) ReferenceDrift() float64 {
	d := math.Abs(float64(v.PValue - v.ReferenceP))
	if math.IsNaN(d) {
		return 0
	}
	return d
}

// PairedTResult is the outcome of a paired t-test on a-b.
type PairedTResult struct {
	N           int     `json:"n"`
	MeanDiff    Float   `json:"mean_diff"`
	StdDiff     Float   `json:"std_diff"`
	T           Float   `json:"t"`
	DF          int     `json:"df"`
	PValue      Float   `json:"p_value"`
	ReferenceP  Float   `json:"reference_p"`
	CohensD     Float   `json:"cohens_d"`
	Alpha       float64 `json:"alpha"`
	Significant bool    `json:"significant"`
	Method      string  `json:"method"`
}

func (r *PairedTResult) Kind() TestKind      { return TestPairedT }
func (r *PairedTResult) P() float64          { return float64(r.PValue) }
func (r *PairedTResult) IsSignificant() bool { return r.Significant }

// ReferenceDrift is |PValue - ReferenceP|, the gap between the configured
// approximation and the library distribution.
func (r *PairedTResult) ReferenceDrift() float64 {
	d := float64(r.PValue - r.ReferenceP)
	if d < 0 {
		return -d
	}
	return d
}

// WilcoxonResult is the outcome of a Wilcoxon signed-rank test. N counts the
// non-zero differences; Discarded the zero ones.
type WilcoxonResult struct {
	N           int     `json:"n"`
	Discarded   int     `json:"discarded"`
	WPlus       Float   `json:"w_plus"`
	WMinus      Float   `json:"w_minus"`
	W           Float   `json:"w"`
	Mu          Float   `json:"mu"`
	Sigma       Float   `json:"sigma"`
	Z           Float   `json:"z"`
	PValue      Float   `json:"p_value"`
	Alpha       float64 `json:"alpha"`
	Significant bool    `json:"significant"`
}

func (r *WilcoxonResult) Kind() TestKind      { return TestWilcoxon }
func (r *WilcoxonResult) P() float64          { return float64(r.PValue) }
func (r *WilcoxonResult) IsSignificant() bool { return r.Significant }

// Comparison is the selector outcome for one construct: the normality
// verdicts of both columns and exactly one test variant.
type Comparison struct {
	Construct   string           `json:"construct"`
	N           int              `json:"n"`
	Normality2D NormalityVerdict `json:"normality_2d"`
	NormalityVR NormalityVerdict `json:"normality_vr"`
	Test        TestKind         `json:"test"`
	PairedT     *PairedTResult   `json:"paired_t,omitempty"`
	Wilcoxon    *WilcoxonResult  `json:"wilcoxon,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// Result returns the test variant that was run, or nil if the test failed.
func (c Comparison) Result() TestResult {
	switch {
	case c.PairedT != nil:
		return c.PairedT
	case c.Wilcoxon != nil:
		return c.Wilcoxon
	}
	return nil
}

// GroupStats describes one level of a grouping attribute. StdDev uses n-1.
type GroupStats struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	Mean   Float  `json:"mean"`
	StdDev Float  `json:"std_dev"`
	Min    Float  `json:"min"`
	Max    Float  `json:"max"`
}

// ANOVAResult is a one-way ANOVA of a dependent variable across the levels
// of a grouping attribute. Groups are sorted by name.
type ANOVAResult struct {
	Attribute   string       `json:"attribute"`
	Dependent   string       `json:"dependent"`
	F           Float        `json:"f"`
	PValue      Float        `json:"p_value"`
	ReferenceP  Float        `json:"reference_p"`
	DFBetween   int          `json:"df_between"`
	DFWithin    int          `json:"df_within"`
	SSB         Float        `json:"ssb"`
	SSW         Float        `json:"ssw"`
	MSB         Float        `json:"msb"`
	MSW         Float        `json:"msw"`
	GrandMean   Float        `json:"grand_mean"`
	Alpha       float64      `json:"alpha"`
	Significant bool         `json:"significant"`
	Groups      []GroupStats `json:"groups"`
}

// AnomalyRule tags which screening rule fired.
type AnomalyRule string

const (
	RuleStraightlining AnomalyRule = "straightlining"
	RuleOutlier        AnomalyRule = "outlier"
	RuleAge            AnomalyRule = "age"
)

// AnomalyEntry lists the reasons one respondent was flagged, in rule order.
type AnomalyEntry struct {
	RespondentID int64         `json:"respondent_id"`
	SubmittedAt  time.Time     `json:"submitted_at"`
	Reasons      []string      `json:"reasons"`
	Rules        []AnomalyRule `json:"rules"`
}

// Has reports whether the given rule fired.
func (e AnomalyEntry) Has(rule AnomalyRule) bool {
	for _, r := range e.Rules {
		if r == rule {
			return true
		}
	}
	return false
}

// Frequency is one category row of a demographic table.
type Frequency struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Percent  Float  `json:"percent"`
}

// FrequencyTable counts respondents per category of one attribute.
type FrequencyTable struct {
	Attribute string      `json:"attribute"`
	Total     int         `json:"total"`
	Rows      []Frequency `json:"rows"`
}

// Report is the full output of one analysis run.
type Report struct {
	RunID         core.RunID         `json:"run_id"`
	GeneratedAt   time.Time          `json:"generated_at"`
	Respondents   int                `json:"respondents"`
	Alpha         float64            `json:"alpha"`
	Method        string             `json:"method"`
	Anomalies     []AnomalyEntry     `json:"anomalies"`
	Descriptives  []Descriptive      `json:"descriptives"`
	Distributions []Distribution     `json:"distributions"`
	Normality     []NormalityVerdict `json:"normality"`
	Comparisons   []Comparison       `json:"comparisons"`
	ANOVA         []ANOVAResult      `json:"anova"`
	Demographics  []FrequencyTable   `json:"demographics"`
}

// Significant returns the comparisons whose test rejected the null.
func (r *Report) Significant() []Comparison {
	var out []Comparison
	for _, c := range r.Comparisons {
		if res := c.Result(); res != nil && res.IsSignificant() {
			out = append(out, c)
		}
	}
	return out
}
