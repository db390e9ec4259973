// Package anomaly screens respondents for low-quality submissions:
// straightlining, intra-respondent outliers and implausible ages.
package anomaly

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	results "vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
	"vrsurvey/internal/analysis/descriptive"
)

// Reason texts, in rule evaluation order.
const (
	ReasonStraightlining = "Straightlining: All answers are the same"
	ReasonOutlier        = "Outlier: Extreme deviation detected"
	reasonAgeFormat      = "Unrealistic age: %s"
)

// Config holds the screening thresholds.
type Config struct {
	// ZThreshold flags a respondent when any answer's z-score against their
	// own answers exceeds it in magnitude.
	ZThreshold float64
	// MinAge and MaxAge bound plausible numeric ages, inclusive.
	MinAge float64
	MaxAge float64
}

// DefaultConfig returns |z| > 3 and ages in [10, 100].
func DefaultConfig() Config {
	return Config{ZThreshold: 3, MinAge: 10, MaxAge: 100}
}

// Detector applies the screening rules over a fixed item order.
type Detector struct {
	cfg   Config
	items []survey.Item
}

// NewDetector screens over survey.AllItems.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg, items: survey.AllItems}
}

// Screen returns one entry per flagged respondent, in input order.
func (d *Detector) Screen(respondents []survey.Respondent) []results.AnomalyEntry {
	var out []results.AnomalyEntry
	for _, r := range respondents {
		if e, flagged := d.Check(r); flagged {
			out = append(out, e)
		}
	}
	return out
}

// Check evaluates every rule for one respondent. Only answered items take
// part in the answer-pattern rules.
func (d *Detector) Check(r survey.Respondent) (results.AnomalyEntry, bool) {
	entry := results.AnomalyEntry{RespondentID: r.ID, SubmittedAt: r.SubmittedAt}

	answers := make([]float64, 0, len(d.items))
	for _, it := range d.items {
		if v, ok := r.Answer(it); ok {
			answers = append(answers, float64(v))
		}
	}

	if straightlined(answers) {
		entry.Reasons = append(entry.Reasons, ReasonStraightlining)
		entry.Rules = append(entry.Rules, results.RuleStraightlining)
	}

	for _, z := range descriptive.ZScores(answers) {
		if math.Abs(z) > d.cfg.ZThreshold {
			entry.Reasons = append(entry.Reasons, ReasonOutlier)
			entry.Rules = append(entry.Rules, results.RuleOutlier)
			break
		}
	}

	if age, ok := numericAge(r.Age); ok && (age < d.cfg.MinAge || age > d.cfg.MaxAge) {
		entry.Reasons = append(entry.Reasons, fmt.Sprintf(reasonAgeFormat, strings.TrimSpace(r.Age)))
		entry.Rules = append(entry.Rules, results.RuleAge)
	}

	return entry, len(entry.Reasons) > 0
}

func straightlined(answers []float64) bool {
	if len(answers) == 0 {
		return false
	}
	for _, a := range answers[1:] {
		if a != answers[0] {
			return false
		}
	}
	return true
}

// numericAge parses ages recorded as numbers. Bracket labels such as
// "twenty-to-forty" are not numeric and are never evaluated.
func numericAge(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}
