// Package extract turns respondent records into the composite columns,
// paired differences and grouped rows the analyses consume.
package extract

import (
	"fmt"
	"strings"

	"vrsurvey/domain/core"
	"vrsurvey/domain/survey"
	"vrsurvey/internal/analysis/anova"
	"vrsurvey/internal/analysis/descriptive"
)

// Extractor computes composites under a validated schema. Digits rounds each
// composite and difference; a negative value disables rounding.
type Extractor struct {
	Schema *survey.Schema
	Digits int
}

// New returns an extractor over schema rounding to digits.
func New(schema *survey.Schema, digits int) *Extractor {
	return &Extractor{Schema: schema, Digits: digits}
}

// Composite returns the mean of the scale's items. It is undefined when the
// construct is unknown or any item is unanswered. Items are integers, so the
// sum is exact and the result does not depend on item order.
func (e *Extractor) Composite(r survey.Respondent, c survey.Construct, cond survey.Condition) (float64, bool) {
	items, err := e.Schema.Items(c, cond)
	if err != nil || len(items) == 0 {
		return 0, false
	}
	sum := 0
	for _, it := range items {
		v, ok := r.Answer(it)
		if !ok {
			return 0, false
		}
		sum += v
	}
	return descriptive.Round(float64(sum)/float64(len(items)), e.Digits), true
}

// Difference returns VR - 2D for a construct, defined only when both
// composites are. The composites are already rounded; the difference is
// not rounded again so it matches the per-pair differences the paired
// tests take from Pair.
func (e *Extractor) Difference(r survey.Respondent, c survey.Construct) (float64, bool) {
	twoD, ok := e.Composite(r, c, survey.Condition2D)
	if !ok {
		return 0, false
	}
	vr, ok := e.Composite(r, c, survey.ConditionVR)
	if !ok {
		return 0, false
	}
	return vr - twoD, true
}

// Pair returns the aligned 2D and VR columns of a construct. A respondent
// contributes only when both composites are defined.
func (e *Extractor) Pair(respondents []survey.Respondent, c survey.Construct) (twoD, vr []float64) {
	for _, r := range respondents {
		a, ok := e.Composite(r, c, survey.Condition2D)
		if !ok {
			continue
		}
		b, ok := e.Composite(r, c, survey.ConditionVR)
		if !ok {
			continue
		}
		twoD = append(twoD, a)
		vr = append(vr, b)
	}
	return twoD, vr
}

// Columns returns every composite column keyed by variable, e.g.
// "trust_2d". Each construct's pair of columns is aligned by respondent.
func (e *Extractor) Columns(respondents []survey.Respondent) map[survey.Variable][]float64 {
	cols := make(map[survey.Variable][]float64)
	for _, c := range e.Schema.Constructs() {
		twoD, vr := e.Pair(respondents, c)
		cols[survey.VariableOf(c, survey.Condition2D)] = twoD
		cols[survey.VariableOf(c, survey.ConditionVR)] = vr
	}
	return cols
}

// RespondentDifferences holds one respondent's VR - 2D difference per
// construct. Constructs with an undefined composite are absent.
type RespondentDifferences struct {
	RespondentID int64                        `json:"respondent_id"`
	Values       map[survey.Construct]float64 `json:"values"`
}

// Differences returns the paired differences of every respondent, in input
// order.
func (e *Extractor) Differences(respondents []survey.Respondent) []RespondentDifferences {
	out := make([]RespondentDifferences, 0, len(respondents))
	for _, r := range respondents {
		rd := RespondentDifferences{RespondentID: r.ID, Values: make(map[survey.Construct]float64)}
		for _, c := range e.Schema.Constructs() {
			if d, ok := e.Difference(r, c); ok {
				rd.Values[c] = d
			}
		}
		out = append(out, rd)
	}
	return out
}

// Observations builds ANOVA rows of (attribute value, VR - 2D difference).
// Respondents missing any grouping demographic or the composite are
// skipped.
func (e *Extractor) Observations(respondents []survey.Respondent, attr survey.Attribute, c survey.Construct) ([]anova.Observation, error) {
	if _, ok := survey.ParseAttribute(string(attr)); !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownAttribute, attr)
	}
	if !e.Schema.HasConstruct(c) {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownConstruct, c)
	}

	var rows []anova.Observation
	for _, r := range respondents {
		if !r.HasDemographics() {
			continue
		}
		group := strings.TrimSpace(r.Attribute(attr))
		if group == "" {
			continue
		}
		d, ok := e.Difference(r, c)
		if !ok {
			continue
		}
		rows = append(rows, anova.Observation{Group: group, Value: d})
	}
	return rows, nil
}
