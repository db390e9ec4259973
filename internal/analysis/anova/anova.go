// Package anova runs one-way analysis of variance of a paired difference
// across the levels of a demographic attribute.
package anova

import (
	"sort"

	results "vrsurvey/domain/stats"
	"vrsurvey/internal/analysis/descriptive"
	"vrsurvey/internal/analysis/dist"
)

// Group is one level of the grouping attribute and its observations.
type Group struct {
	Name   string
	Values []float64
}

// Observation is one row: the respondent's group label and the value of the
// dependent variable.
type Observation struct {
	Group string
	Value float64
}

// GroupObservations buckets rows by label, sorted by group name.
func GroupObservations(rows []Observation) []Group {
	byName := make(map[string][]float64)
	for _, r := range rows {
		byName[r.Group] = append(byName[r.Group], r.Value)
	}
	groups := make([]Group, 0, len(byName))
	for name, values := range byName {
		groups = append(groups, Group{Name: name, Values: values})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

// ByAttribute groups rows and runs OneWay, labelling the result.
func ByAttribute(attribute, dependent string, rows []Observation, alpha float64) results.ANOVAResult {
	res := OneWay(GroupObservations(rows), alpha)
	res.Attribute = attribute
	res.Dependent = dependent
	return res
}

// OneWay computes the one-way ANOVA table with p = 1 - F(dfB, dfW). Groups
// are reported sorted by name.
//
// Degenerate inputs are not guarded: zero within-group variance with
// separated means gives F = +Inf and p = 0; when both sums of squares are
// zero F and p are NaN and the result is not significant. An empty group
// makes the sums NaN.
func OneWay(groups []Group, alpha float64) results.ANOVAResult {
	sorted := append([]Group(nil), groups...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var total float64
	var n int
	for _, g := range sorted {
		for _, v := range g.Values {
			total += v
		}
		n += len(g.Values)
	}
	grand := total / float64(n)

	stats := make([]results.GroupStats, len(sorted))
	var ssb, ssw float64
	for i, g := range sorted {
		d := descriptive.Describe(g.Values)
		mean := d.Mean.Float64()
		for _, v := range g.Values {
			ssw += (v - mean) * (v - mean)
		}
		ssb += float64(len(g.Values)) * (mean - grand) * (mean - grand)
		stats[i] = results.GroupStats{
			Name:   g.Name,
			Count:  d.Count,
			Mean:   d.Mean,
			StdDev: d.StdDev,
			Min:    d.Min,
			Max:    d.Max,
		}
	}

	k := len(sorted)
	dfB := k - 1
	dfW := n - k
	msb := ssb / float64(dfB)
	msw := ssw / float64(dfW)
	f := msb / msw
	p := 1 - dist.FCDF(f, float64(dfB), float64(dfW))

	return results.ANOVAResult{
		F:           results.Float(f),
		PValue:      results.Float(p),
		ReferenceP:  results.Float(dist.NewReference().FSF(f, dfB, dfW)),
		DFBetween:   dfB,
		DFWithin:    dfW,
		SSB:         results.Float(ssb),
		SSW:         results.Float(ssw),
		MSB:         results.Float(msb),
		MSW:         results.Float(msw),
		GrandMean:   results.Float(grand),
		Alpha:       alpha,
		Significant: p < alpha,
		Groups:      stats,
	}
}
