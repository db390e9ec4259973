// Package demographics builds the participant frequency tables.
package demographics

import (
	"fmt"
	"sort"
	"strings"

	"vrsurvey/domain/core"
	results "vrsurvey/domain/stats"
	"vrsurvey/domain/survey"
)

// Unknown labels respondents who left the attribute blank.
const Unknown = "unknown"

// Frequencies counts respondents per category of attribute. Known answer
// options come first in questionnaire order (zero counts included), then any
// other recorded values alphabetically, then Unknown when some are missing.
// Percent is of all respondents.
func Frequencies(respondents []survey.Respondent, attribute survey.Attribute) (results.FrequencyTable, error) {
	if _, ok := survey.ParseAttribute(string(attribute)); !ok {
		return results.FrequencyTable{}, fmt.Errorf("%w: %s", core.ErrUnknownAttribute, attribute)
	}

	counts := make(map[string]int)
	for _, r := range respondents {
		v := strings.TrimSpace(r.Attribute(attribute))
		if v == "" {
			v = Unknown
		}
		counts[v]++
	}

	known := survey.Categories(attribute)
	order := append([]string(nil), known...)
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[k] = true
	}
	var extra []string
	for v := range counts {
		if !seen[v] && v != Unknown {
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)
	order = append(order, extra...)
	if counts[Unknown] > 0 {
		order = append(order, Unknown)
	}

	total := len(respondents)
	table := results.FrequencyTable{Attribute: string(attribute), Total: total}
	for _, cat := range order {
		pct := results.NaN
		if total > 0 {
			pct = results.Float(float64(counts[cat]) / float64(total) * 100)
		}
		table.Rows = append(table.Rows, results.Frequency{Category: cat, Count: counts[cat], Percent: pct})
	}
	return table, nil
}

// All builds a table for every demographic attribute.
func All(respondents []survey.Respondent) []results.FrequencyTable {
	tables := make([]results.FrequencyTable, 0, len(survey.Attributes))
	for _, a := range survey.Attributes {
		t, _ := Frequencies(respondents, a)
		tables = append(tables, t)
	}
	return tables
}
