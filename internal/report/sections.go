package report

import (
	"strings"

	"vrsurvey/domain/stats"
)

// Section renderers for callers that need a single table.

func (f Formatter) Anomalies(entries []stats.AnomalyEntry) string {
	var b strings.Builder
	f.writeAnomalies(&b, entries)
	return b.String()
}

func (f Formatter) Descriptives(ds []stats.Descriptive) string {
	var b strings.Builder
	f.writeDescriptives(&b, ds)
	return b.String()
}

func (f Formatter) Normality(vs []stats.NormalityVerdict) string {
	var b strings.Builder
	f.writeNormality(&b, vs)
	return b.String()
}

func (f Formatter) Comparisons(cs []stats.Comparison) string {
	var b strings.Builder
	f.writeComparisons(&b, cs)
	return b.String()
}

func (f Formatter) ANOVA(as []stats.ANOVAResult) string {
	var b strings.Builder
	f.writeANOVA(&b, as)
	return b.String()
}

func (f Formatter) Demographics(ts []stats.FrequencyTable) string {
	var b strings.Builder
	f.writeDemographics(&b, ts)
	return b.String()
}
