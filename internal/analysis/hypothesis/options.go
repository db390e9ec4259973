// Package hypothesis implements the paired comparisons between the 2D and VR
// columns of a construct: a paired t-test, a Wilcoxon signed-rank test, and
// the normality-driven selector that picks between them.
package hypothesis

import (
	"vrsurvey/domain/core"
	"vrsurvey/internal/analysis/dist"
)

// Options carries the significance level and CDF method for a test.
type Options struct {
	Alpha  float64
	Method dist.Method
}

// DefaultOptions returns α = 0.05 with the legacy CDFs.
func DefaultOptions() Options {
	return Options{Alpha: 0.05, Method: dist.MethodLegacy}
}

func checkPaired(a, b []float64) error {
	if len(a) != len(b) {
		return core.NewLengthMismatchError(len(a), len(b))
	}
	if len(a) == 0 {
		return core.ErrEmptyInput
	}
	return nil
}

func differences(a, b []float64) []float64 {
	d := make([]float64, len(a))
	for i := range a {
		d[i] = a[i] - b[i]
	}
	return d
}
