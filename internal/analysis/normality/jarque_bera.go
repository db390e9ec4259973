// Package normality implements the Jarque-Bera test used to pick between the
// parametric and rank-based paired tests.
package normality

import (
	"math"

	"github.com/montanaflynn/stats"

	results "vrsurvey/domain/stats"
	"vrsurvey/internal/analysis/dist"
)

// JarqueBera tests values for normality using population moments:
//
//	JB = n/6 · (S² + (K-3)²/4),  p = 1 - χ²₂(JB)
//
// The column is judged normal when p > alpha. ReferenceP carries gonum's
// chi-square tail for the same JB so drift is visible. A constant column has
// undefined skewness and kurtosis, so JB and p are NaN and the column is not
// judged normal.
func JarqueBera(values []float64, method dist.Method, alpha float64) results.NormalityVerdict {
	v := results.NormalityVerdict{
		N:        len(values),
		JB:       results.NaN,
		PValue:     results.NaN,
		ReferenceP: results.NaN,
		Skewness:   results.NaN,
		Kurtosis:   results.NaN,
		Method:     method.String(),
	}
	if len(values) == 0 {
		return v
	}

	skew, kurt := moments(values)
	n := float64(len(values))
	jb := n / 6 * (skew*skew + (kurt-3)*(kurt-3)/4)
	cdf, fellBack := dist.ChiSquareCDFChecked(jb, 2, method)
	p := 1 - cdf

	v.Skewness = results.Float(skew)
	v.Kurtosis = results.Float(kurt)
	v.JB = results.Float(jb)
	v.PValue = results.Float(p)
	v.ReferenceP = results.Float(dist.NewReference().ChiSquareSF(jb, 2))
	v.Fallback = fellBack
	v.IsNormal = p > alpha
	return v
}

// moments returns the population skewness and (non-excess) kurtosis.
func moments(values []float64) (skew, kurt float64) {
	mean, err := stats.Mean(values)
	if err != nil {
		return math.NaN(), math.NaN()
	}
	var m2, m3, m4 float64
	for _, x := range values {
		d := x - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	n := float64(len(values))
	m2 /= n
	m3 /= n
	m4 /= n
	if m2 == 0 {
		return math.NaN(), math.NaN()
	}
	return m3 / math.Pow(m2, 1.5), m4 / (m2 * m2)
}
