package hypothesis

import (
	"math"
	"sort"

	"vrsurvey/domain/core"
	results "vrsurvey/domain/stats"
	"vrsurvey/internal/analysis/dist"
)

// tieTolerance groups |d| values that differ only by floating-point noise
// from subtracting rounded composites.
const tieTolerance = 1e-9

// Wilcoxon runs a two-sided Wilcoxon signed-rank test on d = a - b using the
// normal approximation. Zero differences are dropped; if none remain the test
// is undefined and core.ErrNoNonZeroDifferences is returned. Tied magnitudes
// share the average of their ranks. Small samples are not special-cased.
func Wilcoxon(a, b []float64, opts Options) (*results.WilcoxonResult, error) {
	if err := checkPaired(a, b); err != nil {
		return nil, err
	}

	var nonZero []float64
	for _, v := range differences(a, b) {
		if v != 0 {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) == 0 {
		return nil, core.ErrNoNonZeroDifferences
	}

	ranks := signedRanks(nonZero)
	var wPlus, wMinus float64
	for i, v := range nonZero {
		if v > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}

	n := float64(len(nonZero))
	w := math.Min(wPlus, wMinus)
	mu := n * (n + 1) / 4
	sigma := math.Sqrt(n * (n + 1) * (2*n + 1) / 24)
	z := (w - mu) / sigma
	p := dist.TwoSidedNormal(z)

	return &results.WilcoxonResult{
		N:           len(nonZero),
		Discarded:   len(a) - len(nonZero),
		WPlus:       results.Float(wPlus),
		WMinus:      results.Float(wMinus),
		W:           results.Float(w),
		Mu:          results.Float(mu),
		Sigma:       results.Float(sigma),
		Z:           results.Float(z),
		PValue:      results.Float(p),
		Alpha:       opts.Alpha,
		Significant: p < opts.Alpha,
	}, nil
}

// signedRanks ranks |d| ascending, giving tied blocks their average rank.
// The result is aligned with d.
func signedRanks(d []float64) []float64 {
	idx := make([]int, len(d))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return math.Abs(d[idx[i]]) < math.Abs(d[idx[j]])
	})

	ranks := make([]float64, len(d))
	for start := 0; start < len(idx); {
		end := start + 1
		base := math.Abs(d[idx[start]])
		for end < len(idx) && math.Abs(d[idx[end]])-base <= tieTolerance {
			end++
		}
		// positions start..end-1 hold ranks start+1..end
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[idx[k]] = avg
		}
		start = end
	}
	return ranks
}
