package dist

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Reference computes p-values from gonum's distributions. Results carry these
// next to the configured approximation so drift is visible in reports.
type Reference struct{}

// NewReference creates a reference distribution set.
func NewReference() Reference {
	return Reference{}
}

// TwoSidedT returns the two-sided p-value of a t statistic.
func (Reference) TwoSidedT(t float64, df int) float64 {
	if df <= 0 || math.IsNaN(t) {
		return math.NaN()
	}
	if math.IsInf(t, 0) {
		return 0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return 2 * (1 - tDist.CDF(math.Abs(t)))
}

// ChiSquareSF returns P(X > x) for a chi-square variable.
func (Reference) ChiSquareSF(x float64, df int) float64 {
	if df <= 0 || math.IsNaN(x) {
		return math.NaN()
	}
	if x <= 0 {
		return 1
	}
	if math.IsInf(x, 1) {
		return 0
	}
	chiDist := distuv.ChiSquared{K: float64(df)}
	return 1 - chiDist.CDF(x)
}

// FSF returns P(F > f) for the F distribution.
func (Reference) FSF(f float64, d1, d2 int) float64 {
	if d1 <= 0 || d2 <= 0 || math.IsNaN(f) {
		return math.NaN()
	}
	if f <= 0 {
		return 1
	}
	if math.IsInf(f, 1) {
		return 0
	}
	fDist := distuv.F{D1: float64(d1), D2: float64(d2)}
	return 1 - fDist.CDF(f)
}

// NormalCDF returns Φ(z).
func (Reference) NormalCDF(z float64) float64 {
	return distuv.UnitNormal.CDF(z)
}
