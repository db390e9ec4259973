package hypothesis

import (
	"math"

	"github.com/montanaflynn/stats"

	results "vrsurvey/domain/stats"
	"vrsurvey/internal/analysis/dist"
)

// PairedT runs a two-sided paired t-test on d = a - b. When every difference
// is zero the statistic is defined as t = 0 with p = 1. A single pair leaves
// the standard deviation and everything derived from it NaN.
func PairedT(a, b []float64, opts Options) (*results.PairedTResult, error) {
	if err := checkPaired(a, b); err != nil {
		return nil, err
	}

	d := differences(a, b)
	n := len(d)
	df := n - 1

	mean, _ := stats.Mean(d)
	sd := math.NaN()
	if n > 1 {
		sd, _ = stats.StandardDeviationSample(d)
	}

	res := &results.PairedTResult{
		N:        n,
		MeanDiff: results.Float(mean),
		StdDiff:  results.Float(sd),
		DF:       df,
		Alpha:    opts.Alpha,
		Method:   opts.Method.String(),
	}

	if allZero(d) {
		res.T = 0
		res.PValue = 1
		res.ReferenceP = 1
		res.CohensD = results.Float(mean / sd)
		return res, nil
	}

	t := mean / (sd / math.Sqrt(float64(n)))
	p := dist.TwoSidedT(t, float64(df), opts.Method)

	res.T = results.Float(t)
	res.PValue = results.Float(p)
	res.ReferenceP = results.Float(dist.NewReference().TwoSidedT(t, df))
	res.CohensD = results.Float(mean / sd)
	res.Significant = p < opts.Alpha
	return res, nil
}

func allZero(d []float64) bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}
