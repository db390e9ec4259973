package hypothesis

import (
	"errors"
	"fmt"

	"vrsurvey/domain/core"
	results "vrsurvey/domain/stats"
	"vrsurvey/internal/analysis/normality"
)

// Choose picks the paired test from the normality verdicts of both columns:
// the t-test only when both are normal.
func Choose(twoD, vr results.NormalityVerdict) results.TestKind {
	if twoD.IsNormal && vr.IsNormal {
		return results.TestPairedT
	}
	return results.TestWilcoxon
}

// Selector compares the 2D and VR columns of a construct, running whichever
// test Choose selects on VR - 2D.
type Selector struct {
	opts Options
}

// NewSelector creates a selector using opts for both the normality check and
// the chosen test.
func NewSelector(opts Options) *Selector {
	return &Selector{opts: opts}
}

// Compare runs the normality check on both columns and then the chosen test.
// When the test itself fails (all differences zero) the returned comparison
// still carries both verdicts and the error text.
func (s *Selector) Compare(construct string, twoD, vr []float64) (results.Comparison, error) {
	cmp := results.Comparison{Construct: construct, N: len(vr)}
	if err := checkPaired(vr, twoD); err != nil {
		cmp.Error = err.Error()
		return cmp, fmt.Errorf("compare %s: %w", construct, err)
	}

	cmp.Normality2D = normality.JarqueBera(twoD, s.opts.Method, s.opts.Alpha)
	cmp.Normality2D.Variable = construct + "_2d"
	cmp.NormalityVR = normality.JarqueBera(vr, s.opts.Method, s.opts.Alpha)
	cmp.NormalityVR.Variable = construct + "_vr"
	cmp.Test = Choose(cmp.Normality2D, cmp.NormalityVR)

	var err error
	switch cmp.Test {
	case results.TestPairedT:
		cmp.PairedT, err = PairedT(vr, twoD, s.opts)
	default:
		cmp.Wilcoxon, err = Wilcoxon(vr, twoD, s.opts)
	}
	if err != nil {
		cmp.Error = err.Error()
		return cmp, fmt.Errorf("compare %s: %w", construct, err)
	}
	return cmp, nil
}

// IsDegenerate reports whether err means the columns carried no usable
// signal (every pair equal) rather than a caller mistake.
func IsDegenerate(err error) bool {
	return errors.Is(err, core.ErrNoNonZeroDifferences)
}
