package hypothesis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrsurvey/domain/core"
	"vrsurvey/internal/analysis/dist"
)

func TestPairedTIdenticalSamples(t *testing.T) {
	a := []float64{3, 4, 2.5, 5, 1}

	res, err := PairedT(a, a, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.MeanDiff.Float64())
	assert.Equal(t, 0.0, res.T.Float64())
	assert.Equal(t, 1.0, res.PValue.Float64())
	assert.False(t, res.Significant)
	assert.True(t, res.CohensD.IsNaN())
	assert.Equal(t, 4, res.DF)
}

func TestPairedTKnownValues(t *testing.T) {
	a := []float64{5, 6, 7, 8, 9}
	b := []float64{4, 4, 6, 7, 7}

	for _, m := range []dist.Method{dist.MethodLegacy, dist.MethodExact} {
		res, err := PairedT(a, b, Options{Alpha: 0.05, Method: m})
		require.NoError(t, err)

		assert.InDelta(t, 1.4, res.MeanDiff.Float64(), 1e-12)
		assert.InDelta(t, math.Sqrt(0.3), res.StdDiff.Float64(), 1e-12)
		assert.InDelta(t, 1.4/(math.Sqrt(0.3)/math.Sqrt(5)), res.T.Float64(), 1e-9)
		assert.InDelta(t, 1.4/math.Sqrt(0.3), res.CohensD.Float64(), 1e-9)
		assert.True(t, res.Significant)
		assert.Equal(t, string(m), res.Method)
		assert.Less(t, res.ReferenceDrift(), 1e-3, "method=%s", m)
	}

	exact, err := PairedT(a, b, Options{Alpha: 0.05, Method: dist.MethodExact})
	require.NoError(t, err)
	assert.InDelta(t, exact.ReferenceP.Float64(), exact.PValue.Float64(), 1e-6)
}

func TestPairedTDirection(t *testing.T) {
	a := []float64{3, 4, 5, 4}
	b := []float64{2, 2, 4, 4}

	forward, err := PairedT(a, b, DefaultOptions())
	require.NoError(t, err)
	backward, err := PairedT(b, a, DefaultOptions())
	require.NoError(t, err)

	assert.InDelta(t, -forward.T.Float64(), backward.T.Float64(), 1e-12)
	assert.InDelta(t, forward.PValue.Float64(), backward.PValue.Float64(), 1e-12)
}

func TestPairedTConstantShift(t *testing.T) {
	res, err := PairedT([]float64{2, 3, 4}, []float64{1, 2, 3}, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, math.IsInf(res.T.Float64(), 1))
	assert.Equal(t, 0.0, res.PValue.Float64())
	assert.Equal(t, 0.0, res.ReferenceP.Float64())
	assert.True(t, res.Significant)
}

func TestPairedTContractViolations(t *testing.T) {
	_, err := PairedT([]float64{1, 2}, []float64{1}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrLengthMismatch)

	_, err = PairedT(nil, nil, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}

func TestPairedTSinglePair(t *testing.T) {
	res, err := PairedT([]float64{4}, []float64{2}, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, res.StdDiff.IsNaN())
	assert.True(t, res.PValue.IsNaN())
	assert.False(t, res.Significant)
}
