package hypothesis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vrsurvey/domain/core"
)

func TestWilcoxonAllPositiveSmallSample(t *testing.T) {
	// The zero difference is dropped, leaving n=4: W=0 is as extreme as
	// the statistic gets, but the normal approximation cannot reach 0.05.
	a := []float64{5, 4, 3, 2, 1}
	b := []float64{1, 1, 1, 1, 1}

	res, err := Wilcoxon(a, b, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 4, res.N)
	assert.Equal(t, 1, res.Discarded)
	assert.Equal(t, 10.0, res.WPlus.Float64())
	assert.Equal(t, 0.0, res.WMinus.Float64())
	assert.Equal(t, 0.0, res.W.Float64())
	assert.Equal(t, 5.0, res.Mu.Float64())
	assert.InDelta(t, math.Sqrt(7.5), res.Sigma.Float64(), 1e-12)
	assert.InDelta(t, -5/math.Sqrt(7.5), res.Z.Float64(), 1e-12)
	assert.InDelta(t, 0.0679, res.PValue.Float64(), 1e-3)
	assert.False(t, res.Significant)
}

func TestWilcoxonAllPositiveLargeSample(t *testing.T) {
	a := make([]float64, 12)
	b := make([]float64, 12)
	for i := range a {
		a[i] = float64(i + 1)
	}

	res, err := Wilcoxon(a, b, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.W.Float64())
	assert.Equal(t, 78.0, res.WPlus.Float64())
	assert.Equal(t, 39.0, res.Mu.Float64())
	assert.InDelta(t, 0.0022, res.PValue.Float64(), 2e-4)
	assert.True(t, res.Significant)
	assert.Equal(t, res.W, res.WMinus)
}

func TestWilcoxonTiesShareAverageRank(t *testing.T) {
	res, err := Wilcoxon([]float64{2, 3, 1, 7}, []float64{1, 2, 3, 4}, DefaultOptions())
	require.NoError(t, err)

	// |d| = 1, 1, 2, 3 -> ranks 1.5, 1.5, 3, 4
	assert.Equal(t, 7.0, res.WPlus.Float64())
	assert.Equal(t, 3.0, res.WMinus.Float64())
	assert.Equal(t, 3.0, res.W.Float64())
}

func TestSignedRanksToleratesRoundingNoise(t *testing.T) {
	ranks := signedRanks([]float64{0.1 + 0.2, 0.3, -0.5})
	assert.Equal(t, []float64{1.5, 1.5, 3}, ranks)
}

func TestWilcoxonAllZeroDifferences(t *testing.T) {
	a := []float64{3, 3, 4}

	_, err := Wilcoxon(a, a, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoNonZeroDifferences)
	assert.True(t, IsDegenerate(err))
}

func TestWilcoxonContractViolations(t *testing.T) {
	_, err := Wilcoxon([]float64{1}, []float64{1, 2}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
	assert.False(t, IsDegenerate(err))

	_, err = Wilcoxon([]float64{}, []float64{}, DefaultOptions())
	assert.ErrorIs(t, err, core.ErrEmptyInput)
}
