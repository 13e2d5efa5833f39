package features

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailingMean(t *testing.T) {
	tests := []struct {
		name   string
		prior  []float64
		window int
		want   float64
		ok     bool
	}{
		{"exact window", []float64{10, 20, 30}, 3, 20, true},
		{"uses last window values", []float64{100, 10, 20, 30}, 3, 20, true},
		{"short window missing", []float64{10, 20}, 3, 0, false},
		{"empty prior", nil, 1, 0, false},
		{"window of one", []float64{5, 7}, 1, 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := trailingMean(tt.prior, tt.window)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestTrailingStdDevIsSample(t *testing.T) {
	// Sample std of {2, 4, 6}: mean 4, squared deviations sum 8, n-1 = 2.
	got, ok := trailingStdDev([]float64{2, 4, 6}, 3)
	require.True(t, ok)
	assert.InDelta(t, math.Sqrt(4), got, 1e-12)

	// The population estimator would give sqrt(8/3); make sure we are not
	// silently using it.
	assert.Greater(t, math.Abs(got-math.Sqrt(8.0/3.0)), 1e-6)
}

func TestTrailingStdDevWindows(t *testing.T) {
	_, ok := trailingStdDev([]float64{1, 2}, 3)
	assert.False(t, ok, "short window")

	_, ok = trailingStdDev([]float64{1, 2, 3}, 1)
	assert.False(t, ok, "std undefined below two observations")

	got, ok := trailingStdDev([]float64{9, 9, 9, 9}, 4)
	require.True(t, ok)
	assert.Zero(t, got)
}

func TestTrailingRatioOfSumsDiffersFromMeanOfRatios(t *testing.T) {
	// Three games with unequal minutes: 20 pts / 40 min, 10 / 20, 30 / 20.
	pts := []float64{20, 10, 30}
	min := []float64{40, 20, 20}

	got, ok := trailingRatioOfSums(pts, min, 3)
	require.True(t, ok)

	// Ratio of sums: 60 / 80 = 0.75.
	assert.InDelta(t, 0.75, got, 1e-12)

	// Mean of per-game ratios: (0.5 + 0.5 + 1.5) / 3 = 0.8333...
	meanOfRatios := (20.0/40 + 10.0/20 + 30.0/20) / 3
	assert.InDelta(t, 0.25/3, meanOfRatios-got, 1e-12)
}

func TestTrailingRatioOfSumsZeroDenominator(t *testing.T) {
	_, ok := trailingRatioOfSums([]float64{0, 0}, []float64{0, 0}, 2)
	assert.False(t, ok)
}

func TestTrailingRatioOfSumsShortWindow(t *testing.T) {
	_, ok := trailingRatioOfSums([]float64{1}, []float64{2}, 2)
	assert.False(t, ok)
}
