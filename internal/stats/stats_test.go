package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3, 4}), 1e-9)
}

func TestVarianceAndStdDev(t *testing.T) {
	assert.Equal(t, 0.0, Variance([]float64{5}))
	assert.InDelta(t, 2.5, Variance([]float64{1, 2, 3, 4, 5}), 1e-9)
	assert.InDelta(t, 1.5811388, StdDev([]float64{1, 2, 3, 4, 5}), 1e-6)
}

func TestMinMax(t *testing.T) {
	vals := []float64{3, -1, 7, 2}
	assert.Equal(t, -1.0, Min(vals))
	assert.Equal(t, 7.0, Max(vals))
	assert.Equal(t, 0.0, Min(nil))
}

func TestQuantile(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	assert.InDelta(t, 1.0, Quantile(vals, 0), 1e-9)
	assert.InDelta(t, 3.0, Quantile(vals, 0.5), 1e-9)
	assert.InDelta(t, 5.0, Quantile(vals, 1), 1e-9)
	assert.InDelta(t, 2.0, Quantile(vals, 0.25), 1e-9)
}

func TestMedianInterpolates(t *testing.T) {
	assert.InDelta(t, 2.5, Median([]float64{1, 2, 3, 4}), 1e-9)
}

func TestPercentile(t *testing.T) {
	vals := []float64{10, 20, 30, 40, 50}
	assert.InDelta(t, 30.0, Percentile(vals, 50), 1e-9)
	assert.InDelta(t, 48.0, Percentile(vals, 95), 1e-9)
}
