package calculation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 1.8, Percentile(data, 0.20), 1e-12)
	assert.Equal(t, 3.0, Percentile(data, 0.50))
	assert.InDelta(t, 4.2, Percentile(data, 0.80), 1e-12)
	assert.Equal(t, 1.0, Percentile(data, 0))
	assert.Equal(t, 5.0, Percentile(data, 1))

	assert.Equal(t, 7.0, Percentile([]float64{7}, 0.8))
	assert.Zero(t, Percentile(nil, 0.5))
}

func TestShareAtLeast(t *testing.T) {
	data := []float64{1, 2, 2, 3}

	assert.Equal(t, 0.75, ShareAtLeast(data, 2))
	assert.Equal(t, 0.25, ShareAtLeast(data, 2.5))
	assert.Equal(t, 1.0, ShareAtLeast(data, 0))
	assert.Zero(t, ShareAtLeast(data, 10))
	assert.Zero(t, ShareAtLeast(nil, 1))
}
