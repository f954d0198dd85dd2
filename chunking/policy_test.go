package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentilePolicy(t *testing.T) {
	tests := []struct {
		name       string
		percentile float64
		signal     []float64
		want       float64
	}{
		{"median of two interpolates", 50, []float64{0, 10}, 5},
		{"exact rank", 50, []float64{1, 2, 3}, 2},
		{"interpolated rank", 85, []float64{0, 0, 0, 0, 1}, 0.4},
		{"unsorted input", 100, []float64{3, 1, 2}, 3},
		{"zeroth percentile", 0, []float64{3, 1, 2}, 1},
		{"single value", 85, []float64{0.7}, 0.7},
		{"empty signal", 85, nil, 0},
		{"clamped above 100", 150, []float64{1, 2}, 2},
		{"clamped below 0", -5, []float64{1, 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PercentilePolicy{Percentile: tt.percentile}
			assert.InDelta(t, tt.want, p.Threshold(tt.signal), 1e-9)
		})
	}
}

func TestStdDevPolicy(t *testing.T) {
	t.Run("flat signal returns mean", func(t *testing.T) {
		p := StdDevPolicy{Multiplier: 2}
		assert.InDelta(t, 0.5, p.Threshold([]float64{0.5, 0.5, 0.5}), 1e-9)
	})

	t.Run("mean plus multiplier stddev", func(t *testing.T) {
		// mean=2, population stddev=sqrt(2/3)
		p := StdDevPolicy{Multiplier: 1}
		assert.InDelta(t, 2.8164965809, p.Threshold([]float64{1, 2, 3}), 1e-6)
	})

	t.Run("empty signal", func(t *testing.T) {
		p := StdDevPolicy{Multiplier: 1}
		assert.Equal(t, 0.0, p.Threshold(nil))
	})
}

func TestAbsolutePolicy(t *testing.T) {
	p := AbsolutePolicy{Value: 0.3}
	assert.Equal(t, 0.3, p.Threshold([]float64{0.9, 0.1}))
	assert.Equal(t, 0.3, p.Threshold(nil))
}

func TestDefaultPolicy(t *testing.T) {
	p, ok := DefaultPolicy().(PercentilePolicy)
	assert.True(t, ok)
	assert.Equal(t, 85.0, p.Percentile)
}
