package chart_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wandb/leetchart/internal/chart"
)

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value float64
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{2.5, "2.5"},
		{20, "20"},
		{0.5, "0.5"},
		{0.005, "5m"},
		{1234, "1.2k"},
		{2500000, "2.5M"},
		{-1500, "-1.5k"},
		{math.NaN(), "-"},
		{math.Inf(1), "-"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, chart.FormatValue(tt.value), "%v", tt.value)
	}
}

func TestWindow_Indices(t *testing.T) {
	t.Parallel()

	first, last := chart.Window{Start: 1.5, End: 3.2}.Indices(10)
	assert.Equal(t, [2]int{1, 4}, [2]int{first, last})

	first, last = chart.Window{Start: 0, End: 9}.Indices(5)
	assert.Equal(t, [2]int{0, 4}, [2]int{first, last})

	first, last = chart.Window{}.Indices(0)
	assert.Less(t, last, first)
	assert.Equal(t, 0, chart.Window{}.Len(0))
	assert.Equal(t, 4, chart.Window{Start: 1.5, End: 3.2}.Len(10))
}

func TestScale_Ticks(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{0, 20, 40}, chart.Scale{Max: 40, TickSpacing: 20, TickCount: 3}.Ticks())
	assert.Empty(t, chart.Scale{}.Ticks())
}
