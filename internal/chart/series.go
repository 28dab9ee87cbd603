package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/wandb/leetchart/internal/nicescale"
	"github.com/wandb/leetchart/internal/surface"
)

// seriesPalette colors series that do not specify one.
var seriesPalette = []string{
	"#3cc23f",
	"#f34c44",
	"#E281FE",
	"#4ECDC4",
	"#FBC36B",
	"#45B7D1",
	"#ED9FBB",
	"#F6B784",
	"#1864AB",
	"#FFCF4F",
}

// SeriesSpec is the caller's description of one line.
type SeriesSpec struct {
	Name   string
	Color  string
	Values []float64
}

// Series is one line of the chart. Values are never modified.
type Series struct {
	ID      int
	Name    string
	Color   colorful.Color
	Values  []float64
	Visible bool
}

func newSeries(specs []SeriesSpec, n int) ([]*Series, error) {
	out := make([]*Series, len(specs))
	for i, spec := range specs {
		if len(spec.Values) != n {
			return nil, fmt.Errorf(
				"%w: series %d (%q) has %d values for %d labels",
				ErrInvalidSeries, i, spec.Name, len(spec.Values), n)
		}
		hex := spec.Color
		if hex == "" {
			hex = seriesPalette[i%len(seriesPalette)]
		}
		color, err := surface.ParseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("%w: series %d: %v", ErrInvalidSeries, i, err)
		}
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("y%d", i)
		}
		out[i] = &Series{
			ID:      i,
			Name:    name,
			Color:   color,
			Values:  spec.Values,
			Visible: true,
		}
	}
	return out, nil
}

// MaxIn returns the largest finite value inside w, or 0.
func (s *Series) MaxIn(w Window) float64 {
	first, last := w.Indices(len(s.Values))
	m := 0.0
	for i := first; i <= last; i++ {
		if v := s.Values[i]; v > m && !math.IsInf(v, 1) {
			m = v
		}
	}
	return m
}

// Window is the visible index range. Bounds may be fractional.
type Window struct {
	Start, End float64
}

// Span is the number of index steps between the bounds.
func (w Window) Span() float64 {
	return w.End - w.Start
}

// Indices returns the sample indices needed to draw w over n samples:
// floor(Start) through ceil(End), clamped. last < first when n is 0.
func (w Window) Indices(n int) (first, last int) {
	if n == 0 {
		return 0, -1
	}
	first = max(int(math.Floor(w.Start)), 0)
	last = min(int(math.Ceil(w.End)), n-1)
	return first, last
}

// Len is the number of samples the window covers.
func (w Window) Len(n int) int {
	first, last := w.Indices(n)
	return max(last-first+1, 0)
}

// clampWindow orders and clamps a requested window to [0, n-1].
func clampWindow(start, end float64, n int) Window {
	if n == 0 {
		return Window{}
	}
	hi := float64(n - 1)
	clampOne := func(v, fallback float64) float64 {
		if math.IsNaN(v) {
			return fallback
		}
		return math.Max(0, math.Min(v, hi))
	}
	start, end = clampOne(start, 0), clampOne(end, hi)
	if start > end {
		start, end = end, start
	}
	return Window{Start: start, End: end}
}

// Scale is the shared vertical scale.
type Scale struct {
	Max         float64
	TickSpacing float64
	TickCount   int
}

// Ticks returns 0, TickSpacing, ..., Max.
func (s Scale) Ticks() []float64 {
	ticks := make([]float64, 0, s.TickCount)
	for i := range s.TickCount {
		ticks = append(ticks, float64(i)*s.TickSpacing)
	}
	return ticks
}

// computeScale quantizes the largest visible value in w. It is zero when no
// series is visible or every visible value is at most zero.
func computeScale(series []*Series, w Window, ticks int) Scale {
	raw := 0.0
	for _, s := range series {
		if s.Visible {
			raw = math.Max(raw, s.MaxIn(w))
		}
	}
	q := nicescale.Quantize(0, raw, ticks, nicescale.DefaultFractions)
	if q.Degenerate() {
		return Scale{}
	}
	return Scale{
		Max:         q.High,
		TickSpacing: q.Spacing,
		TickCount:   len(q.Ticks()),
	}
}

// Labels is the shared, read-only timestamp axis.
type Labels []time.Time
