package chart

import (
	"math"

	"github.com/samber/lo"

	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/nicescale"
	"github.com/wandb/leetchart/internal/surface"
)

// XAxis draws date labels under the plot.
//
// The tick set depends only on the tick spacing, so panning keeps the same
// ticks and only zooming fades between sets.
type XAxis struct {
	dirty
	opts   AxisOptions
	st     *state
	layer  surface.Layer
	labels *labelFormatter
	ticks  ticker[int]
}

var _ Component[AxisOptions] = (*XAxis)(nil)

func newXAxis(
	st *state,
	layer surface.Layer,
	loop *anim.Loop,
	labels *labelFormatter,
	opts AxisOptions,
) *XAxis {
	a := &XAxis{opts: opts, st: st, layer: layer, labels: labels}
	a.ticks = ticker[int]{
		sched:   loop.NewScheduler(opts.Animation),
		changed: a.markDirty,
	}
	a.ticks.reset(a.tickSet())
	return a
}

// xTickSpacing returns the label index spacing for a window.
func xTickSpacing(w Window, totalTicks int) float64 {
	q := nicescale.Quantize(0, w.Span(), totalTicks, nicescale.IndexFractions)
	return math.Max(q.Spacing, 1)
}

// xTickIndices places ticks at the centers of the spacing intervals.
func xTickIndices(n int, spacing float64) []int {
	var ticks []int
	for i := 0.5; i < float64(n)/spacing; i++ {
		ticks = append(ticks, int(math.Floor(i*spacing)))
	}
	return lo.Uniq(ticks)
}

func (a *XAxis) tickSet() []int {
	return xTickIndices(a.st.n(), xTickSpacing(a.st.window, a.opts.TotalTicks))
}

// update reacts to a window change.
func (a *XAxis) update() {
	a.ticks.set(a.tickSet())
}

func (a *XAxis) reset() {
	a.ticks.reset(a.tickSet())
}

func (a *XAxis) Transitioning() bool {
	return a.ticks.sched.Running()
}

// Ticks returns the committed tick indices.
func (a *XAxis) Ticks() []int {
	return a.ticks.committed
}

func (a *XAxis) ApplyOptions(opts AxisOptions) {
	a.opts = opts
	a.ticks.sched.SetDuration(opts.Animation)
	a.markDirty()
}

func (a *XAxis) Redraw() {
	a.layer.Clear()
	if !a.opts.Display || a.st.n() == 0 {
		return
	}

	_, textH := a.layer.MeasureText("0")
	in := a.st.transform.Insets()
	h := a.st.height
	y := min(h-in.Bottom+textH+3, h-1)
	start := a.st.window.Start

	a.layer.Save()
	defer a.layer.Restore()
	a.layer.SetFillColor(optColor(a.opts.Color))
	a.ticks.each(func(idx int, alpha float64) {
		if idx < 0 || idx >= a.st.n() || alpha <= 0 {
			return
		}
		x := a.st.transform.X(float64(idx) - start)
		if x < 0 || x > a.st.width {
			return
		}
		a.layer.SetAlpha(alpha)
		a.layer.Text(x, y, a.labels.format(a.st.labels[idx], AxisDateLayout), surface.AlignCenter)
	})
}
