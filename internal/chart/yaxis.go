package chart

import (
	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/surface"
)

// YAxis draws horizontal gridlines with value labels.
type YAxis struct {
	dirty
	opts  AxisOptions
	st    *state
	layer surface.Layer
	ticks ticker[float64]
}

var _ Component[AxisOptions] = (*YAxis)(nil)

func newYAxis(st *state, layer surface.Layer, loop *anim.Loop, opts AxisOptions) *YAxis {
	a := &YAxis{opts: opts, st: st, layer: layer}
	a.ticks = ticker[float64]{
		sched:   loop.NewScheduler(opts.Animation),
		changed: a.markDirty,
	}
	a.ticks.reset(st.scale.Ticks())
	return a
}

// update fades towards the ticks of a new scale.
func (a *YAxis) update(scale Scale) {
	a.ticks.set(scale.Ticks())
}

func (a *YAxis) reset() {
	a.ticks.reset(a.st.scale.Ticks())
}

func (a *YAxis) Transitioning() bool {
	return a.ticks.sched.Running()
}

// Ticks returns the committed tick values.
func (a *YAxis) Ticks() []float64 {
	return a.ticks.committed
}

func (a *YAxis) ApplyOptions(opts AxisOptions) {
	a.opts = opts
	a.ticks.sched.SetDuration(opts.Animation)
	a.markDirty()
}

func (a *YAxis) Redraw() {
	a.layer.Clear()
	if !a.opts.Display {
		return
	}

	_, textH := a.layer.MeasureText("0")
	in := a.st.transform.Insets()
	right := a.st.width - in.Right
	top := in.Top

	a.layer.Save()
	defer a.layer.Restore()
	a.layer.SetStrokeColor(optColor(a.opts.UnderlineColor))
	a.layer.SetFillColor(optColor(a.opts.Color))
	a.layer.SetLineWidth(1)
	a.ticks.each(func(v float64, alpha float64) {
		y := a.st.transform.Y(v)
		if alpha <= 0 || y < top {
			return
		}
		a.layer.SetAlpha(alpha)
		a.layer.Line(in.Left, y, right, y)
		a.layer.Text(in.Left, y-textH*2/5, FormatValue(v), surface.AlignLeft)
	})
}
