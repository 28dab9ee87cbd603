package chart

import (
	"github.com/wandb/leetchart/internal/surface"
)

// Legend lists the series in a strip above the plot. Clicking an entry
// toggles its series.
type Legend struct {
	dirty
	opts  LegendOptions
	st    *state
	layer surface.Layer
	top   int
	left  int

	hits []legendHit
}

var _ Component[LegendOptions] = (*Legend)(nil)

type legendHit struct {
	id         int
	x, y, w, h int
}

func newLegend(st *state, layer surface.Layer, o Options) *Legend {
	l := &Legend{opts: o.Legend, st: st, layer: layer}
	l.place(o)
	l.markDirty()
	return l
}

// place positions the strip from the chart's outer insets.
func (l *Legend) place(o Options) {
	l.top, l.left = o.Insets.Top, o.Insets.Left
}

// HitTest returns the series whose entry contains (x, y).
func (l *Legend) HitTest(x, y int) (int, bool) {
	if !l.opts.Display {
		return 0, false
	}
	for _, h := range l.hits {
		if x >= h.x && x < h.x+h.w && y >= h.y && y < h.y+h.h {
			return h.id, true
		}
	}
	return 0, false
}

func (l *Legend) ApplyOptions(opts LegendOptions) {
	l.opts = opts
	l.markDirty()
}

func (l *Legend) Redraw() {
	l.layer.Clear()
	l.hits = l.hits[:0]
	if !l.opts.Display {
		return
	}

	gap, textH := l.layer.MeasureText("  ")
	baseline := l.top + (l.opts.Height+textH)/2
	swatch := max(textH-2, 2)
	x := l.left

	l.layer.Save()
	defer l.layer.Restore()
	l.layer.SetLineWidth(1)
	for _, s := range l.st.series {
		w, _ := l.layer.MeasureText(s.Name)
		entryX := x
		sy := baseline - swatch
		if s.Visible {
			l.layer.SetFillColor(s.Color)
			l.layer.FillRect(x, sy, swatch, swatch)
		} else {
			l.layer.SetStrokeColor(optColor(l.opts.BorderColor))
			l.layer.StrokeRect(x, sy, swatch, swatch)
		}
		x += swatch + gap/2

		l.layer.SetFillColor(optColor(l.opts.TextColor))
		l.layer.Text(x, baseline, s.Name, surface.AlignLeft)
		x += w

		l.hits = append(l.hits, legendHit{
			id: s.ID,
			x:  entryX,
			y:  l.top,
			w:  x - entryX,
			h:  l.opts.Height,
		})
		x += gap
	}
}
