package chart

import (
	"math"

	"github.com/wandb/leetchart/internal/surface"
)

const (
	tooltipOffset = 25
	tooltipMargin = 5
	tooltipPad    = 4
)

// Tooltip shows the values under the pointer.
type Tooltip struct {
	dirty
	opts   TooltipOptions
	st     *state
	layer  surface.Layer
	labels *labelFormatter

	shown bool
	px    int
}

var _ Component[TooltipOptions] = (*Tooltip)(nil)

func newTooltip(st *state, layer surface.Layer, labels *labelFormatter, opts TooltipOptions) *Tooltip {
	return &Tooltip{opts: opts, st: st, layer: layer, labels: labels}
}

// Show places the tooltip at pixel column px.
func (t *Tooltip) Show(px int) {
	if t.shown && t.px == px {
		return
	}
	t.shown, t.px = true, px
	t.markDirty()
}

func (t *Tooltip) Hide() {
	if !t.shown {
		return
	}
	t.shown = false
	t.markDirty()
}

// Index returns the hovered sample index.
func (t *Tooltip) Index() (int, bool) {
	if !t.shown {
		return 0, false
	}
	first, last := t.st.window.Indices(t.st.n())
	if first > last {
		return 0, false
	}
	i := int(math.Floor(t.st.window.Start + t.st.transform.Index(t.px) + 0.5))
	return max(first, min(i, last)), true
}

func (t *Tooltip) ApplyOptions(opts TooltipOptions) {
	t.opts = opts
	t.markDirty()
}

func (t *Tooltip) Redraw() {
	t.layer.Clear()
	if !t.opts.Display {
		return
	}
	idx, ok := t.Index()
	if !ok {
		return
	}

	tr := t.st.transform
	in := tr.Insets()
	x := tr.X(float64(idx) - t.st.window.Start)
	_, textH := t.layer.MeasureText("0")

	t.layer.Save()
	defer t.layer.Restore()

	t.layer.SetStrokeColor(optColor(t.opts.Color))
	t.layer.SetLineWidth(1)
	t.layer.Line(x, in.Top, x, t.st.height-in.Bottom)

	type row struct {
		text   string
		series *Series
	}
	rows := []row{{text: t.labels.format(t.st.labels[idx], TooltipDateLayout)}}
	r := max(textH/3, 1)
	t.layer.SetFillColor(optColor(t.opts.BackgroundColor))
	for _, s := range t.st.series {
		v := s.Values[idx]
		if !s.Visible || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		t.layer.SetStrokeColor(s.Color)
		t.layer.Circle(x, tr.Y(v), r)
		rows = append(rows, row{text: FormatValue(v) + " " + s.Name, series: s})
	}

	boxW := 0
	for _, rw := range rows {
		w, _ := t.layer.MeasureText(rw.text)
		boxW = max(boxW, w)
	}
	boxW += 2 * tooltipPad
	boxH := len(rows)*(textH+tooltipPad) + tooltipPad
	boxX := max(tooltipMargin, min(x-tooltipOffset, t.st.width-boxW-tooltipMargin))
	boxY := in.Top

	t.layer.SetFillColor(optColor(t.opts.BackgroundColor))
	t.layer.FillRect(boxX, boxY, boxW, boxH)
	t.layer.SetStrokeColor(optColor(t.opts.Color))
	t.layer.StrokeRect(boxX, boxY, boxW, boxH)

	y := boxY + tooltipPad
	for _, rw := range rows {
		y += textH
		if rw.series != nil {
			t.layer.SetFillColor(rw.series.Color)
		} else {
			t.layer.SetFillColor(optColor(t.opts.TextColor))
		}
		t.layer.Text(boxX+tooltipPad, y, rw.text, surface.AlignLeft)
		y += tooltipPad
	}
}
