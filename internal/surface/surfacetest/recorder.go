// Package surfacetest provides a surface that records draw calls.
package surfacetest

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"

	"github.com/wandb/leetchart/internal/surface"
)

// Glyph size used by MeasureText.
const (
	GlyphWidth  = 6
	GlyphHeight = 10
)

type OpKind string

const (
	OpLine       OpKind = "line"
	OpPolyline   OpKind = "polyline"
	OpCircle     OpKind = "circle"
	OpFillRect   OpKind = "fillrect"
	OpStrokeRect OpKind = "strokerect"
	OpText       OpKind = "text"
	OpClearRect  OpKind = "clearrect"
)

// Op is one recorded draw call with the paint state it ran under.
type Op struct {
	Kind   OpKind
	Points []surface.Point
	W, H   int
	Text   string
	Align  surface.Align
	Paint  surface.Paint
}

// Surface records draw calls per layer.
type Surface struct {
	width, height int
	layers        []*Layer
}

var _ surface.Surface = (*Surface)(nil)

func New(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

func (s *Surface) NewLayer(name string) surface.Layer {
	l := &Layer{name: name, PaintStack: surface.NewPaintStack()}
	s.layers = append(s.layers, l)
	return l
}

func (s *Surface) Layers() []surface.Layer {
	out := make([]surface.Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = l
	}
	return out
}

func (s *Surface) Derive(width, height int) (surface.Surface, error) {
	if err := surface.CheckSize(width, height); err != nil {
		return nil, err
	}
	return New(width, height), nil
}

// Layer returns the first layer with the given name, or nil.
func (s *Surface) Layer(name string) *Layer {
	i := slices.IndexFunc(s.layers, func(l *Layer) bool { return l.name == name })
	if i < 0 {
		return nil
	}
	return s.layers[i]
}

// Layer records the operations drawn since its last Clear.
type Layer struct {
	surface.PaintStack
	name   string
	ops    []Op
	clears int
}

func (l *Layer) Name() string { return l.name }

// Ops returns the operations recorded since the last Clear.
func (l *Layer) Ops() []Op { return slices.Clone(l.ops) }

// Clears returns how many times Clear was called.
func (l *Layer) Clears() int { return l.clears }

// Texts returns the recorded text operations.
func (l *Layer) Texts() []Op {
	return l.OpsOf(OpText)
}

// OpsOf returns the recorded operations of one kind.
func (l *Layer) OpsOf(kind OpKind) []Op {
	var out []Op
	for _, op := range l.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// TextAlpha returns the alpha a text run was last drawn with.
func (l *Layer) TextAlpha(s string) (float64, bool) {
	for i := len(l.ops) - 1; i >= 0; i-- {
		if l.ops[i].Kind == OpText && l.ops[i].Text == s {
			return l.ops[i].Paint.Alpha, true
		}
	}
	return 0, false
}

func (l *Layer) Clear() {
	l.ops = nil
	l.clears++
}

func (l *Layer) ClearRect(x, y, w, h int) {
	l.record(Op{Kind: OpClearRect, Points: []surface.Point{{X: x, Y: y}}, W: w, H: h})
}

func (l *Layer) Line(x0, y0, x1, y1 int) {
	l.record(Op{Kind: OpLine, Points: []surface.Point{{X: x0, Y: y0}, {X: x1, Y: y1}}})
}

func (l *Layer) Polyline(points []surface.Point) {
	l.record(Op{Kind: OpPolyline, Points: slices.Clone(points)})
}

func (l *Layer) Circle(x, y, r int) {
	l.record(Op{Kind: OpCircle, Points: []surface.Point{{X: x, Y: y}}, W: r, H: r})
}

func (l *Layer) FillRect(x, y, w, h int) {
	l.record(Op{Kind: OpFillRect, Points: []surface.Point{{X: x, Y: y}}, W: w, H: h})
}

func (l *Layer) StrokeRect(x, y, w, h int) {
	l.record(Op{Kind: OpStrokeRect, Points: []surface.Point{{X: x, Y: y}}, W: w, H: h})
}

func (l *Layer) Text(x, y int, s string, align surface.Align) {
	l.record(Op{Kind: OpText, Points: []surface.Point{{X: x, Y: y}}, Text: s, Align: align})
}

func (l *Layer) MeasureText(s string) (int, int) {
	return runewidth.StringWidth(s) * GlyphWidth, GlyphHeight
}

func (l *Layer) record(op Op) {
	op.Paint = l.Paint()
	l.ops = append(l.ops, op)
}

// ColorsEqual compares colors by their hex form.
func ColorsEqual(a, b colorful.Color) bool {
	return a.Hex() == b.Hex()
}
