package surface

import "github.com/lucasb-eyer/go-colorful"

// Paint is the drawing state applied to layer operations.
type Paint struct {
	Alpha     float64
	Stroke    colorful.Color
	Fill      colorful.Color
	LineWidth float64
}

// DefaultPaint is opaque black with a one pixel line.
func DefaultPaint() Paint {
	return Paint{Alpha: 1, LineWidth: 1}
}

// PaintStack implements the state half of Layer for backends to embed.
type PaintStack struct {
	cur   Paint
	saved []Paint
}

func NewPaintStack() PaintStack {
	return PaintStack{cur: DefaultPaint()}
}

func (p *PaintStack) Paint() Paint { return p.cur }

func (p *PaintStack) Save() {
	p.saved = append(p.saved, p.cur)
}

// Restore pops the last saved state. Unbalanced calls reset to defaults.
func (p *PaintStack) Restore() {
	if len(p.saved) == 0 {
		p.cur = DefaultPaint()
		return
	}
	p.cur = p.saved[len(p.saved)-1]
	p.saved = p.saved[:len(p.saved)-1]
}

// SetAlpha replaces the alpha, clamped to [0, 1].
func (p *PaintStack) SetAlpha(alpha float64) {
	p.cur.Alpha = clamp01(alpha)
}

func (p *PaintStack) SetStrokeColor(c colorful.Color) { p.cur.Stroke = c }
func (p *PaintStack) SetFillColor(c colorful.Color)   { p.cur.Fill = c }

func (p *PaintStack) SetLineWidth(w float64) {
	if w > 0 {
		p.cur.LineWidth = w
	}
}

func clamp01(v float64) float64 {
	switch {
	case v != v || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
