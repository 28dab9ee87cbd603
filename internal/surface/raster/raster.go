// Package raster renders surfaces into RGBA images with gg.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/wandb/leetchart/internal/surface"
)

// Surface is an in-memory image with one transparent gg context per layer.
type Surface struct {
	width, height int
	background    colorful.Color
	layers        []*Layer
}

var _ surface.Surface = (*Surface)(nil)

func New(width, height int, background colorful.Color) (*Surface, error) {
	if err := surface.CheckSize(width, height); err != nil {
		return nil, err
	}
	return &Surface{width: width, height: height, background: background}, nil
}

func (s *Surface) Width() int  { return s.width }
func (s *Surface) Height() int { return s.height }

func (s *Surface) SetBackground(c colorful.Color) { s.background = c }

func (s *Surface) NewLayer(name string) surface.Layer {
	l := &Layer{
		PaintStack: surface.NewPaintStack(),
		name:       name,
		dc:         gg.NewContext(s.width, s.height),
	}
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
	return New(width, height, s.background)
}

// Image composes every layer over the background.
func (s *Surface) Image() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, s.width, s.height))
	draw.Draw(out, out.Bounds(), image.NewUniform(s.background), image.Point{}, draw.Src)
	for _, l := range s.layers {
		draw.Draw(out, out.Bounds(), l.dc.Image(), image.Point{}, draw.Over)
	}
	return out
}

// WritePNG encodes the composed image.
func (s *Surface) WritePNG(w io.Writer) error {
	return gg.NewContextForRGBA(s.Image()).EncodePNG(w)
}

// Stack places surfaces top to bottom into one image of the widest width.
func Stack(surfaces ...*Surface) *image.RGBA {
	width, height := 0, 0
	for _, s := range surfaces {
		width = max(width, s.width)
		height += s.height
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	y := 0
	for _, s := range surfaces {
		img := s.Image()
		r := image.Rect(0, y, s.width, y+s.height)
		draw.Draw(out, r, img, image.Point{}, draw.Src)
		y += s.height
	}
	return out
}

// WriteStackedPNG encodes Stack(surfaces...) to w.
func WriteStackedPNG(w io.Writer, surfaces ...*Surface) error {
	return gg.NewContextForRGBA(Stack(surfaces...)).EncodePNG(w)
}

// Layer draws onto its own transparent image.
type Layer struct {
	surface.PaintStack
	name string
	dc   *gg.Context
}

func (l *Layer) Name() string { return l.name }

// Image returns the layer's pixels.
func (l *Layer) Image() image.Image { return l.dc.Image() }

func (l *Layer) Clear() {
	l.dc.SetColor(color.Transparent)
	l.dc.Clear()
}

func (l *Layer) ClearRect(x, y, w, h int) {
	rgba, ok := l.dc.Image().(*image.RGBA)
	if !ok {
		return
	}
	draw.Draw(rgba, image.Rect(x, y, x+w, y+h), image.Transparent, image.Point{}, draw.Src)
}

func (l *Layer) Line(x0, y0, x1, y1 int) {
	l.stroke(func() {
		l.dc.DrawLine(float64(x0), float64(y0), float64(x1), float64(y1))
	})
}

func (l *Layer) Polyline(points []surface.Point) {
	if len(points) == 0 {
		return
	}
	l.stroke(func() {
		l.dc.MoveTo(float64(points[0].X), float64(points[0].Y))
		for _, p := range points[1:] {
			l.dc.LineTo(float64(p.X), float64(p.Y))
		}
	})
}

func (l *Layer) Circle(x, y, r int) {
	l.dc.Push()
	defer l.dc.Pop()
	paint := l.Paint()
	l.dc.DrawCircle(float64(x), float64(y), float64(r))
	l.dc.SetColor(withAlpha(paint.Fill, paint.Alpha))
	l.dc.FillPreserve()
	l.dc.SetColor(withAlpha(paint.Stroke, paint.Alpha))
	l.dc.SetLineWidth(paint.LineWidth)
	l.dc.Stroke()
}

func (l *Layer) FillRect(x, y, w, h int) {
	l.dc.Push()
	defer l.dc.Pop()
	paint := l.Paint()
	l.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	l.dc.SetColor(withAlpha(paint.Fill, paint.Alpha))
	l.dc.Fill()
}

func (l *Layer) StrokeRect(x, y, w, h int) {
	l.stroke(func() {
		l.dc.DrawRectangle(float64(x)+0.5, float64(y)+0.5, float64(w-1), float64(h-1))
	})
}

func (l *Layer) Text(x, y int, s string, align surface.Align) {
	l.dc.Push()
	defer l.dc.Pop()
	paint := l.Paint()
	ax := 0.0
	switch align {
	case surface.AlignCenter:
		ax = 0.5
	case surface.AlignRight:
		ax = 1
	}
	l.dc.SetColor(withAlpha(paint.Fill, paint.Alpha))
	l.dc.DrawStringAnchored(s, float64(x), float64(y), ax, 0)
}

func (l *Layer) MeasureText(s string) (int, int) {
	w, h := l.dc.MeasureString(s)
	return int(w + 0.5), int(h + 0.5)
}

func (l *Layer) stroke(path func()) {
	l.dc.Push()
	defer l.dc.Pop()
	paint := l.Paint()
	path()
	l.dc.SetColor(withAlpha(paint.Stroke, paint.Alpha))
	l.dc.SetLineWidth(paint.LineWidth)
	l.dc.Stroke()
}

func withAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha*255 + 0.5)}
}
