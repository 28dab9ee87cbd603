// Package surface defines the drawing target charts render onto.
//
// A Surface is a stack of named layers sized in pixels. Layers are drawn
// independently and composed bottom to top by the backend. Every layer
// carries its own paint state; Save and Restore scope changes to it.
package surface

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrInvalidSize is returned for surfaces that cannot hold any pixel.
var ErrInvalidSize = errors.New("surface: width and height must be positive")

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Layer is one independently cleared drawing plane.
type Layer interface {
	Name() string

	Clear()
	ClearRect(x, y, w, h int)

	Save()
	Restore()
	SetAlpha(alpha float64)
	SetStrokeColor(c colorful.Color)
	SetFillColor(c colorful.Color)
	SetLineWidth(w float64)

	Line(x0, y0, x1, y1 int)
	Polyline(points []Point)
	// Circle fills with the fill color and outlines with the stroke color.
	Circle(x, y, r int)
	FillRect(x, y, w, h int)
	StrokeRect(x, y, w, h int)
	// Text draws s with its baseline at y, filled with the fill color.
	Text(x, y int, s string, align Align)
	MeasureText(s string) (w, h int)
}

// Surface creates and composes layers.
type Surface interface {
	Width() int
	Height() int

	// NewLayer appends a layer on top of the existing ones.
	NewLayer(name string) Layer
	Layers() []Layer

	// Derive returns an empty surface of the same kind and background.
	Derive(width, height int) (Surface, error)
}

// CheckSize validates surface dimensions.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	return nil
}

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(s string) (colorful.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("surface: invalid color %q: %v", s, err)
	}
	return c, nil
}

// MustParseColor is ParseColor for literals.
func MustParseColor(s string) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Blend mixes fg over bg at the given opacity.
func Blend(bg, fg colorful.Color, alpha float64) colorful.Color {
	return bg.BlendRgb(fg, clamp01(alpha)).Clamped()
}
