// Package viewport maps chart data coordinates onto surface pixels.
package viewport

import "math"

// Insets is the padding between the surface edge and the plot area.
type Insets struct {
	Top, Right, Bottom, Left int
}

// Transform converts (index, value) pairs into pixel positions.
//
// Index is measured from the start of the visible window. The ratios are
// pixels per index and pixels per value unit; they start at 1 and are only
// replaced by finite positive values.
type Transform struct {
	width, height int
	insets        Insets

	xRatio, yRatio float64
}

// New returns a transform for a surface of the given size.
func New(width, height int, insets Insets) *Transform {
	return &Transform{
		width:  width,
		height: height,
		insets: insets,
		xRatio: 1,
		yRatio: 1,
	}
}

// Configure recomputes both ratios for a visible range and surface size.
//
// A zero or non-finite maximum leaves the corresponding ratio unchanged.
func (t *Transform) Configure(
	visibleMaxIndex, visibleMaxValue float64,
	width, height int,
	insets Insets,
) {
	t.width, t.height, t.insets = width, height, insets
	if r, ok := t.ComputeXRatio(visibleMaxIndex); ok {
		t.xRatio = r
	}
	if r, ok := t.ComputeYRatio(visibleMaxValue); ok {
		t.yRatio = r
	}
}

// ComputeXRatio returns the horizontal ratio for a visible index span
// without applying it.
func (t *Transform) ComputeXRatio(visibleMaxIndex float64) (float64, bool) {
	return ratio(t.PlotWidth(), visibleMaxIndex)
}

// ComputeYRatio returns the vertical ratio for a maximum value without
// applying it.
func (t *Transform) ComputeYRatio(visibleMaxValue float64) (float64, bool) {
	return ratio(t.PlotHeight(), visibleMaxValue)
}

func ratio(pixels int, span float64) (float64, bool) {
	if span == 0 || !isFinite(span) {
		return 0, false
	}
	r := float64(pixels) / span
	if !isFinite(r) {
		return 0, false
	}
	return r, true
}

// SetRatios overrides the ratios, typically with interpolated values during
// an animation. Non-finite values are ignored.
func (t *Transform) SetRatios(xRatio, yRatio float64) {
	if isFinite(xRatio) {
		t.xRatio = xRatio
	}
	if isFinite(yRatio) {
		t.yRatio = yRatio
	}
}

// XRatio and YRatio are the pixels per index and per value unit
// currently in use, which may be mid-animation.
func (t *Transform) XRatio() float64 { return t.xRatio }
func (t *Transform) YRatio() float64 { return t.yRatio }

// Width, Height and Insets are the last configured geometry; PlotWidth and
// PlotHeight are the area left inside the insets.
func (t *Transform) Width() int      { return t.width }
func (t *Transform) Height() int     { return t.height }
func (t *Transform) Insets() Insets  { return t.insets }
func (t *Transform) PlotWidth() int  { return t.width - t.insets.Left - t.insets.Right }
func (t *Transform) PlotHeight() int { return t.height - t.insets.Top - t.insets.Bottom }

// ToPixel maps a data point to pixel coordinates.
func (t *Transform) ToPixel(index, value float64) (px, py int) {
	return t.X(index), t.Y(value)
}

// X maps an index offset to a horizontal pixel.
func (t *Transform) X(index float64) int {
	return roundHalfUp(index*t.xRatio) + t.insets.Left
}

// Y maps a value to a vertical pixel.
func (t *Transform) Y(value float64) int {
	return roundHalfUp(float64(t.height)-value*t.yRatio) - t.insets.Bottom
}

// Index maps a horizontal pixel back to an index offset.
func (t *Transform) Index(px int) float64 {
	if t.xRatio == 0 {
		return 0
	}
	return float64(px-t.insets.Left) / t.xRatio
}

// roundHalfUp rounds to the nearest integer with halves going up, so
// -2.5 becomes -2 and 2.5 becomes 3.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
