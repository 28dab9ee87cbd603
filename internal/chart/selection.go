package chart

import (
	"math"

	"github.com/wandb/leetchart/internal/surface"
)

// MinSelectionFraction is the smallest selection, as a share of the track.
const MinSelectionFraction = 0.05

//go:generate go run go.uber.org/mock/mockgen -destination=charttest/rangetarget.go -package=charttest . RangeTarget

// RangeTarget receives the windows a selection produces.
type RangeTarget interface {
	SetVisibleRange(start, end float64) error
}

// DragMode is the state of a selection gesture.
type DragMode int

const (
	DragNone DragMode = iota
	DragResizeLeft
	DragResizeRight
	DragMove
)

func (m DragMode) String() string {
	switch m {
	case DragResizeLeft:
		return "resize-left"
	case DragResizeRight:
		return "resize-right"
	case DragMove:
		return "move"
	default:
		return "none"
	}
}

// Cursor is the pointer affordance over a chart.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorResize
	CursorGrab
	CursorPointer
)

// Selection is the draggable band that picks the target's window.
//
// Edges are kept in pixels on a track spanning the surface width minus one
// border on each side. Pixel positions map to label indices with
// index = round((pixel - borderMin) * n / trackWidth).
type Selection struct {
	dirty
	opts   SelectionOptions
	st     *state
	layer  surface.Layer
	target RangeTarget
	onErr  func(error)

	mode        DragMode
	anchor      float64
	left, right float64
	startLeft   float64
	startRight  float64

	synced     Window
	last       [2]int
	dispatched bool
}

var _ Component[SelectionOptions] = (*Selection)(nil)

func newSelection(
	st *state,
	layer surface.Layer,
	target RangeTarget,
	opts SelectionOptions,
	onErr func(error),
) *Selection {
	s := &Selection{opts: opts, st: st, layer: layer, target: target, onErr: onErr}
	s.syncWindow(Window{Start: 0, End: float64(max(st.n()-1, 0))})
	s.markDirty()
	return s
}

func (s *Selection) borderMin() float64 { return float64(s.opts.BorderWidth) }
func (s *Selection) borderMax() float64 { return float64(s.st.width - s.opts.BorderWidth) }

// TrackWidth is the pixel width edges can move over.
func (s *Selection) TrackWidth() float64 { return s.borderMax() - s.borderMin() }

// MinWidth is the smallest distance between the edges.
func (s *Selection) MinWidth() float64 { return MinSelectionFraction * s.TrackWidth() }

// Edges returns the left and right edge pixels.
func (s *Selection) Edges() (left, right float64) { return s.left, s.right }

// Mode returns the current gesture.
func (s *Selection) Mode() DragMode { return s.mode }

// syncWindow moves the band to w. It is ignored during a gesture.
//
// The target's window now comes from elsewhere, so the next gesture
// dispatches even a pair equal to the last one this selection sent.
func (s *Selection) syncWindow(w Window) {
	if s.mode != DragNone {
		return
	}
	s.synced = w
	s.dispatched = false
	n := s.st.n()
	bmin, bmax, track := s.borderMin(), s.borderMax(), s.TrackWidth()
	left, right := bmin, bmax
	if n > 0 {
		left = bmin + w.Start*track/float64(n)
		if w.End < float64(n-1) {
			right = bmin + w.End*track/float64(n)
		}
	}
	if right-left < s.MinWidth() {
		right = math.Min(left+s.MinWidth(), bmax)
		left = math.Max(right-s.MinWidth(), bmin)
	}
	if left == s.left && right == s.right {
		return
	}
	s.left, s.right = left, right
	s.markDirty()
}

func (s *Selection) classify(x float64) DragMode {
	b := float64(s.opts.BorderWidth)
	switch {
	case math.Abs(x-s.left) <= b:
		return DragResizeLeft
	case math.Abs(x-s.right) <= b:
		return DragResizeRight
	case x > s.left && x < s.right:
		return DragMove
	default:
		return DragNone
	}
}

// PointerDown starts a gesture and reports whether x was captured.
func (s *Selection) PointerDown(x int) bool {
	if !s.opts.Display {
		return false
	}
	px := float64(x)
	s.mode = s.classify(px)
	if s.mode == DragNone {
		return false
	}
	s.anchor = px
	s.startLeft, s.startRight = s.left, s.right
	s.dispatched = false
	return true
}

// PointerMove updates the active gesture and dispatches the new window.
func (s *Selection) PointerMove(x int) {
	if s.mode == DragNone {
		return
	}
	px := float64(x)
	bmin, bmax, minW := s.borderMin(), s.borderMax(), s.MinWidth()

	switch s.mode {
	case DragResizeLeft:
		s.left = clamp(px, bmin, s.right-minW)
	case DragResizeRight:
		s.right = clamp(px, s.left+minW, bmax)
	case DragMove:
		width := s.startRight - s.startLeft
		left := s.startLeft + px - s.anchor
		right := s.startRight + px - s.anchor
		if left < bmin {
			left, right = bmin, bmin+width
		}
		if right > bmax {
			left, right = bmax-width, bmax
		}
		s.left, s.right = left, right
	}
	s.markDirty()
	s.dispatch()
}

// PointerUp ends the gesture after a final dispatch.
func (s *Selection) PointerUp() {
	if s.mode == DragNone {
		return
	}
	s.dispatch()
	s.mode = DragNone
}

// Cursor returns the affordance for pointer column x.
func (s *Selection) Cursor(x int) Cursor {
	if !s.opts.Display {
		return CursorDefault
	}
	mode := s.mode
	if mode == DragNone {
		mode = s.classify(float64(x))
	}
	switch mode {
	case DragResizeLeft, DragResizeRight:
		return CursorResize
	case DragMove:
		return CursorGrab
	default:
		return CursorDefault
	}
}

// Indices converts the edges into label indices.
func (s *Selection) Indices() (start, end int) {
	n := s.st.n()
	toIndex := func(px float64) int {
		i := int(math.Floor((px-s.borderMin())*float64(n)/s.TrackWidth() + 0.5))
		return max(0, min(i, n-1))
	}
	return toIndex(s.left), toIndex(s.right)
}

func (s *Selection) dispatch() {
	if s.target == nil || s.st.n() == 0 {
		return
	}
	start, end := s.Indices()
	pair := [2]int{start, end}
	if s.dispatched && pair == s.last {
		return
	}
	s.last, s.dispatched = pair, true
	s.synced = Window{Start: float64(start), End: float64(end)}
	if err := s.target.SetVisibleRange(float64(start), float64(end)); err != nil && s.onErr != nil {
		s.onErr(err)
	}
}

// ApplyOptions replaces the options and re-places the band on the last
// window it showed, since the border width moves the track.
func (s *Selection) ApplyOptions(opts SelectionOptions) {
	s.opts = opts
	s.syncWindow(s.synced)
	s.markDirty()
}

func (s *Selection) Redraw() {
	s.layer.Clear()
	if !s.opts.Display {
		return
	}

	w, h := s.st.width, s.st.height
	b := s.opts.BorderWidth
	left := int(math.Round(s.left))
	right := int(math.Round(s.right))

	s.layer.Save()
	defer s.layer.Restore()

	s.layer.Save()
	s.layer.SetAlpha(s.opts.BackgroundAlpha)
	s.layer.SetFillColor(optColor(s.opts.BackgroundColor))
	s.layer.FillRect(0, 0, max(left-b, 0), h)
	s.layer.FillRect(right+b, 0, max(w-right-b, 0), h)
	s.layer.Restore()

	s.layer.SetFillColor(optColor(s.opts.BorderColor))
	s.layer.FillRect(left-b, 0, b, h)
	s.layer.FillRect(right, 0, b, h)
	s.layer.FillRect(left, 0, right-left, 1)
	s.layer.FillRect(left, h-1, right-left, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
