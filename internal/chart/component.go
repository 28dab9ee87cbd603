package chart

import (
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"

	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/surface"
	"github.com/wandb/leetchart/internal/viewport"
)

// Component is a renderer owned by a Chart.
//
// ApplyOptions replaces the component's options and marks it for redraw.
// Redraw repaints the component's layer from the shared chart state.
type Component[O any] interface {
	ApplyOptions(opts O)
	Redraw()
}

// renderer is the part of a component the controller flushes.
type renderer interface {
	Redraw()
	takeDirty() bool
}

// dirty is embedded by components that redraw lazily.
type dirty struct {
	flag bool
}

func (d *dirty) markDirty() { d.flag = true }

func (d *dirty) takeDirty() bool {
	was := d.flag
	d.flag = false
	return was
}

// state is the chart-level state shared read-only with the components.
// Only the Chart writes it.
type state struct {
	labels    Labels
	series    []*Series
	window    Window
	scale     Scale
	transform *viewport.Transform
	width     int
	height    int
}

func (s *state) n() int { return len(s.labels) }

func (s *state) anyVisible() bool {
	return slices.ContainsFunc(s.series, func(s *Series) bool { return s.Visible })
}

// tickFade is one transition between two tick sets.
type tickFade[T comparable] struct {
	kept     []T
	entering []T
	leaving  []T
	target   []T
	progress float64
}

func newTickFade[T comparable](from, to []T) *tickFade[T] {
	leaving, entering := lo.Difference(from, to)
	return &tickFade[T]{
		kept:     lo.Intersect(from, to),
		entering: entering,
		leaving:  leaving,
		target:   to,
	}
}

// ticker owns an axis' committed tick set and fades it towards new sets.
//
// A fade that is superseded is never committed: the next fade starts from
// the last set that finished its transition.
type ticker[T comparable] struct {
	sched     *anim.Scheduler
	committed []T
	fade      *tickFade[T]
	changed   func()
}

// set moves the axis to next. A set equal to the committed one snaps
// without animating.
func (t *ticker[T]) set(next []T) {
	t.sched.Cancel()
	if slices.Equal(next, t.committed) {
		t.changed()
		return
	}

	fade := newTickFade(t.committed, next)
	t.sched.Run(
		func(p float64) {
			t.fade = fade
			fade.progress = p
			t.changed()
		},
		func() {
			t.committed = fade.target
			t.settle(fade)
		},
		func() { t.settle(fade) },
	)
}

// reset commits ticks immediately, dropping any fade.
func (t *ticker[T]) reset(ticks []T) {
	t.sched.Cancel()
	t.committed = ticks
	t.changed()
}

func (t *ticker[T]) settle(fade *tickFade[T]) {
	if t.fade == fade {
		t.fade = nil
	}
	t.changed()
}

// each calls fn for every tick to draw with its alpha: leaving ticks first,
// then kept, then entering.
func (t *ticker[T]) each(fn func(tick T, alpha float64)) {
	f := t.fade
	if f == nil {
		for _, v := range t.committed {
			fn(v, 1)
		}
		return
	}
	for _, v := range f.leaving {
		fn(v, 1-f.progress)
	}
	for _, v := range f.kept {
		fn(v, 1)
	}
	for _, v := range f.entering {
		fn(v, f.progress)
	}
}

// optColor parses a color from validated options.
func optColor(s string) colorful.Color {
	c, _ := surface.ParseColor(s)
	return c
}
