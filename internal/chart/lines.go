package chart

import (
	"math"

	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/surface"
)

// Lines draws every visible series.
//
// Visibility flips fade the toggled series while the others stay opaque.
// All series fading at once share one transition.
type Lines struct {
	dirty
	opts  LinesOptions
	st    *state
	layer surface.Layer
	sched *anim.Scheduler
	fade  *seriesFade
}

var _ Component[LinesOptions] = (*Lines)(nil)

// seriesFade maps series IDs to their start and end alpha.
type seriesFade struct {
	from, to map[int]float64
	progress float64
}

func (f *seriesFade) alpha(id int) (float64, bool) {
	if f == nil {
		return 0, false
	}
	from, ok := f.from[id]
	if !ok {
		return 0, false
	}
	return anim.Lerp(from, f.to[id], f.progress), true
}

func newLines(st *state, layer surface.Layer, sched *anim.Scheduler, opts LinesOptions) *Lines {
	l := &Lines{opts: opts, st: st, layer: layer, sched: sched}
	l.markDirty()
	return l
}

// toggle fades series id towards visible. Series still fading from an
// earlier toggle continue from their current alpha.
func (l *Lines) toggle(id int, visible bool) {
	next := &seriesFade{from: map[int]float64{}, to: map[int]float64{}}
	if l.fade != nil {
		for other := range l.fade.from {
			a, _ := l.fade.alpha(other)
			next.from[other] = a
			next.to[other] = l.fade.to[other]
		}
	}
	if _, ok := next.from[id]; !ok {
		next.from[id] = boolAlpha(!visible)
	}
	next.to[id] = boolAlpha(visible)

	l.sched.Run(
		func(p float64) {
			l.fade = next
			next.progress = p
			l.markDirty()
		},
		func() { l.settle(next) },
		func() { l.settle(next) },
	)
}

func (l *Lines) settle(f *seriesFade) {
	if l.fade == f {
		l.fade = nil
	}
	l.markDirty()
}

func boolAlpha(visible bool) float64 {
	if visible {
		return 1
	}
	return 0
}

// Alpha returns the opacity series id is drawn with.
func (l *Lines) Alpha(id int) float64 {
	if a, ok := l.fade.alpha(id); ok {
		return a
	}
	if id >= 0 && id < len(l.st.series) && l.st.series[id].Visible {
		return 1
	}
	return 0
}

func (l *Lines) Transitioning() bool {
	return l.sched.Running()
}

func (l *Lines) ApplyOptions(opts LinesOptions) {
	l.opts = opts
	l.markDirty()
}

func (l *Lines) Redraw() {
	l.layer.Clear()

	var fading []*Series
	for _, s := range l.st.series {
		if _, ok := l.fade.alpha(s.ID); ok {
			fading = append(fading, s)
			continue
		}
		if s.Visible {
			l.drawSeries(s)
		}
	}

	for _, s := range fading {
		a, _ := l.fade.alpha(s.ID)
		if a <= 0 {
			continue
		}
		l.layer.Save()
		l.layer.SetAlpha(a)
		l.drawSeries(s)
		l.layer.Restore()
	}
}

// drawSeries draws one polyline per run of finite values.
func (l *Lines) drawSeries(s *Series) {
	first, last := l.st.window.Indices(len(s.Values))
	if first > last {
		return
	}

	l.layer.Save()
	defer l.layer.Restore()
	l.layer.SetStrokeColor(s.Color)
	l.layer.SetLineWidth(l.opts.LineWidth)

	tr := l.st.transform
	start := l.st.window.Start
	segment := make([]surface.Point, 0, last-first+1)
	flush := func() {
		if len(segment) > 0 {
			l.layer.Polyline(segment)
		}
		segment = segment[:0]
	}
	for i := first; i <= last; i++ {
		v := s.Values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			flush()
			continue
		}
		x, y := tr.ToPixel(float64(i)-start, v)
		segment = append(segment, surface.Point{X: x, Y: y})
	}
	flush()
}
