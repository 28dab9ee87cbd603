// Package anim runs time-bounded, cancellable animations on a shared
// frame loop.
//
// Everything in this package is single-threaded: a Loop and all of its
// schedulers must be used from the goroutine that calls Tick.
package anim

import (
	"errors"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ErrNeverIdle is returned by Settle when animations keep running past the
// frame budget.
var ErrNeverIdle = errors.New("anim: loop did not become idle")

// Loop is the frame service shared by all schedulers of a chart pair.
//
// The loop is active from the first started run until no scheduler is
// running. Each Tick samples every active scheduler once and then calls the
// frame hooks.
type Loop struct {
	clock   Clock
	metrics *loopMetrics

	active []*Scheduler

	hooks    []frameHook
	nextHook int

	onActivate func()
}

type frameHook struct {
	id int
	fn func()
}

type LoopOption func(*Loop)

// WithClock replaces the wall clock.
func WithClock(c Clock) LoopOption {
	return func(l *Loop) { l.clock = c }
}

// WithMetrics registers loop metrics with reg.
func WithMetrics(reg prometheus.Registerer) LoopOption {
	return func(l *Loop) { l.metrics = newLoopMetrics(reg) }
}

// WithActivateHook sets a function called whenever the loop goes from idle
// to active. Frame drivers use it to start requesting ticks.
func WithActivateHook(fn func()) LoopOption {
	return func(l *Loop) { l.onActivate = fn }
}

func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{clock: systemClock{}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewScheduler returns an idle scheduler whose runs last d.
func (l *Loop) NewScheduler(d time.Duration) *Scheduler {
	return &Scheduler{loop: l, duration: d}
}

// Now returns the loop's clock reading.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Active reports whether any scheduler is running.
func (l *Loop) Active() bool {
	return len(l.active) > 0
}

// AddFrameHook registers fn to run at the end of every Tick, in
// registration order. The returned function unregisters it.
func (l *Loop) AddFrameHook(fn func()) (remove func()) {
	l.nextHook++
	id := l.nextHook
	l.hooks = append(l.hooks, frameHook{id: id, fn: fn})
	return func() {
		l.hooks = slices.DeleteFunc(l.hooks, func(h frameHook) bool {
			return h.id == id
		})
	}
}

// Tick samples all active schedulers and then runs the frame hooks.
//
// Schedulers are sampled in the order their runs started. A run started or
// replaced while the tick is in progress is first sampled by its own Run
// call and not again in this tick.
func (l *Loop) Tick() {
	type entry struct {
		s *Scheduler
		r *run
	}
	snapshot := make([]entry, 0, len(l.active))
	for _, s := range l.active {
		snapshot = append(snapshot, entry{s, s.current})
	}

	now := l.clock.Now()
	for _, e := range snapshot {
		if e.s.current == e.r && e.r != nil && e.r.sampledAt.Before(now) {
			e.s.sample(now)
		}
	}

	l.metrics.frame()

	for _, h := range slices.Clone(l.hooks) {
		h.fn()
	}
}

// Settle advances clock one frame at a time until the loop is idle, calling
// after (if non-nil) following each tick. It gives up after maxFrames.
func (l *Loop) Settle(
	clock *ManualClock,
	frame time.Duration,
	maxFrames int,
	after func(frame int) error,
) error {
	for i := 0; l.Active(); i++ {
		if i >= maxFrames {
			return ErrNeverIdle
		}
		clock.Advance(frame)
		l.Tick()
		if after != nil {
			if err := after(i); err != nil {
				return err
			}
		}
	}
	return nil
}

func (l *Loop) activate(s *Scheduler) {
	wasIdle := len(l.active) == 0
	l.active = append(l.active, s)
	l.metrics.setActive(len(l.active))
	if wasIdle && l.onActivate != nil {
		l.onActivate()
	}
}

func (l *Loop) deactivate(s *Scheduler) {
	l.active = slices.DeleteFunc(l.active, func(a *Scheduler) bool {
		return a == s
	})
	l.metrics.setActive(len(l.active))
}
