package anim

import "time"

// Scheduler runs one animation at a time for a single animated quantity.
//
// Progress is elapsed/duration, sampled once per loop tick. The sample that
// reaches 1 calls step(1) exactly once and then onComplete. Starting a new
// run replaces the current one, cancelling it first.
type Scheduler struct {
	loop     *Loop
	duration time.Duration

	current  *run
	stepping bool
}

type run struct {
	start      time.Time
	sampledAt  time.Time
	step       func(progress float64)
	onComplete func()
	onCancel   func()
}

// Run starts a run, replacing any run in progress.
//
// step is sampled immediately with progress 0 (or 1 for a zero duration),
// so the first frame exists before the next tick. onComplete and onCancel
// may be nil.
//
// Run panics if called from inside this scheduler's own step function.
func (s *Scheduler) Run(step func(progress float64), onComplete, onCancel func()) {
	if s.stepping {
		panic("anim: Scheduler.Run called from inside its own step function")
	}
	s.Cancel()

	now := s.loop.Now()
	s.current = &run{
		start:      now,
		step:       step,
		onComplete: onComplete,
		onCancel:   onCancel,
	}
	s.loop.metrics.started()
	s.loop.activate(s)
	s.sample(now)
}

// Cancel stops the current run and calls its onCancel. It does nothing if
// no run is in progress.
func (s *Scheduler) Cancel() {
	r := s.current
	if r == nil {
		return
	}
	s.current = nil
	s.loop.deactivate(s)
	s.loop.metrics.finished(outcomeCancel)
	if r.onCancel != nil {
		r.onCancel()
	}
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	return s.current != nil
}

// Duration returns the length of each run.
func (s *Scheduler) Duration() time.Duration {
	return s.duration
}

// SetDuration changes the length of future runs.
func (s *Scheduler) SetDuration(d time.Duration) {
	s.duration = d
}

// Progress returns the progress the current run would have at the loop's
// current time, or 0 when idle.
func (s *Scheduler) Progress() float64 {
	if s.current == nil {
		return 0
	}
	return s.progress(s.loop.Now())
}

func (s *Scheduler) progress(now time.Time) float64 {
	if s.duration <= 0 {
		return 1
	}
	p := float64(now.Sub(s.current.start)) / float64(s.duration)
	return max(p, 0)
}

func (s *Scheduler) sample(now time.Time) {
	r := s.current
	r.sampledAt = now
	p := s.progress(now)

	if p < 1 {
		s.callStep(r, p)
		return
	}

	s.current = nil
	s.loop.deactivate(s)
	s.callStep(r, 1)
	s.loop.metrics.finished(outcomeComplete)
	if r.onComplete != nil {
		r.onComplete()
	}
}

func (s *Scheduler) callStep(r *run, p float64) {
	s.stepping = true
	defer func() { s.stepping = false }()
	r.step(p)
}
