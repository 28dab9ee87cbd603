package anim

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeComplete = "complete"
	outcomeCancel   = "cancel"
)

// loopMetrics is safe to use through a nil pointer.
type loopMetrics struct {
	frames prometheus.Counter
	starts prometheus.Counter
	runs   *prometheus.CounterVec
	active prometheus.Gauge
}

func newLoopMetrics(reg prometheus.Registerer) *loopMetrics {
	m := &loopMetrics{
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leetchart",
			Subsystem: "anim",
			Name:      "frames_total",
			Help:      "Number of animation loop ticks.",
		}),
		starts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "leetchart",
			Subsystem: "anim",
			Name:      "runs_started_total",
			Help:      "Number of animation runs started.",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leetchart",
			Subsystem: "anim",
			Name:      "runs_total",
			Help:      "Number of finished animation runs by outcome.",
		}, []string{"outcome"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "leetchart",
			Subsystem: "anim",
			Name:      "active_schedulers",
			Help:      "Number of schedulers with a run in progress.",
		}),
	}
	reg.MustRegister(m.frames, m.starts, m.runs, m.active)
	return m
}

func (m *loopMetrics) frame() {
	if m != nil {
		m.frames.Inc()
	}
}

func (m *loopMetrics) started() {
	if m != nil {
		m.starts.Inc()
	}
}

func (m *loopMetrics) finished(outcome string) {
	if m != nil {
		m.runs.WithLabelValues(outcome).Inc()
	}
}

func (m *loopMetrics) setActive(n int) {
	if m != nil {
		m.active.Set(float64(n))
	}
}
