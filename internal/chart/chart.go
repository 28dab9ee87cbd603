// Package chart renders an animated time-series line chart with a linked
// preview chart.
//
// A Chart owns the shared state (window, series visibility and vertical
// scale) and a set of components, each drawing on its own surface layer.
// State changes start transitions on the chart's anim.Loop; components
// marked dirty are redrawn at the end of every change and every loop tick.
//
// A Chart is not safe for concurrent use. All methods, and Tick on its
// loop, must be called from one goroutine.
package chart

import (
	"fmt"
	"slices"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/samber/lo"

	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/observability"
	"github.com/wandb/leetchart/internal/surface"
	"github.com/wandb/leetchart/internal/viewport"
)

// Layer names, bottom to top.
const (
	LayerYAxis     = "y-axis"
	LayerXAxis     = "x-axis"
	LayerLines     = "lines"
	LayerTooltip   = "tooltip"
	LayerSelection = "selection"
	LayerLegend    = "legend"
)

type config struct {
	loop   *anim.Loop
	logger *observability.CoreLogger
	target RangeTarget
}

type Option func(*config)

// WithLoop sets the frame loop shared by the chart and its preview.
// Without it the chart creates a loop on the wall clock.
func WithLoop(loop *anim.Loop) Option {
	return func(c *config) { c.loop = loop }
}

func WithLogger(logger *observability.CoreLogger) Option {
	return func(c *config) { c.logger = logger }
}

// WithRangeTarget sends the windows picked on this chart's selection band to
// target instead of the chart itself. Previews target their main chart.
func WithRangeTarget(target RangeTarget) Option {
	return func(c *config) { c.target = target }
}

// Chart is the controller of one chart and, optionally, its preview.
type Chart struct {
	opts    Options
	st      *state
	surface surface.Surface
	loop    *anim.Loop
	logger  *observability.CoreLogger
	labels  *labelFormatter

	yAxis     *YAxis
	xAxis     *XAxis
	lines     *Lines
	tooltip   *Tooltip
	selection *Selection
	legend    *Legend
	renderers []renderer

	scaleSched *anim.Scheduler

	preview    *Chart
	removeHook func()
	destroyed  bool

	// hidden is set on a preview while Preview.Display is false.
	hidden bool
}

// Transitions reports which animations are running.
type Transitions struct {
	Scale  bool
	XTicks bool
	YTicks bool
	Series bool
}

// Any reports whether any animation is running.
func (t Transitions) Any() bool {
	return t.Scale || t.XTicks || t.YTicks || t.Series
}

// New builds a chart over labels and series on s.
//
// The options are DefaultOptions merged with ov. Unless disabled, a preview
// chart is built on a surface derived from s. New fails without side effects
// on the loop when the surface, options or series are invalid.
func New(
	s surface.Surface,
	labels []time.Time,
	specs []SeriesSpec,
	ov Overrides,
	opts ...Option,
) (*Chart, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.loop == nil {
		cfg.loop = anim.NewLoop()
	}
	if cfg.logger == nil {
		cfg.logger = observability.NewNoOpLogger()
	}
	return build(s, labels, specs, DefaultOptions().Merge(ov), cfg)
}

func build(
	s surface.Surface,
	labels []time.Time,
	specs []SeriesSpec,
	o Options,
	cfg config,
) (*Chart, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil surface", ErrInvalidSurface)
	}
	w, h := s.Width(), s.Height()
	if err := surface.CheckSize(w, h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSurface, err)
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := checkGeometry(o, w, h); err != nil {
		return nil, err
	}
	series, err := newSeries(specs, len(labels))
	if err != nil {
		return nil, err
	}

	c := &Chart{
		opts:    o,
		surface: s,
		loop:    cfg.loop,
		logger:  cfg.logger,
		labels:  newLabelFormatter(),
	}

	if o.Preview != nil && o.Preview.Display {
		ps, err := s.Derive(w, o.Preview.Options.Height)
		if err != nil {
			return nil, fmt.Errorf("%w: preview: %v", ErrInvalidSurface, err)
		}
		po := o.Preview.Options
		po.Preview = nil
		c.preview, err = build(ps, labels, specs, po, config{
			loop:   cfg.loop,
			logger: cfg.logger.With("chart", "preview"),
			target: c,
		})
		if err != nil {
			return nil, fmt.Errorf("preview: %w", err)
		}
	}

	n := len(labels)
	st := &state{
		labels: labels,
		series: series,
		window: Window{Start: 0, End: float64(max(n-1, 0))},
		width:  w,
		height: h,
	}
	st.scale = computeScale(series, st.window, o.YAxis.TotalTicks)
	st.transform = viewport.New(w, h, o.PlotInsets())
	st.transform.Configure(st.window.Span(), st.scale.Max, w, h, o.PlotInsets())
	c.st = st

	target := cfg.target
	if target == nil {
		target = c
	}
	c.yAxis = newYAxis(st, s.NewLayer(LayerYAxis), c.loop, o.YAxis)
	c.xAxis = newXAxis(st, s.NewLayer(LayerXAxis), c.loop, c.labels, o.XAxis)
	c.lines = newLines(st, s.NewLayer(LayerLines), c.loop.NewScheduler(o.YAxis.Animation), o.Lines)
	c.tooltip = newTooltip(st, s.NewLayer(LayerTooltip), c.labels, o.Tooltip)
	c.selection = newSelection(st, s.NewLayer(LayerSelection), target, o.Selection, c.reportError)
	c.legend = newLegend(st, s.NewLayer(LayerLegend), o)
	c.renderers = []renderer{c.yAxis, c.xAxis, c.lines, c.tooltip, c.selection, c.legend}
	c.scaleSched = c.loop.NewScheduler(o.YAxis.Animation)

	c.removeHook = c.loop.AddFrameHook(c.flush)
	c.markAll()
	c.flush()
	c.logger.Debug("chart: created",
		"labels", n, "series", len(series), "width", w, "height", h)
	return c, nil
}

// checkGeometry verifies that o leaves room to draw on a w by h surface.
func checkGeometry(o Options, w, h int) error {
	in := o.PlotInsets()
	if in.Left+in.Right >= w || in.Top+in.Bottom >= h {
		return fmt.Errorf(
			"%w: insets %+v leave no drawable area on %dx%d",
			ErrInvalidSurface, in, w, h)
	}
	if o.Selection.Display && w <= 2*o.Selection.BorderWidth {
		return fmt.Errorf(
			"%w: width %d leaves no selection track with border %d",
			ErrInvalidSurface, w, o.Selection.BorderWidth)
	}
	return nil
}

// SetVisibleRange shows the labels between start and end.
//
// The bounds are ordered and clamped to the labels. Setting the current
// window does nothing. A hidden preview keeps its band on the window but
// is not redrawn until it is shown again.
func (c *Chart) SetVisibleRange(start, end float64) error {
	if c.destroyed {
		return ErrDestroyed
	}
	w := clampWindow(start, end, c.st.n())
	if w == c.st.window {
		return nil
	}
	if w.Start != start || w.End != end {
		c.logger.Debug("chart: clamped window",
			"start", start, "end", end, "window_start", w.Start, "window_end", w.End)
	}
	c.st.window = w

	if c.preview != nil {
		c.preview.selection.syncWindow(w)
		c.preview.flush()
	}
	if c.selection.target == RangeTarget(c) {
		c.selection.syncWindow(w)
	}
	c.xAxis.update()
	c.lines.markDirty()
	c.tooltip.markDirty()

	if !c.st.anyVisible() {
		c.scaleSched.Cancel()
		tr := c.st.transform
		if x, ok := tr.ComputeXRatio(w.Span()); ok {
			tr.SetRatios(x, tr.YRatio())
		}
		c.flush()
		return nil
	}

	c.rescale()
	c.flush()
	return nil
}

// SetSeriesVisible shows or hides series i here and in the preview.
func (c *Chart) SetSeriesVisible(i int, visible bool) error {
	if c.destroyed {
		return ErrDestroyed
	}
	if i < 0 || i >= len(c.st.series) {
		return fmt.Errorf("%w: %d of %d", ErrSeriesIndex, i, len(c.st.series))
	}
	s := c.st.series[i]
	if s.Visible == visible {
		return nil
	}
	c.logger.Debug("chart: toggled series", "series", s.Name, "visible", visible)

	s.Visible = visible
	c.lines.toggle(s.ID, visible)
	c.legend.markDirty()
	c.tooltip.markDirty()

	if c.preview != nil {
		if err := c.preview.SetSeriesVisible(i, visible); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}

	c.rescale()
	c.flush()
	return nil
}

// rescale recomputes the vertical scale, fades the y ticks when it changed
// and animates the ratios towards the new window and scale.
func (c *Chart) rescale() {
	next := computeScale(c.st.series, c.st.window, c.opts.YAxis.TotalTicks)
	if next != c.st.scale {
		c.logger.Debug("chart: rescale", "from", c.st.scale.Max, "to", next.Max)
		c.st.scale = next
		c.yAxis.update(next)
	}
	c.animateRatios()
}

func (c *Chart) animateRatios() {
	tr := c.st.transform
	fromX, fromY := tr.XRatio(), tr.YRatio()
	toX, ok := tr.ComputeXRatio(c.st.window.Span())
	if !ok {
		toX = fromX
	}
	toY, ok := tr.ComputeYRatio(c.st.scale.Max)
	if !ok {
		toY = fromY
	}

	if !c.scaleSched.Running() && fromX == toX && fromY == toY {
		c.markPlot()
		return
	}
	c.scaleSched.Run(
		func(p float64) {
			e := anim.EaseOutCubic(p)
			tr.SetRatios(anim.Lerp(fromX, toX, e), anim.Lerp(fromY, toY, e))
			c.markPlot()
		},
		nil,
		func() {
			tr.SetRatios(toX, toY)
			c.markPlot()
		},
	)
}

// UpdateOptions merges ov into the current options.
//
// Invalid options are rejected and leave the chart unchanged. Whether a
// preview exists is fixed at construction; Preview.Display only shows or
// hides an existing one.
func (c *Chart) UpdateOptions(ov Overrides) error {
	if c.destroyed {
		return ErrDestroyed
	}
	next := c.opts.Merge(ov)
	if c.preview == nil && next.Preview != nil && next.Preview.Display {
		return fmt.Errorf("%w: preview cannot be added after construction", ErrInvalidOptions)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := checkGeometry(next, c.st.width, c.st.height); err != nil {
		return err
	}
	if c.preview != nil && ov.Preview != nil {
		if err := c.preview.UpdateOptions(ov.Preview.Overrides); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		c.preview.setHidden(!next.Preview.Display)
	}

	c.opts = next
	c.scaleSched.Cancel()
	c.scaleSched.SetDuration(next.YAxis.Animation)
	c.lines.sched.SetDuration(next.YAxis.Animation)

	c.st.scale = computeScale(c.st.series, c.st.window, next.YAxis.TotalTicks)
	c.st.transform.Configure(
		c.st.window.Span(), c.st.scale.Max, c.st.width, c.st.height, next.PlotInsets())

	c.xAxis.ApplyOptions(next.XAxis)
	c.yAxis.ApplyOptions(next.YAxis)
	c.lines.ApplyOptions(next.Lines)
	c.tooltip.ApplyOptions(next.Tooltip)
	c.selection.ApplyOptions(next.Selection)
	c.legend.ApplyOptions(next.Legend)
	c.legend.place(next)
	c.xAxis.reset()
	c.yAxis.reset()

	if bg, ok := c.surface.(interface{ SetBackground(colorful.Color) }); ok {
		bg.SetBackground(optColor(next.Background))
	}

	c.markAll()
	c.flush()
	return nil
}

// Destroy stops all animations and detaches the chart and its preview from
// the loop. It is safe to call more than once.
func (c *Chart) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.scaleSched.Cancel()
	c.xAxis.ticks.sched.Cancel()
	c.yAxis.ticks.sched.Cancel()
	c.lines.sched.Cancel()
	c.removeHook()
	if c.preview != nil {
		c.preview.Destroy()
	}
	c.logger.Debug("chart: destroyed")
}

// PointerDown handles a press at (x, y): legend entries toggle their
// series and the selection band starts a gesture.
func (c *Chart) PointerDown(x, y int) {
	if c.destroyed {
		return
	}
	if id, ok := c.legend.HitTest(x, y); ok {
		c.reportError(c.SetSeriesVisible(id, !c.st.series[id].Visible))
		return
	}
	if c.selection.PointerDown(x) {
		c.tooltip.Hide()
	}
	c.flush()
}

// PointerMove drives the active selection gesture or the tooltip.
func (c *Chart) PointerMove(x, y int) {
	if c.destroyed {
		return
	}
	if c.selection.Mode() != DragNone {
		c.selection.PointerMove(x)
		c.flush()
		return
	}
	if c.inPlot(x, y) {
		c.tooltip.Show(x)
	} else {
		c.tooltip.Hide()
	}
	c.flush()
}

// PointerUp ends a selection gesture.
func (c *Chart) PointerUp(x, y int) {
	if c.destroyed {
		return
	}
	c.selection.PointerUp()
	c.flush()
}

// PointerLeave hides the tooltip and ends any gesture.
func (c *Chart) PointerLeave() {
	if c.destroyed {
		return
	}
	c.tooltip.Hide()
	c.selection.PointerUp()
	c.flush()
}

// Cursor returns the pointer affordance at (x, y).
func (c *Chart) Cursor(x, y int) Cursor {
	if c.destroyed {
		return CursorDefault
	}
	if _, ok := c.legend.HitTest(x, y); ok {
		return CursorPointer
	}
	return c.selection.Cursor(x)
}

func (c *Chart) inPlot(x, y int) bool {
	in := c.st.transform.Insets()
	return x >= in.Left && x <= c.st.width-in.Right &&
		y >= in.Top && y <= c.st.height-in.Bottom
}

func (c *Chart) reportError(err error) {
	if err != nil {
		c.logger.CaptureError(fmt.Errorf("chart: %v", err))
	}
}

func (c *Chart) markPlot() {
	c.yAxis.markDirty()
	c.xAxis.markDirty()
	c.lines.markDirty()
	c.tooltip.markDirty()
}

func (c *Chart) markAll() {
	for _, r := range []interface{ markDirty() }{
		c.yAxis, c.xAxis, c.lines, c.tooltip, c.selection, c.legend,
	} {
		r.markDirty()
	}
}

// flush redraws dirty components. It is the chart's frame hook.
func (c *Chart) flush() {
	if c.destroyed || c.hidden {
		return
	}
	for _, r := range c.renderers {
		if r.takeDirty() {
			r.Redraw()
		}
	}
}

// setHidden stops or resumes drawing. A chart shown again is redrawn in
// full.
func (c *Chart) setHidden(hidden bool) {
	if c.hidden == hidden {
		return
	}
	c.hidden = hidden
	if !hidden {
		c.markAll()
		c.flush()
	}
}

// Window returns the visible window.
func (c *Chart) Window() Window { return c.st.window }

// Scale returns the committed vertical scale.
func (c *Chart) Scale() Scale { return c.st.scale }

// Series returns copies of the series.
func (c *Chart) Series() []Series {
	return lo.Map(c.st.series, func(s *Series, _ int) Series { return *s })
}

// SeriesVisible reports whether series i is visible.
func (c *Chart) SeriesVisible(i int) bool {
	return i >= 0 && i < len(c.st.series) && c.st.series[i].Visible
}

// VisibleSet returns the visibility of every series.
func (c *Chart) VisibleSet() []bool {
	return lo.Map(c.st.series, func(s *Series, _ int) bool { return s.Visible })
}

// Preview returns the preview chart, or nil when there is none or it is
// hidden.
func (c *Chart) Preview() *Chart {
	if c.preview == nil || c.opts.Preview == nil || !c.opts.Preview.Display {
		return nil
	}
	return c.preview
}

func (c *Chart) Transform() *viewport.Transform { return c.st.transform }
func (c *Chart) Options() Options               { return c.opts }
func (c *Chart) Labels() Labels                 { return slices.Clone(c.st.labels) }
func (c *Chart) Surface() surface.Surface       { return c.surface }
func (c *Chart) Loop() *anim.Loop               { return c.loop }
func (c *Chart) Destroyed() bool                { return c.destroyed }

func (c *Chart) Selection() *Selection { return c.selection }
func (c *Chart) Tooltip() *Tooltip     { return c.tooltip }
func (c *Chart) Legend() *Legend       { return c.legend }
func (c *Chart) Lines() *Lines         { return c.lines }
func (c *Chart) XAxis() *XAxis         { return c.xAxis }
func (c *Chart) YAxis() *YAxis         { return c.yAxis }

// Transitions reports the running animations of this chart only.
func (c *Chart) Transitions() Transitions {
	return Transitions{
		Scale:  c.scaleSched.Running(),
		XTicks: c.xAxis.Transitioning(),
		YTicks: c.yAxis.Transitioning(),
		Series: c.lines.Transitioning(),
	}
}
