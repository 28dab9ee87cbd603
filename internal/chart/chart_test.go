package chart_test

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/chart"
	"github.com/wandb/leetchart/internal/chart/charttest"
	"github.com/wandb/leetchart/internal/observabilitytest"
	"github.com/wandb/leetchart/internal/surface"
	"github.com/wandb/leetchart/internal/surface/surfacetest"
)

const frame = 16 * time.Millisecond

// 2024-01-01 is a Monday.
var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func makeLabels(n int) []time.Time {
	labels := make([]time.Time, n)
	for i := range labels {
		labels[i] = day0.AddDate(0, 0, i)
	}
	return labels
}

func ramp(n int, scale float64) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = float64(i%10) * scale
	}
	return values
}

type fixture struct {
	chart   *chart.Chart
	surface *surfacetest.Surface
	loop    *anim.Loop
	clock   *anim.ManualClock
}

func newFixture(
	t *testing.T,
	width, height int,
	labels []time.Time,
	specs []chart.SeriesSpec,
	ov chart.Overrides,
	opts ...chart.Option,
) fixture {
	t.Helper()
	clock := anim.NewManualClock(time.Unix(0, 0))
	loop := anim.NewLoop(anim.WithClock(clock))
	s := surfacetest.New(width, height)
	opts = append([]chart.Option{
		chart.WithLoop(loop),
		chart.WithLogger(observabilitytest.NewTestLogger(t)),
	}, opts...)

	c, err := chart.New(s, labels, specs, ov, opts...)
	require.NoError(t, err)
	t.Cleanup(c.Destroy)
	return fixture{chart: c, surface: s, loop: loop, clock: clock}
}

// oneSeries is ten labels with one series peaking at 9.
func oneSeries(t *testing.T) fixture {
	return newFixture(t, 400, 300, makeLabels(10), []chart.SeriesSpec{
		{Name: "a", Values: []float64{1, 5, 3, 8, 2, 9, 4, 6, 7, 0}},
	}, chart.Overrides{})
}

// twoSeries has a large series "big" and a smaller one "small".
func twoSeries(t *testing.T) fixture {
	return newFixture(t, 400, 300, makeLabels(10), []chart.SeriesSpec{
		{Name: "big", Values: []float64{10, 90, 30, 50, 20, 60, 70, 80, 40, 0}},
		{Name: "small", Values: []float64{5, 40, 20, 10, 15, 25, 35, 30, 5, 1}},
	}, chart.Overrides{})
}

func (f fixture) settle(t *testing.T) {
	t.Helper()
	require.NoError(t, f.loop.Settle(f.clock, frame, 1000, nil))
}

func (f fixture) preview(t *testing.T) (*chart.Chart, *surfacetest.Surface) {
	t.Helper()
	p := f.chart.Preview()
	require.NotNil(t, p)
	return p, p.Surface().(*surfacetest.Surface)
}

func clearCounts(surfaces ...*surfacetest.Surface) map[string]int {
	counts := map[string]int{}
	for i, s := range surfaces {
		for _, l := range s.Layers() {
			counts[string(rune('a'+i))+l.Name()] = l.(*surfacetest.Layer).Clears()
		}
	}
	return counts
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)
	c := f.chart

	assert.Equal(t, chart.Window{Start: 0, End: 9}, c.Window())
	assert.Equal(t, chart.Scale{Max: 10, TickSpacing: 2, TickCount: 6}, c.Scale())
	assert.False(t, f.loop.Active())
	assert.InDelta(t, 386.0/9, c.Transform().XRatio(), 1e-12)
	assert.InDelta(t, 225.0/10, c.Transform().YRatio(), 1e-12)

	names := lo.Map(f.surface.Layers(), func(l surface.Layer, _ int) string { return l.Name() })
	assert.Equal(t, []string{
		chart.LayerYAxis,
		chart.LayerXAxis,
		chart.LayerLines,
		chart.LayerTooltip,
		chart.LayerSelection,
		chart.LayerLegend,
	}, names)

	preview, ps := f.preview(t)
	assert.Equal(t, 100, ps.Height())
	assert.Nil(t, preview.Preview())
	assert.True(t, preview.Options().Selection.Display)
	assert.False(t, preview.Options().Legend.Display)
}

func TestNew_DrawsEverything(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)

	lines := f.surface.Layer(chart.LayerLines).OpsOf(surfacetest.OpPolyline)
	require.Len(t, lines, 1)
	assert.Len(t, lines[0].Points, 10)
	assert.Equal(t, surface.Point{X: 7, Y: 275 - 22}, lines[0].Points[0])

	yLabels := lo.Map(f.surface.Layer(chart.LayerYAxis).Texts(),
		func(op surfacetest.Op, _ int) string { return op.Text })
	assert.Equal(t, []string{"0", "2", "4", "6", "8", "10"}, yLabels)

	legend := f.surface.Layer(chart.LayerLegend).Texts()
	require.Len(t, legend, 1)
	assert.Equal(t, "a", legend[0].Text)

	assert.Empty(t, f.surface.Layer(chart.LayerTooltip).Ops())
	assert.Empty(t, f.surface.Layer(chart.LayerSelection).Ops())
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	labels := makeLabels(3)
	good := []chart.SeriesSpec{{Name: "a", Values: []float64{1, 2, 3}}}

	tests := []struct {
		name    string
		surface surface.Surface
		specs   []chart.SeriesSpec
		ov      chart.Overrides
		want    error
	}{
		{
			name:  "nil surface",
			specs: good,
			want:  chart.ErrInvalidSurface,
		},
		{
			name:    "zero sized surface",
			surface: surfacetest.New(0, 300),
			specs:   good,
			want:    chart.ErrInvalidSurface,
		},
		{
			name:    "insets cover the surface",
			surface: surfacetest.New(10, 300),
			specs:   good,
			want:    chart.ErrInvalidSurface,
		},
		{
			name:    "length mismatch",
			surface: surfacetest.New(400, 300),
			specs:   []chart.SeriesSpec{{Name: "a", Values: []float64{1}}},
			want:    chart.ErrInvalidSeries,
		},
		{
			name:    "bad series color",
			surface: surfacetest.New(400, 300),
			specs:   []chart.SeriesSpec{{Name: "a", Color: "red", Values: []float64{1, 2, 3}}},
			want:    chart.ErrInvalidSeries,
		},
		{
			name:    "too few ticks",
			surface: surfacetest.New(400, 300),
			specs:   good,
			ov:      chart.Overrides{YAxis: &chart.AxisOverrides{TotalTicks: lo.ToPtr(1)}},
			want:    chart.ErrInvalidOptions,
		},
		{
			name:    "bad preview color",
			surface: surfacetest.New(400, 300),
			specs:   good,
			ov: chart.Overrides{Preview: &chart.PreviewOverrides{
				Overrides: chart.Overrides{Background: lo.ToPtr("#12")},
			}},
			want: chart.ErrInvalidOptions,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			loop := anim.NewLoop()

			c, err := chart.New(tt.surface, labels, tt.specs, tt.ov, chart.WithLoop(loop))

			require.ErrorIs(t, err, tt.want)
			assert.Nil(t, c)
			if s, ok := tt.surface.(*surfacetest.Surface); ok {
				assert.Empty(t, s.Layers())
			}
		})
	}
}

func TestSetVisibleRange_SameWindowIsNoop(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)
	_, ps := f.preview(t)
	before := clearCounts(f.surface, ps)

	for _, w := range [][2]float64{{0, 9}, {9, 0}, {-3, 42}} {
		require.NoError(t, f.chart.SetVisibleRange(w[0], w[1]))
	}

	assert.Equal(t, chart.Window{Start: 0, End: 9}, f.chart.Window())
	assert.False(t, f.loop.Active())
	assert.False(t, f.chart.Transitions().Any())
	assert.Equal(t, before, clearCounts(f.surface, ps))
}

func TestSetVisibleRange_ClampsAndOrders(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)

	require.NoError(t, f.chart.SetVisibleRange(7, 2))
	assert.Equal(t, chart.Window{Start: 2, End: 7}, f.chart.Window())

	require.NoError(t, f.chart.SetVisibleRange(-5, 100))
	assert.Equal(t, chart.Window{Start: 0, End: 9}, f.chart.Window())

	require.NoError(t, f.chart.SetVisibleRange(1.5, 3.25))
	assert.Equal(t, chart.Window{Start: 1.5, End: 3.25}, f.chart.Window())
}

func TestSetVisibleRange_AnimatesRatiosToTarget(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)

	require.NoError(t, f.chart.SetVisibleRange(0, 4))

	assert.True(t, f.chart.Transitions().Scale)
	assert.True(t, f.loop.Active())
	f.settle(t)
	assert.Equal(t, 386.0/4, f.chart.Transform().XRatio())
	// Values 1, 5, 3, 8, 2 peak at 8.
	assert.Equal(t, chart.Scale{Max: 8, TickSpacing: 2, TickCount: 5}, f.chart.Scale())
	assert.Equal(t, 225.0/8, f.chart.Transform().YRatio())
}

func TestSetVisibleRange_SyncsPreviewSelection(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 400, 300, makeLabels(10),
		[]chart.SeriesSpec{{Name: "a", Values: ramp(10, 1)}}, chart.Overrides{})
	preview, _ := f.preview(t)

	require.NoError(t, f.chart.SetVisibleRange(5, 9))

	left, right := preview.Selection().Edges()
	assert.Equal(t, 5+5*390.0/10, left)
	assert.Equal(t, 395.0, right)
	assert.Equal(t, chart.Window{Start: 0, End: 9}, preview.Window())
}

func TestSetSeriesVisible_HideLargestRescalesAndRoundTrips(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)
	original := f.chart.Scale()
	require.Equal(t, chart.Scale{Max: 100, TickSpacing: 20, TickCount: 6}, original)

	require.NoError(t, f.chart.SetSeriesVisible(0, false))

	tr := f.chart.Transitions()
	assert.True(t, tr.YTicks, "hiding the larger series changes the scale")
	assert.True(t, tr.Scale)
	assert.True(t, tr.Series)
	assert.Equal(t, chart.Scale{Max: 40, TickSpacing: 10, TickCount: 5}, f.chart.Scale())
	f.settle(t)

	require.NoError(t, f.chart.SetSeriesVisible(0, true))
	f.settle(t)

	assert.Equal(t, original, f.chart.Scale())
	assert.Equal(t, 225.0/100, f.chart.Transform().YRatio())
	assert.Equal(t, []float64{0, 20, 40, 60, 80, 100}, f.chart.YAxis().Ticks())
}

func TestSetSeriesVisible_TransitionsCompleteOnSameTick(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)

	require.NoError(t, f.chart.SetSeriesVisible(0, false))

	for f.loop.Active() {
		f.clock.Advance(frame)
		f.loop.Tick()
		tr := f.chart.Transitions()
		assert.Equal(t, tr.Scale, tr.YTicks)
		assert.Equal(t, tr.Scale, tr.Series)
	}
}

func TestSetSeriesVisible_ReversalMidTransitionKeepsFiniteRatios(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)
	tr := f.chart.Transform()

	require.NoError(t, f.chart.SetSeriesVisible(0, false))
	f.clock.Advance(100 * time.Millisecond)
	f.loop.Tick()
	require.True(t, f.chart.Transitions().Scale)

	require.NoError(t, f.chart.SetSeriesVisible(0, true))
	assert.True(t, isFinite(tr.XRatio()))
	assert.True(t, isFinite(tr.YRatio()))
	assert.Positive(t, tr.YRatio())

	f.clock.Advance(50 * time.Millisecond)
	f.loop.Tick()
	assert.True(t, isFinite(tr.YRatio()))

	f.settle(t)
	assert.Equal(t, 225.0/100, tr.YRatio())
	assert.Equal(t, 386.0/9, tr.XRatio())
}

func TestDestroy_MidTransitionSnapsRatios(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)

	require.NoError(t, f.chart.SetSeriesVisible(0, false))
	f.clock.Advance(50 * time.Millisecond)
	f.loop.Tick()
	f.chart.Destroy()

	assert.False(t, f.loop.Active())
	assert.Equal(t, 225.0/40, f.chart.Transform().YRatio())
}

func TestSetSeriesVisible_TogglesPreview(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)
	preview, _ := f.preview(t)
	rng := rand.New(rand.NewPCG(1, 2))

	for range 50 {
		i := rng.IntN(2)
		v := rng.IntN(2) == 0
		require.NoError(t, f.chart.SetSeriesVisible(i, v))
		if rng.IntN(3) == 0 {
			f.clock.Advance(frame * time.Duration(rng.IntN(30)))
			f.loop.Tick()
		}

		assert.Equal(t, f.chart.VisibleSet(), preview.VisibleSet())
		assert.Equal(t, v, preview.SeriesVisible(i))
	}
}

func TestSetSeriesVisible_Errors(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)

	require.ErrorIs(t, f.chart.SetSeriesVisible(2, false), chart.ErrSeriesIndex)
	require.ErrorIs(t, f.chart.SetSeriesVisible(-1, false), chart.ErrSeriesIndex)

	require.NoError(t, f.chart.SetSeriesVisible(1, true))
	assert.False(t, f.loop.Active(), "unchanged visibility does nothing")
}

func TestSetSeriesVisible_FadesToggledSeriesOnly(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)
	lines := f.chart.Lines()

	require.NoError(t, f.chart.SetSeriesVisible(0, false))
	f.clock.Advance(150 * time.Millisecond)
	f.loop.Tick()

	assert.InDelta(t, 0.5, lines.Alpha(0), 1e-9)
	assert.Equal(t, 1.0, lines.Alpha(1))

	// Toggling back mid-fade continues from the current alpha.
	require.NoError(t, f.chart.SetSeriesVisible(0, true))
	assert.InDelta(t, 0.5, lines.Alpha(0), 1e-9)

	f.settle(t)
	assert.Equal(t, 1.0, lines.Alpha(0))
	layer := f.surface.Layer(chart.LayerLines)
	for _, op := range layer.OpsOf(surfacetest.OpPolyline) {
		assert.Equal(t, 1.0, op.Paint.Alpha)
	}
}

func TestAllHidden_DrawsNothing(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)

	require.NoError(t, f.chart.SetSeriesVisible(0, false))
	require.NoError(t, f.chart.SetSeriesVisible(1, false))
	f.settle(t)

	assert.Equal(t, chart.Scale{}, f.chart.Scale())
	assert.Empty(t, f.surface.Layer(chart.LayerLines).Ops())
	assert.Empty(t, f.surface.Layer(chart.LayerYAxis).Texts())
	assert.True(t, isFinite(f.chart.Transform().YRatio()))

	require.NoError(t, f.chart.SetVisibleRange(2, 5))
	assert.False(t, f.loop.Active())
	assert.Equal(t, 386.0/3, f.chart.Transform().XRatio())
}

func TestDegenerateInputs(t *testing.T) {
	t.Parallel()

	t.Run("no labels", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, 400, 300, nil, []chart.SeriesSpec{{Name: "a"}}, chart.Overrides{})

		assert.Equal(t, chart.Window{}, f.chart.Window())
		assert.Equal(t, chart.Scale{}, f.chart.Scale())
		require.NoError(t, f.chart.SetVisibleRange(3, 5))
		require.NoError(t, f.chart.SetSeriesVisible(0, false))
		f.chart.PointerMove(100, 100)
		preview, _ := f.preview(t)
		preview.PointerDown(5, 50)
		preview.PointerMove(300, 50)
		preview.PointerUp(300, 50)
		f.settle(t)
	})

	t.Run("single sample", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, 400, 300, makeLabels(1),
			[]chart.SeriesSpec{{Name: "a", Values: []float64{5}}}, chart.Overrides{})

		assert.Equal(t, chart.Window{}, f.chart.Window())
		assert.Equal(t, 5.0, f.chart.Scale().Max)
		assert.Equal(t, 1.0, f.chart.Transform().XRatio())
		f.chart.PointerMove(200, 100)
		assert.Len(t, f.surface.Layer(chart.LayerTooltip).Texts(), 2)
	})

	t.Run("non-finite values", func(t *testing.T) {
		t.Parallel()
		nan := math.NaN()
		f := newFixture(t, 400, 300, makeLabels(5),
			[]chart.SeriesSpec{{Name: "a", Values: []float64{1, nan, 3, 4, math.Inf(1)}}},
			chart.Overrides{})

		assert.Equal(t, 4.0, f.chart.Scale().Max)
		lines := f.surface.Layer(chart.LayerLines).OpsOf(surfacetest.OpPolyline)
		require.Len(t, lines, 2)
		assert.Len(t, lines[0].Points, 1)
		assert.Len(t, lines[1].Points, 2)
	})
}

func TestDestroy(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)
	preview, _ := f.preview(t)
	require.NoError(t, f.chart.SetVisibleRange(2, 5))

	f.chart.Destroy()
	f.chart.Destroy()

	assert.True(t, f.chart.Destroyed())
	assert.True(t, preview.Destroyed())
	assert.False(t, f.loop.Active())
	require.ErrorIs(t, f.chart.SetVisibleRange(0, 9), chart.ErrDestroyed)
	require.ErrorIs(t, f.chart.SetSeriesVisible(0, false), chart.ErrDestroyed)
	require.ErrorIs(t, f.chart.UpdateOptions(chart.NightTheme()), chart.ErrDestroyed)

	before := clearCounts(f.surface)
	f.chart.PointerMove(100, 100)
	f.chart.PointerDown(10, 30)
	f.loop.Tick()
	assert.Equal(t, before, clearCounts(f.surface))
	assert.Equal(t, chart.CursorDefault, f.chart.Cursor(10, 30))
}

func TestPreviewDrag_DrivesMainChart(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)
	preview, _ := f.preview(t)

	preview.PointerDown(5, 50)
	require.Equal(t, chart.DragResizeLeft, preview.Selection().Mode())
	preview.PointerMove(200, 50)

	assert.Equal(t, chart.Window{Start: 5, End: 9}, f.chart.Window())
	left, _ := preview.Selection().Edges()
	assert.Equal(t, 200.0, left, "the band follows the pointer during a gesture")

	preview.PointerUp(200, 50)
	assert.Equal(t, chart.DragNone, preview.Selection().Mode())
	f.settle(t)
	assert.Equal(t, 386.0/4, f.chart.Transform().XRatio())

	require.NoError(t, f.chart.SetVisibleRange(0, 9))
	left, right := preview.Selection().Edges()
	assert.Equal(t, 5.0, left)
	assert.Equal(t, 395.0, right)
}

func TestPreviewDrag_RepeatedAfterExternalWindowChange(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)
	preview, _ := f.preview(t)

	drag := func() {
		preview.PointerDown(5, 50)
		preview.PointerMove(200, 50)
		preview.PointerUp(200, 50)
	}

	drag()
	require.Equal(t, chart.Window{Start: 5, End: 9}, f.chart.Window())

	require.NoError(t, f.chart.SetVisibleRange(0, 9))
	left, _ := preview.Selection().Edges()
	require.Equal(t, 5.0, left)

	drag()
	start, end := preview.Selection().Indices()
	assert.Equal(t, chart.Window{Start: float64(start), End: float64(end)}, f.chart.Window())
	assert.Equal(t, chart.Window{Start: 5, End: 9}, f.chart.Window())
}

func TestLegendClick_TogglesSeries(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)
	preview, _ := f.preview(t)

	assert.Equal(t, chart.CursorPointer, f.chart.Cursor(10, 30))
	f.chart.PointerDown(10, 30)

	assert.False(t, f.chart.SeriesVisible(0))
	assert.False(t, preview.SeriesVisible(0))
	assert.True(t, f.chart.SeriesVisible(1))

	legend := f.surface.Layer(chart.LayerLegend)
	assert.Len(t, legend.OpsOf(surfacetest.OpStrokeRect), 1, "hidden series has a hollow swatch")
	assert.Len(t, legend.OpsOf(surfacetest.OpFillRect), 1)
}

func TestTooltip_ShowsHoveredValues(t *testing.T) {
	t.Parallel()
	f := oneSeries(t)
	layer := f.surface.Layer(chart.LayerTooltip)

	f.chart.PointerMove(7, 100)

	texts := lo.Map(layer.Texts(), func(op surfacetest.Op, _ int) string { return op.Text })
	assert.Equal(t, []string{"Mon, Jan 1", "1 a"}, texts)
	assert.Len(t, layer.OpsOf(surfacetest.OpCircle), 1)
	idx, ok := f.chart.Tooltip().Index()
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	f.chart.PointerMove(7+3*386/9, 100)
	idx, _ = f.chart.Tooltip().Index()
	assert.Equal(t, 3, idx)

	f.chart.PointerLeave()
	assert.Empty(t, layer.Ops())

	f.chart.PointerMove(7, 10)
	assert.Empty(t, layer.Ops(), "outside the plot")
}

func TestXAxis_FadesBetweenTickSets(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 400, 300, makeLabels(100),
		[]chart.SeriesSpec{{Name: "a", Values: ramp(100, 1)}}, chart.Overrides{})
	xaxis := f.chart.XAxis()
	require.Equal(t, []int{5, 15, 25, 35, 45, 55, 65, 75, 85, 95}, xaxis.Ticks())

	require.NoError(t, f.chart.SetVisibleRange(0, 20))
	require.True(t, f.chart.Transitions().XTicks)
	f.clock.Advance(150 * time.Millisecond)
	f.loop.Tick()

	faded := lo.Filter(f.surface.Layer(chart.LayerXAxis).Texts(), func(op surfacetest.Op, _ int) bool {
		return op.Paint.Alpha > 0 && op.Paint.Alpha < 1
	})
	assert.NotEmpty(t, faded)

	f.settle(t)
	ticks := xaxis.Ticks()
	require.Len(t, ticks, 33)
	assert.Equal(t, 1, ticks[0])
	assert.Equal(t, 97, ticks[32])
}

func TestXAxis_SupersededFadeStartsFromCommitted(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 400, 300, makeLabels(100),
		[]chart.SeriesSpec{{Name: "a", Values: ramp(100, 1)}}, chart.Overrides{})
	committed := f.chart.XAxis().Ticks()

	require.NoError(t, f.chart.SetVisibleRange(0, 20))
	f.clock.Advance(100 * time.Millisecond)
	f.loop.Tick()
	require.NoError(t, f.chart.SetVisibleRange(0, 99))

	assert.False(t, f.chart.Transitions().XTicks, "returning to the committed set snaps")
	assert.Equal(t, committed, f.chart.XAxis().Ticks())
}

func TestPaintStateIsScopedPerLayer(t *testing.T) {
	t.Parallel()
	f := twoSeries(t)
	require.NoError(t, f.chart.SetSeriesVisible(0, false))
	f.chart.PointerMove(100, 100)
	f.clock.Advance(100 * time.Millisecond)
	f.loop.Tick()

	for _, l := range f.surface.Layers() {
		assert.Equal(t, surface.DefaultPaint(), l.(*surfacetest.Layer).Paint(), l.Name())
	}
}

func TestRandomInteraction_NeverPanics(t *testing.T) {
	t.Parallel()
	f := newFixture(t, 400, 300, makeLabels(60), []chart.SeriesSpec{
		{Name: "a", Values: ramp(60, 3)},
		{Name: "b", Values: ramp(60, 7)},
		{Name: "c", Values: ramp(60, 0.5)},
	}, chart.Overrides{})
	preview, _ := f.preview(t)
	rng := rand.New(rand.NewPCG(3, 4))

	assert.NotPanics(t, func() {
		for range 500 {
			switch rng.IntN(7) {
			case 0:
				_ = f.chart.SetVisibleRange(rng.Float64()*70-5, rng.Float64()*70-5)
			case 1:
				_ = f.chart.SetSeriesVisible(rng.IntN(3), rng.IntN(2) == 0)
			case 2:
				preview.PointerDown(rng.IntN(400), 50)
			case 3:
				preview.PointerMove(rng.IntN(420)-10, 50)
			case 4:
				preview.PointerUp(rng.IntN(400), 50)
			case 5:
				f.chart.PointerMove(rng.IntN(400), rng.IntN(300))
			default:
				f.clock.Advance(frame * time.Duration(rng.IntN(10)))
				f.loop.Tick()
			}
			assert.True(t, isFinite(f.chart.Transform().XRatio()))
			assert.True(t, isFinite(f.chart.Transform().YRatio()))
			w := f.chart.Window()
			assert.True(t, 0 <= w.Start && w.Start <= w.End && w.End <= 59)
		}
		f.settle(t)
	})
}

func selectionFixture(t *testing.T, target chart.RangeTarget) fixture {
	t.Helper()
	return newFixture(t, 210, 100, makeLabels(100),
		[]chart.SeriesSpec{{Name: "a", Values: ramp(100, 1)}},
		chart.Overrides{
			Selection: &chart.SelectionOverrides{Display: lo.ToPtr(true)},
			Legend:    &chart.LegendOverrides{Display: lo.ToPtr(false)},
			Preview:   &chart.PreviewOverrides{Display: lo.ToPtr(false)},
		},
		chart.WithRangeTarget(target))
}

func TestSelection_ResizeLeftClampsAtMinimumWidth(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	target := charttest.NewMockRangeTarget(ctrl)
	target.EXPECT().SetVisibleRange(95.0, 99.0).Return(nil).Times(1)
	f := selectionFixture(t, target)
	sel := f.chart.Selection()
	require.Equal(t, 200.0, sel.TrackWidth())

	f.chart.PointerDown(5, 80)
	require.Equal(t, chart.DragResizeLeft, sel.Mode())
	f.chart.PointerMove(300, 80)
	f.chart.PointerMove(250, 80)
	f.chart.PointerUp(250, 80)

	left, right := sel.Edges()
	assert.Equal(t, 195.0, left)
	assert.Equal(t, 205.0, right)
	assert.Equal(t, 0.05*sel.TrackWidth(), right-left)
}

func TestSelection_DispatchesOnlyChangedWindows(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	target := charttest.NewMockRangeTarget(ctrl)
	gomock.InOrder(
		target.EXPECT().SetVisibleRange(50.0, 99.0).Return(nil),
		target.EXPECT().SetVisibleRange(51.0, 99.0).Return(nil),
	)
	f := selectionFixture(t, target)

	f.chart.PointerDown(5, 80)
	f.chart.PointerMove(105, 80)
	f.chart.PointerMove(105, 80)
	f.chart.PointerMove(106, 80)
	f.chart.PointerUp(106, 80)
}

func TestSelection_EachGestureDispatchesItsWindow(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	target := charttest.NewMockRangeTarget(ctrl)
	target.EXPECT().SetVisibleRange(50.0, 99.0).Return(nil).Times(2)
	f := selectionFixture(t, target)

	f.chart.PointerDown(5, 80)
	f.chart.PointerMove(105, 80)
	f.chart.PointerUp(105, 80)

	f.chart.PointerDown(105, 80)
	require.Equal(t, chart.DragResizeLeft, f.chart.Selection().Mode())
	f.chart.PointerUp(105, 80)
}

func TestSelection_DragPreservesWidth(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	target := charttest.NewMockRangeTarget(ctrl)
	target.EXPECT().SetVisibleRange(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f := selectionFixture(t, target)
	sel := f.chart.Selection()

	f.chart.PointerDown(5, 80)
	f.chart.PointerMove(105, 80)
	f.chart.PointerUp(105, 80)

	assert.Equal(t, chart.CursorGrab, f.chart.Cursor(150, 80))
	assert.Equal(t, chart.CursorResize, f.chart.Cursor(107, 80))
	assert.Equal(t, chart.CursorDefault, f.chart.Cursor(50, 80))

	f.chart.PointerDown(150, 80)
	require.Equal(t, chart.DragMove, sel.Mode())

	f.chart.PointerMove(100, 80)
	left, right := sel.Edges()
	assert.Equal(t, [2]float64{55, 155}, [2]float64{left, right})

	f.chart.PointerMove(0, 80)
	left, right = sel.Edges()
	assert.Equal(t, [2]float64{5, 105}, [2]float64{left, right})

	f.chart.PointerMove(400, 80)
	left, right = sel.Edges()
	assert.Equal(t, [2]float64{105, 205}, [2]float64{left, right})
	f.chart.PointerUp(400, 80)
}

func TestSelection_MinimumWidthHoldsForAnyResizeSequence(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	target := charttest.NewMockRangeTarget(ctrl)
	target.EXPECT().SetVisibleRange(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f := selectionFixture(t, target)
	sel := f.chart.Selection()
	rng := rand.New(rand.NewPCG(5, 6))

	for range 300 {
		left, right := sel.Edges()
		edge := left
		if rng.IntN(2) == 0 {
			edge = right
		}
		f.chart.PointerDown(int(math.Round(edge)), 80)
		for range rng.IntN(5) + 1 {
			f.chart.PointerMove(rng.IntN(260)-30, 80)
			l, r := sel.Edges()
			require.GreaterOrEqual(t, r-l, sel.MinWidth()-1e-9)
			require.GreaterOrEqual(t, l, 5.0)
			require.LessOrEqual(t, r, 205.0)
		}
		f.chart.PointerUp(0, 80)
	}
}

func TestSelection_TargetErrorIsLogged(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	target := charttest.NewMockRangeTarget(ctrl)
	target.EXPECT().SetVisibleRange(gomock.Any(), gomock.Any()).Return(chart.ErrDestroyed)
	f := selectionFixture(t, target)

	f.chart.PointerDown(5, 80)
	assert.NotPanics(t, func() { f.chart.PointerMove(50, 80) })
}

func TestUpdateOptions(t *testing.T) {
	t.Parallel()

	t.Run("theme reaches the preview", func(t *testing.T) {
		t.Parallel()
		f := oneSeries(t)
		preview, _ := f.preview(t)

		require.NoError(t, f.chart.UpdateOptions(chart.NightTheme()))

		assert.Equal(t, "#242f3e", f.chart.Options().Background)
		assert.Equal(t, "#40566b", preview.Options().Selection.BorderColor)
		assert.Equal(t, chart.DefaultXTicks, f.chart.Options().XAxis.TotalTicks)
		assert.Nil(t, preview.Options().Preview)
	})

	t.Run("invalid options are rejected", func(t *testing.T) {
		t.Parallel()
		f := oneSeries(t)

		err := f.chart.UpdateOptions(chart.Overrides{
			XAxis: &chart.AxisOverrides{TotalTicks: lo.ToPtr(0)},
		})

		require.ErrorIs(t, err, chart.ErrInvalidOptions)
		assert.Equal(t, chart.DefaultXTicks, f.chart.Options().XAxis.TotalTicks)
	})

	t.Run("hiding the legend grows the plot", func(t *testing.T) {
		t.Parallel()
		f := oneSeries(t)

		require.NoError(t, f.chart.UpdateOptions(chart.Overrides{
			Legend: &chart.LegendOverrides{Display: lo.ToPtr(false)},
		}))

		assert.Equal(t, 20, f.chart.Transform().Insets().Top)
		assert.Equal(t, 255.0/10, f.chart.Transform().YRatio())
		assert.Empty(t, f.surface.Layer(chart.LayerLegend).Ops())
	})

	t.Run("preview can be hidden and shown", func(t *testing.T) {
		t.Parallel()
		f := oneSeries(t)

		require.NoError(t, f.chart.UpdateOptions(chart.Overrides{
			Preview: &chart.PreviewOverrides{Display: lo.ToPtr(false)},
		}))
		assert.Nil(t, f.chart.Preview())

		require.NoError(t, f.chart.UpdateOptions(chart.Overrides{
			Preview: &chart.PreviewOverrides{Display: lo.ToPtr(true)},
		}))
		assert.NotNil(t, f.chart.Preview())
	})

	t.Run("hidden preview tracks the window without drawing", func(t *testing.T) {
		t.Parallel()
		f := oneSeries(t)
		preview, ps := f.preview(t)

		require.NoError(t, f.chart.UpdateOptions(chart.Overrides{
			Preview: &chart.PreviewOverrides{Display: lo.ToPtr(false)},
		}))
		before := clearCounts(ps)

		require.NoError(t, f.chart.SetVisibleRange(5, 9))
		f.settle(t)
		assert.Equal(t, before, clearCounts(ps))
		left, _ := preview.Selection().Edges()
		assert.Equal(t, 5+5*390.0/10, left)

		require.NoError(t, f.chart.UpdateOptions(chart.Overrides{
			Preview: &chart.PreviewOverrides{Display: lo.ToPtr(true)},
		}))
		assert.Greater(t, clearCounts(ps)["aselection"], before["aselection"])
	})

	t.Run("preview cannot be added later", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t, 400, 300, makeLabels(3),
			[]chart.SeriesSpec{{Name: "a", Values: []float64{1, 2, 3}}},
			chart.Overrides{Preview: &chart.PreviewOverrides{Display: lo.ToPtr(false)}})

		err := f.chart.UpdateOptions(chart.Overrides{
			Preview: &chart.PreviewOverrides{Display: lo.ToPtr(true)},
		})

		require.ErrorIs(t, err, chart.ErrInvalidOptions)
	})
}
