package chart

import (
	"errors"
	"fmt"
	"time"

	"github.com/wandb/leetchart/internal/surface"
	"github.com/wandb/leetchart/internal/viewport"
)

// Default option values.
const (
	DefaultYTicks          = 6
	DefaultXTicks          = 8
	DefaultAnimation       = 300 * time.Millisecond
	DefaultHeight          = 400
	DefaultPreviewHeight   = 100
	DefaultLegendHeight    = 30
	DefaultBorderWidth     = 5
	DefaultSelectionAlpha  = 0.75
	DefaultLineWidth       = 2.0
	DefaultBackgroundColor = "#ffffff"
)

// AxisOptions configures one axis.
//
// UnderlineColor is the gridline color and only applies to the y axis.
// The y axis Animation also times the vertical rescale and series fades.
type AxisOptions struct {
	Display        bool
	TotalTicks     int
	Animation      time.Duration
	Color          string
	UnderlineColor string
}

type TooltipOptions struct {
	Display         bool
	TextColor       string
	Color           string
	BackgroundColor string
}

// LegendOptions configures the legend strip drawn above the plot.
// Height is the strip height in pixels; it is added to the top inset while
// the legend is displayed.
type LegendOptions struct {
	Display     bool
	Height      int
	BorderColor string
	TextColor   string
}

// SelectionOptions configures the range selection band.
// BorderWidth is both the drawn handle width and the hit tolerance.
type SelectionOptions struct {
	Display         bool
	BackgroundAlpha float64
	BackgroundColor string
	BorderColor     string
	BorderWidth     int
}

type LinesOptions struct {
	LineWidth float64
}

// Options is a fully resolved chart configuration.
type Options struct {
	XAxis     AxisOptions
	YAxis     AxisOptions
	Tooltip   TooltipOptions
	Legend    LegendOptions
	Selection SelectionOptions
	Lines     LinesOptions

	// Height is the preferred surface height. Surfaces are sized by the
	// caller; only the preview height is used by the chart itself.
	Height     int
	Insets     viewport.Insets
	Background string

	// Preview is the nested preview chart, or nil for none.
	Preview *PreviewOptions
}

type PreviewOptions struct {
	Display bool
	Options Options
}

// DefaultOptions returns the main chart defaults: both axes, legend and
// tooltip shown, no selection band, and one preview chart.
func DefaultOptions() Options {
	preview := DefaultPreviewOptions()
	return Options{
		XAxis: AxisOptions{
			Display:    true,
			TotalTicks: DefaultXTicks,
			Animation:  DefaultAnimation,
			Color:      "#96a2aa",
		},
		YAxis: AxisOptions{
			Display:        true,
			TotalTicks:     DefaultYTicks,
			Animation:      DefaultAnimation,
			Color:          "#96a2aa",
			UnderlineColor: "#f2f4f5",
		},
		Tooltip: TooltipOptions{
			Display:         true,
			TextColor:       "#000000",
			Color:           "#dfe6eb",
			BackgroundColor: "#ffffff",
		},
		Legend: LegendOptions{
			Display:     true,
			Height:      DefaultLegendHeight,
			BorderColor: "#e6ecf0",
			TextColor:   "#000000",
		},
		Selection: SelectionOptions{
			Display:         false,
			BackgroundAlpha: DefaultSelectionAlpha,
			BackgroundColor: "#f5f9fb",
			BorderColor:     "#ddeaf3",
			BorderWidth:     DefaultBorderWidth,
		},
		Lines:      LinesOptions{LineWidth: DefaultLineWidth},
		Height:     DefaultHeight,
		Insets:     viewport.Insets{Top: 20, Right: 7, Bottom: 25, Left: 7},
		Background: DefaultBackgroundColor,
		Preview:    &PreviewOptions{Display: true, Options: preview},
	}
}

// DefaultPreviewOptions returns the preview chart defaults: no axes,
// legend or tooltip, a visible selection band and no nested preview.
func DefaultPreviewOptions() Options {
	o := Options{
		XAxis: AxisOptions{
			TotalTicks: DefaultXTicks,
			Animation:  DefaultAnimation,
			Color:      "#96a2aa",
		},
		YAxis: AxisOptions{
			TotalTicks:     DefaultYTicks,
			Animation:      DefaultAnimation,
			Color:          "#96a2aa",
			UnderlineColor: "#f2f4f5",
		},
		Tooltip: TooltipOptions{
			TextColor:       "#000000",
			Color:           "#dfe6eb",
			BackgroundColor: "#ffffff",
		},
		Legend: LegendOptions{
			Height:      DefaultLegendHeight,
			BorderColor: "#e6ecf0",
			TextColor:   "#000000",
		},
		Selection: SelectionOptions{
			Display:         true,
			BackgroundAlpha: DefaultSelectionAlpha,
			BackgroundColor: "#f5f9fb",
			BorderColor:     "#ddeaf3",
			BorderWidth:     DefaultBorderWidth,
		},
		Lines:      LinesOptions{LineWidth: 1},
		Height:     DefaultPreviewHeight,
		Insets:     viewport.Insets{Top: 5, Right: 0, Bottom: 5, Left: 0},
		Background: DefaultBackgroundColor,
	}
	return o
}

// PlotInsets returns the insets of the plot area, including the legend
// strip when the legend is displayed.
func (o Options) PlotInsets() viewport.Insets {
	in := o.Insets
	if o.Legend.Display {
		in.Top += o.Legend.Height
	}
	return in
}

// Validate reports every problem with o, wrapped in ErrInvalidOptions.
func (o Options) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}
	checkColor := func(name, value string) {
		if _, err := surface.ParseColor(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %v", name, err))
		}
	}

	for _, axis := range []struct {
		name string
		AxisOptions
	}{{"xAxis", o.XAxis}, {"yAxis", o.YAxis}} {
		check(axis.TotalTicks >= 2, "%s.totalTicks must be at least 2, got %d", axis.name, axis.TotalTicks)
		check(axis.Animation >= 0, "%s.animation must not be negative", axis.name)
		checkColor(axis.name+".color", axis.Color)
	}
	checkColor("yAxis.underlineColor", o.YAxis.UnderlineColor)
	checkColor("tooltip.textColor", o.Tooltip.TextColor)
	checkColor("tooltip.color", o.Tooltip.Color)
	checkColor("tooltip.backgroundColor", o.Tooltip.BackgroundColor)
	check(o.Legend.Height >= 0, "legend.height must not be negative")
	checkColor("legend.borderColor", o.Legend.BorderColor)
	checkColor("legend.textColor", o.Legend.TextColor)
	check(o.Selection.BackgroundAlpha >= 0 && o.Selection.BackgroundAlpha <= 1,
		"selection.backgroundAlpha must be within [0, 1], got %v", o.Selection.BackgroundAlpha)
	check(o.Selection.BorderWidth >= 1, "selection.borderWidth must be positive")
	checkColor("selection.backgroundColor", o.Selection.BackgroundColor)
	checkColor("selection.borderColor", o.Selection.BorderColor)
	check(o.Lines.LineWidth > 0, "lines.lineWidth must be positive")
	check(o.Height > 0, "height must be positive, got %d", o.Height)
	in := o.Insets
	check(in.Top >= 0 && in.Right >= 0 && in.Bottom >= 0 && in.Left >= 0,
		"insets must not be negative, got %+v", in)
	checkColor("background", o.Background)

	if o.Preview != nil && o.Preview.Display {
		if err := o.Preview.Options.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("preview: %v", err))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidOptions, errors.Join(errs...))
}
