package chart

import (
	"time"

	"github.com/samber/lo"

	"github.com/wandb/leetchart/internal/viewport"
)

// Overrides is a partial Options. Nil fields keep the current value.
type Overrides struct {
	XAxis     *AxisOverrides
	YAxis     *AxisOverrides
	Tooltip   *TooltipOverrides
	Legend    *LegendOverrides
	Selection *SelectionOverrides
	Lines     *LinesOverrides

	Height     *int
	Insets     *viewport.Insets
	Background *string

	Preview *PreviewOverrides
}

type AxisOverrides struct {
	Display        *bool
	TotalTicks     *int
	Animation      *time.Duration
	Color          *string
	UnderlineColor *string
}

type TooltipOverrides struct {
	Display         *bool
	TextColor       *string
	Color           *string
	BackgroundColor *string
}

type LegendOverrides struct {
	Display     *bool
	Height      *int
	BorderColor *string
	TextColor   *string
}

type SelectionOverrides struct {
	Display         *bool
	BackgroundAlpha *float64
	BackgroundColor *string
	BorderColor     *string
	BorderWidth     *int
}

type LinesOverrides struct {
	LineWidth *float64
}

type PreviewOverrides struct {
	Display *bool
	Overrides
}

// Merge returns o with every non-nil field of ov applied.
//
// Sub-objects merge field by field, so overriding one axis color keeps the
// axis' other settings. A preview override on options without a preview
// starts from DefaultPreviewOptions.
func (o Options) Merge(ov Overrides) Options {
	out := o
	if ov.XAxis != nil {
		out.XAxis = out.XAxis.merge(*ov.XAxis)
	}
	if ov.YAxis != nil {
		out.YAxis = out.YAxis.merge(*ov.YAxis)
	}
	if t := ov.Tooltip; t != nil {
		set(&out.Tooltip.Display, t.Display)
		set(&out.Tooltip.TextColor, t.TextColor)
		set(&out.Tooltip.Color, t.Color)
		set(&out.Tooltip.BackgroundColor, t.BackgroundColor)
	}
	if l := ov.Legend; l != nil {
		set(&out.Legend.Display, l.Display)
		set(&out.Legend.Height, l.Height)
		set(&out.Legend.BorderColor, l.BorderColor)
		set(&out.Legend.TextColor, l.TextColor)
	}
	if s := ov.Selection; s != nil {
		set(&out.Selection.Display, s.Display)
		set(&out.Selection.BackgroundAlpha, s.BackgroundAlpha)
		set(&out.Selection.BackgroundColor, s.BackgroundColor)
		set(&out.Selection.BorderColor, s.BorderColor)
		set(&out.Selection.BorderWidth, s.BorderWidth)
	}
	if l := ov.Lines; l != nil {
		set(&out.Lines.LineWidth, l.LineWidth)
	}
	set(&out.Height, ov.Height)
	set(&out.Insets, ov.Insets)
	set(&out.Background, ov.Background)

	if p := ov.Preview; p != nil {
		preview := PreviewOptions{Display: true, Options: DefaultPreviewOptions()}
		if out.Preview != nil {
			preview = *out.Preview
		}
		set(&preview.Display, p.Display)
		preview.Options = preview.Options.Merge(p.Overrides)
		out.Preview = &preview
	}
	return out
}

func (a AxisOptions) merge(ov AxisOverrides) AxisOptions {
	set(&a.Display, ov.Display)
	set(&a.TotalTicks, ov.TotalTicks)
	set(&a.Animation, ov.Animation)
	set(&a.Color, ov.Color)
	set(&a.UnderlineColor, ov.UnderlineColor)
	return a
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// DayTheme is the light color scheme.
func DayTheme() Overrides {
	return theme(themeColors{
		background:          "#ffffff",
		axis:                "#96a2aa",
		underline:           "#f2f4f5",
		tooltipText:         "#000000",
		tooltipLine:         "#dfe6eb",
		tooltipBackground:   "#ffffff",
		legendBorder:        "#e6ecf0",
		legendText:          "#000000",
		selectionBorder:     "#ddeaf3",
		selectionBackground: "#f5f9fb",
	})
}

// NightTheme is the dark color scheme.
func NightTheme() Overrides {
	return theme(themeColors{
		background:          "#242f3e",
		axis:                "#546778",
		underline:           "#293544",
		tooltipText:         "#ffffff",
		tooltipLine:         "#3b4a5a",
		tooltipBackground:   "#253241",
		legendBorder:        "#344658",
		legendText:          "#ffffff",
		selectionBorder:     "#40566b",
		selectionBackground: "#1f2a38",
	})
}

type themeColors struct {
	background          string
	axis                string
	underline           string
	tooltipText         string
	tooltipLine         string
	tooltipBackground   string
	legendBorder        string
	legendText          string
	selectionBorder     string
	selectionBackground string
}

func theme(c themeColors) Overrides {
	colors := Overrides{
		XAxis: &AxisOverrides{Color: lo.ToPtr(c.axis)},
		YAxis: &AxisOverrides{
			Color:          lo.ToPtr(c.axis),
			UnderlineColor: lo.ToPtr(c.underline),
		},
		Tooltip: &TooltipOverrides{
			TextColor:       lo.ToPtr(c.tooltipText),
			Color:           lo.ToPtr(c.tooltipLine),
			BackgroundColor: lo.ToPtr(c.tooltipBackground),
		},
		Legend: &LegendOverrides{
			BorderColor: lo.ToPtr(c.legendBorder),
			TextColor:   lo.ToPtr(c.legendText),
		},
		Selection: &SelectionOverrides{
			BorderColor:     lo.ToPtr(c.selectionBorder),
			BackgroundColor: lo.ToPtr(c.selectionBackground),
		},
		Background: lo.ToPtr(c.background),
	}
	preview := colors
	colors.Preview = &PreviewOverrides{Overrides: preview}
	return colors
}
