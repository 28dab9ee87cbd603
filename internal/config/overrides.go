package config

import (
	"github.com/muesli/termenv"
	"github.com/samber/lo"

	"github.com/wandb/leetchart/internal/chart"
)

// hasDarkBackground reports the terminal background for ThemeAuto.
var hasDarkBackground = termenv.HasDarkBackground

// ResolvedTheme returns day or night, detecting the terminal background
// for auto.
func (c Config) ResolvedTheme() string {
	if c.Theme != ThemeAuto {
		return c.Theme
	}
	if hasDarkBackground() {
		return ThemeNight
	}
	return ThemeDay
}

// ChartOverrides turns the configuration into chart options for the
// resolved theme.
func (c Config) ChartOverrides() chart.Overrides {
	return c.ChartOverridesFor(c.ResolvedTheme())
}

// ChartOverridesFor is ChartOverrides with an explicit theme.
func (c Config) ChartOverridesFor(theme string) chart.Overrides {
	ov := chart.DayTheme()
	if theme == ThemeNight {
		ov = chart.NightTheme()
	}

	anim := c.Animation()
	x := lo.FromPtr(ov.XAxis)
	x.TotalTicks = lo.ToPtr(c.XTicks)
	x.Animation = lo.ToPtr(anim)
	ov.XAxis = &x

	y := lo.FromPtr(ov.YAxis)
	y.TotalTicks = lo.ToPtr(c.YTicks)
	y.Animation = lo.ToPtr(anim)
	ov.YAxis = &y

	ov.Height = lo.ToPtr(c.Height)

	preview := lo.FromPtr(ov.Preview)
	preview.Height = lo.ToPtr(c.PreviewHeight)
	py := lo.FromPtr(preview.YAxis)
	py.Animation = lo.ToPtr(anim)
	preview.YAxis = &py
	ov.Preview = &preview
	return ov
}
