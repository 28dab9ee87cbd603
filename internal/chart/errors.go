package chart

import "errors"

var (
	// ErrInvalidSurface is returned when a chart cannot draw on its surface.
	ErrInvalidSurface = errors.New("chart: invalid surface")

	// ErrInvalidOptions is returned for options that fail validation.
	ErrInvalidOptions = errors.New("chart: invalid options")

	// ErrInvalidSeries is returned for series that do not match the labels.
	ErrInvalidSeries = errors.New("chart: invalid series")

	// ErrSeriesIndex is returned for a series index outside the chart.
	ErrSeriesIndex = errors.New("chart: series index out of range")

	// ErrDestroyed is returned by operations on a destroyed chart.
	ErrDestroyed = errors.New("chart: destroyed")
)
