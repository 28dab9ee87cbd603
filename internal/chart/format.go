package chart

import (
	"math"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// Label layouts.
const (
	AxisDateLayout    = "Jan 2"
	TooltipDateLayout = "Mon, Jan 2"
)

// FormatValue formats a y value compactly, with k and M suffixes for large
// magnitudes and an m suffix for small ones.
func FormatValue(value float64) string {
	if value == 0 {
		return "0"
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	if value < 0 {
		return "-" + FormatValue(-value)
	}

	switch {
	case value >= 1000000:
		return formatFloat(value/1000000, 1) + "M"
	case value >= 1000:
		return formatFloat(value/1000, 1) + "k"
	case value < 0.01:
		return formatFloat(value*1000, 1) + "m"
	case value < 1:
		return formatFloat(value, 2)
	case value < 10:
		return formatFloat(value, 1)
	default:
		return formatFloat(value, 0)
	}
}

// formatFloat formats value with at most decimals fractional digits,
// trimming trailing zeros.
func formatFloat(value float64, decimals int) string {
	formatted := strconv.FormatFloat(value, 'f', decimals, 64)

	if decimals > 0 && strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}

	if formatted == "" {
		formatted = "0"
	}
	return formatted
}

const labelCacheSize = 512

type labelKey struct {
	ms     int64
	layout string
}

// labelFormatter formats timestamps, caching the results since the same
// labels are drawn every frame.
type labelFormatter struct {
	cache *lru.Cache
}

func newLabelFormatter() *labelFormatter {
	// lru.New only fails for non-positive sizes.
	cache, _ := lru.New(labelCacheSize)
	return &labelFormatter{cache: cache}
}

func (f *labelFormatter) format(t time.Time, layout string) string {
	key := labelKey{ms: t.UnixMilli(), layout: layout}
	if s, ok := f.cache.Get(key); ok {
		return s.(string)
	}
	s := t.Format(layout)
	f.cache.Add(key, s)
	return s
}
