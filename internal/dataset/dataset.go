// Package dataset loads chart data files.
//
// A file holds one chart object or an array of them:
//
//	{
//	  "title": "followers",
//	  "columns": [["x", 1542412800000, ...], ["y0", 37, ...]],
//	  "types": {"x": "x", "y0": "line"},
//	  "names": {"y0": "Joined"},
//	  "colors": {"y0": "#3DC23F"}
//	}
//
// x values are unix milliseconds. A null y value, or one of the strings
// "NaN", "Infinity" and "-Infinity", is a gap in the line.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/wandb/simplejsonext"

	"github.com/wandb/leetchart/internal/chart"
)

const (
	typeX    = "x"
	typeLine = "line"
)

var ErrInvalidDataset = errors.New("dataset: invalid data")

// Chart is one decoded chart.
type Chart struct {
	Title  string
	Labels []time.Time
	Series []Series
}

// Series is one y column.
type Series struct {
	Key    string
	Name   string
	Color  string
	Values []float64
}

// Specs converts the series for chart.New.
func (c Chart) Specs() []chart.SeriesSpec {
	return lo.Map(c.Series, func(s Series, _ int) chart.SeriesSpec {
		return chart.SeriesSpec{Name: s.Name, Color: s.Color, Values: s.Values}
	})
}

// Load reads and decodes path from fs.
func Load(fs afero.Fs, path string) ([]Chart, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: %v", err)
	}
	defer func() { _ = f.Close() }()

	raw, err := simplejsonext.NewParser(f).UnmarshalFull()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDataset, path, err)
	}
	charts, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return charts, nil
}

// Parse decodes a dataset held in memory.
func Parse(data []byte) ([]Chart, error) {
	raw, err := simplejsonext.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	return decode(raw)
}

func decode(raw any) ([]Chart, error) {
	var objects []any
	switch v := raw.(type) {
	case []any:
		objects = v
	case map[string]any:
		objects = []any{v}
	default:
		return nil, fmt.Errorf("%w: expected an object or array, got %T", ErrInvalidDataset, raw)
	}

	charts := make([]Chart, 0, len(objects))
	for i, obj := range objects {
		m, ok := obj.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: chart %d: expected an object, got %T", ErrInvalidDataset, i, obj)
		}
		c, err := decodeChart(m)
		if err != nil {
			return nil, fmt.Errorf("chart %d: %w", i, err)
		}
		if c.Title == "" {
			c.Title = fmt.Sprintf("chart %d", i+1)
		}
		charts = append(charts, c)
	}
	return charts, nil
}

func decodeChart(m map[string]any) (Chart, error) {
	types, err := stringMap(m, "types")
	if err != nil {
		return Chart{}, err
	}
	names, err := stringMap(m, "names")
	if err != nil {
		return Chart{}, err
	}
	colors, err := stringMap(m, "colors")
	if err != nil {
		return Chart{}, err
	}
	title, _ := m["title"].(string)

	columns, ok := m["columns"].([]any)
	if !ok {
		return Chart{}, fmt.Errorf("%w: missing columns", ErrInvalidDataset)
	}

	c := Chart{Title: title}
	haveX := false
	length := -1
	for i, col := range columns {
		values, ok := col.([]any)
		if !ok || len(values) == 0 {
			return Chart{}, fmt.Errorf("%w: column %d is not a non-empty array", ErrInvalidDataset, i)
		}
		key, ok := values[0].(string)
		if !ok {
			return Chart{}, fmt.Errorf("%w: column %d has no key", ErrInvalidDataset, i)
		}
		values = values[1:]
		if length >= 0 && len(values) != length {
			return Chart{}, fmt.Errorf(
				"%w: column %q has %d values, expected %d", ErrInvalidDataset, key, len(values), length)
		}
		length = len(values)

		switch types[key] {
		case typeX:
			if haveX {
				return Chart{}, fmt.Errorf("%w: more than one x column", ErrInvalidDataset)
			}
			haveX = true
			c.Labels, err = decodeLabels(key, values)
		case typeLine:
			var s Series
			s, err = decodeSeries(key, values)
			s.Name = names[key]
			if s.Name == "" {
				s.Name = key
			}
			s.Color = colors[key]
			c.Series = append(c.Series, s)
		case "":
			err = fmt.Errorf("%w: column %q has no type", ErrInvalidDataset, key)
		default:
			err = fmt.Errorf("%w: column %q has unknown type %q", ErrInvalidDataset, key, types[key])
		}
		if err != nil {
			return Chart{}, err
		}
	}
	if !haveX {
		return Chart{}, fmt.Errorf("%w: missing x column", ErrInvalidDataset)
	}
	return c, nil
}

func stringMap(m map[string]any, field string) (map[string]string, error) {
	raw, ok := m[field]
	if !ok || raw == nil {
		return map[string]string{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be an object", ErrInvalidDataset, field)
	}
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s must be a string", ErrInvalidDataset, field, k)
		}
		out[k] = s
	}
	return out, nil
}

func decodeLabels(key string, values []any) ([]time.Time, error) {
	labels := make([]time.Time, len(values))
	for i, v := range values {
		var ms int64
		switch n := v.(type) {
		case int64:
			ms = n
		case float64:
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, fmt.Errorf("%w: %s[%d] is not a timestamp", ErrInvalidDataset, key, i)
			}
			ms = int64(n)
		default:
			return nil, fmt.Errorf("%w: %s[%d] is not a timestamp: %v", ErrInvalidDataset, key, i, v)
		}
		labels[i] = time.UnixMilli(ms).UTC()
	}
	return labels, nil
}

func decodeSeries(key string, values []any) (Series, error) {
	s := Series{Key: key, Values: make([]float64, len(values))}
	for i, v := range values {
		f, err := toFloat(v)
		if err != nil {
			return Series{}, fmt.Errorf("%w: %s[%d]: %v", ErrInvalidDataset, key, i, err)
		}
		s.Values[i] = f
	}
	return s, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case nil:
		return math.NaN(), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		switch n {
		case "NaN":
			return math.NaN(), nil
		case "Infinity":
			return math.Inf(1), nil
		case "-Infinity":
			return math.Inf(-1), nil
		}
	}
	return 0, fmt.Errorf("not a number: %v", v)
}
