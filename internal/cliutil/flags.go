package cliutil

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wandb/leetchart/internal/chart"
)

// GetString returns the flag value, falling back to the environment
// variable env when the flag was not set.
func GetString(cmd *cobra.Command, flag, env string) string {
	value, _ := cmd.Flags().GetString(flag)
	if value != "" || cmd.Flags().Changed(flag) {
		return value
	}
	return os.Getenv(env)
}

// GetBool is GetString for boolean flags. Unparsable environment values
// count as false.
func GetBool(cmd *cobra.Command, flag, env string) bool {
	if cmd.Flags().Changed(flag) {
		value, _ := cmd.Flags().GetBool(flag)
		return value
	}
	value, _ := strconv.ParseBool(os.Getenv(env))
	return value
}

// ParseWindow parses "start:end" label indices. Either bound may be
// fractional.
func ParseWindow(s string) (chart.Window, error) {
	startStr, endStr, ok := strings.Cut(s, ":")
	if !ok {
		return chart.Window{}, fmt.Errorf("invalid window %q, expected start:end", s)
	}
	start, err := strconv.ParseFloat(strings.TrimSpace(startStr), 64)
	if err != nil {
		return chart.Window{}, fmt.Errorf("invalid window start %q: %v", startStr, err)
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(endStr), 64)
	if err != nil {
		return chart.Window{}, fmt.Errorf("invalid window end %q: %v", endStr, err)
	}
	return chart.Window{Start: start, End: end}, nil
}

// ParseIndices parses a comma separated list of series indices.
func ParseIndices(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid series index %q: %v", part, err)
		}
		if i < 0 {
			return nil, fmt.Errorf("invalid series index %d", i)
		}
		out = append(out, i)
	}
	return out, nil
}
