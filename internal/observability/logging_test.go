package observability_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandb/leetchart/internal/observability"
	"github.com/wandb/leetchart/internal/observabilitytest"
)

func TestNewTags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		input  []any
		expect observability.Tags
	}{
		{
			name:   "slog.Attr",
			input:  []any{slog.Int64("key1", 123)},
			expect: observability.Tags{"key1": "123"},
		},
		{
			name:   "string and int",
			input:  []any{"key2", 456},
			expect: observability.Tags{"key2": "456"},
		},
		{
			name:   "incomplete pair",
			input:  []any{slog.Int64("key6", 123), "key7"},
			expect: observability.Tags{"key6": "123"},
		},
		{
			name:   "empty",
			input:  []any{},
			expect: observability.Tags{},
		},
		{
			name: "unsupported types are skipped",
			input: []any{
				map[string]string{"key9": "value9"},
				"key10",
				10,
			},
			expect: observability.Tags{"key10": "10"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expect, observability.NewTags(tc.input...))
		})
	}
}

func TestNewNoOpLogger(t *testing.T) {
	t.Parallel()
	logger := observability.NewNoOpLogger()

	assert.NotNil(t, logger.Logger)
	assert.Equal(t, observability.Tags{}, logger.GetTags())
	logger.CaptureError(errors.New("ignored"))
}

func TestCaptureError_SendsTaggedEvent(t *testing.T) {
	t.Parallel()
	logger, logs, transport := observabilitytest.NewSentryTestLogger(t)

	logger.CaptureError(errors.New("render failed"), "chart", "cpu")

	events := transport.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "cpu", events[0].Tags["chart"])

	records := observabilitytest.ExtractLogs(t, logs)
	require.Len(t, records, 1)
	assert.Equal(t, "ERROR", records[0]["level"])
	assert.Equal(t, "render failed", records[0]["msg"])
}

func TestCaptureWarn_DeduplicatesMessages(t *testing.T) {
	t.Parallel()
	logger, _, transport := observabilitytest.NewSentryTestLogger(t)

	logger.CaptureWarn("slow frame")
	logger.CaptureWarn("slow frame")

	assert.Len(t, transport.Events(), 1)
}

func TestWith_KeepsSentry(t *testing.T) {
	t.Parallel()
	logger, _, transport := observabilitytest.NewSentryTestLogger(t)

	logger.With("component", "legend").CaptureInfo("toggled")

	assert.Len(t, transport.Events(), 1)
}
