package observabilitytest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"

	"github.com/wandb/leetchart/internal/observability"
	"github.com/wandb/leetchart/internal/sentry_ext"
)

// NewTestLogger returns a logger that's captured by the testing framework.
func NewTestLogger(t *testing.T) *observability.CoreLogger {
	t.Helper()
	return observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(t.Output(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})),
		nil,
	)
}

// NewRecordingTestLogger is like NewTestLogger but also returns a buffer
// that captures log messages.
func NewRecordingTestLogger(t *testing.T) (
	*observability.CoreLogger,
	*bytes.Buffer,
) {
	t.Helper()

	recordedLogs := &bytes.Buffer{}
	writer := io.MultiWriter(t.Output(), recordedLogs)

	return observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})),
		nil,
	), recordedLogs
}

// NewSentryTestLogger is like NewRecordingTestLogger but also returns a
// mock Sentry transport for checking captured events.
func NewSentryTestLogger(t *testing.T) (
	*observability.CoreLogger,
	*bytes.Buffer,
	*sentry.MockTransport,
) {
	t.Helper()

	recordedLogs := &bytes.Buffer{}
	writer := io.MultiWriter(t.Output(), recordedLogs)

	transport := &sentry.MockTransport{}
	client := sentry_ext.New(sentry_ext.Params{Transport: transport})
	require.NotNil(t, client)

	return observability.NewCoreLogger(
		slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{})),
		&observability.CoreLoggerParams{Sentry: client},
	), recordedLogs, transport
}

// ExtractLogs extracts structured logs from the [NewRecordingTestLogger]
// buffer, dropping the "time" key.
func ExtractLogs(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	records := make([]map[string]any, 0)

	for line := range bytes.Lines(buf.Bytes()) {
		var record map[string]any
		require.NoError(t, json.Unmarshal(line, &record))

		delete(record, "time")

		records = append(records, record)
	}

	return records
}
