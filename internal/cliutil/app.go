package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/wandb/leetchart/internal/config"
	"github.com/wandb/leetchart/internal/observability"
	"github.com/wandb/leetchart/internal/sentry_ext"
)

const (
	// DebugLogFile receives JSON logs when debug logging is on.
	DebugLogFile = "leetchart-debug.log"

	// AnnotationInteractive marks commands that take over the terminal.
	AnnotationInteractive = "leetchart/interactive"
)

// App holds the state shared by all commands. NewApp returns an App with a
// no-op logger; Init loads the configuration and sets up logging and error
// reporting once the flags are parsed.
type App struct {
	Fs       afero.Fs
	Config   *config.Manager
	Logger   *observability.CoreLogger
	Registry *prometheus.Registry

	stderr  io.Writer
	sentry  *sentry_ext.Client
	closers []func() error
}

type AppParams struct {
	// ConfigPath overrides the default ~/.leetchart.yaml.
	ConfigPath string

	// Debug writes debug level JSON logs to DebugLogFile.
	Debug bool

	// NoSentry disables error reporting even when a DSN is configured.
	NoSentry bool

	// Interactive commands own the terminal. Unless Debug is set their
	// logs are discarded.
	Interactive bool

	Version string
}

func NewApp(fs afero.Fs, stderr io.Writer) *App {
	return &App{
		Fs:       fs,
		Logger:   observability.NewNoOpLogger(),
		Registry: prometheus.NewRegistry(),
		stderr:   stderr,
	}
}

func (a *App) Init(params AppParams) error {
	path := params.ConfigPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	mgr, err := config.Load(a.Fs, path)
	if err != nil {
		return err
	}
	a.Config = mgr

	dsn := mgr.Config().Sentry.DSN
	if params.NoSentry {
		dsn = ""
	}
	a.sentry = sentry_ext.New(sentry_ext.Params{
		DSN:         dsn,
		Release:     params.Version,
		Environment: environment(params.Version),
	})

	handler, err := a.handler(params)
	if err != nil {
		return err
	}
	a.Logger = observability.NewCoreLogger(
		slog.New(handler),
		&observability.CoreLoggerParams{
			Tags:   observability.Tags{"version": params.Version},
			Sentry: a.sentry,
		},
	)
	a.Logger.Debug("cliutil: initialized", "config", mgr.Path(), "sentry", dsn != "")
	return nil
}

func (a *App) handler(params AppParams) (slog.Handler, error) {
	if params.Debug {
		f, err := a.Fs.OpenFile(DebugLogFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening debug log: %v", err)
		}
		a.closers = append(a.closers, f.Close)
		return slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}), nil
	}
	if params.Interactive {
		return slog.NewJSONHandler(io.Discard, nil), nil
	}
	return log.NewWithOptions(a.stderr, log.Options{
		Level:           log.WarnLevel,
		Prefix:          "leetchart",
		ReportTimestamp: true,
	}), nil
}

func environment(version string) string {
	if version == "" || version == "dev" {
		return "development"
	}
	return "production"
}

// Close logs the metrics summary, flushes error reports and closes log
// files. It is safe to call on an App that was never initialized.
func (a *App) Close() {
	a.logMetrics()
	a.sentry.Flush(2 * time.Second)
	for _, c := range slices.Backward(a.closers) {
		_ = c()
	}
	a.closers = nil
}

// logMetrics writes every gathered counter and gauge at debug level.
func (a *App) logMetrics() {
	families, err := a.Registry.Gather()
	if err != nil {
		a.Logger.Warn("cliutil: gathering metrics", "error", err)
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			args := []any{"metric", family.GetName()}
			for _, label := range m.GetLabel() {
				args = append(args, label.GetName(), label.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				args = append(args, "value", m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				args = append(args, "value", m.GetGauge().GetValue())
			default:
				continue
			}
			a.Logger.Debug("metrics: summary", args...)
		}
	}
}
