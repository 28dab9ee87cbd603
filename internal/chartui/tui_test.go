package chartui_test

import (
	"bytes"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/wandb/leetchart/internal/chartui"
	"github.com/wandb/leetchart/internal/config"
	"github.com/wandb/leetchart/internal/dataset"
	"github.com/wandb/leetchart/internal/observabilitytest"
)

// fakeWatcher records the change callback so tests can fire it.
type fakeWatcher struct {
	mu       sync.Mutex
	onChange func()
	finished bool
}

func (w *fakeWatcher) Watch(_ string, onChange func()) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = onChange
	return nil
}

func (w *fakeWatcher) Finish() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.finished = true
}

func (w *fakeWatcher) watching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onChange != nil
}

func (w *fakeWatcher) fire() {
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	fn()
}

func (w *fakeWatcher) isFinished() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.finished
}

func tuiConfig() config.Config {
	cfg := config.Default()
	cfg.Theme = config.ThemeNight
	return cfg
}

func TestTUI_RendersAndQuits(t *testing.T) {
	m := chartui.NewModel(chartui.Params{
		Charts: []dataset.Chart{joined(), views()},
		Config: tuiConfig(),
		Logger: observabilitytest.NewTestLogger(t),
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.WindowSizeMsg{Width: 80, Height: 24})

	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("joined")) },
		teatest.WithDuration(2*time.Second))

	tm.Type("n")
	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("views")) },
		teatest.WithDuration(2*time.Second))

	tm.Type("q")
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

func TestTUI_ReloadsWatchedDataset(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/data/chart.json", []byte(`{
		"title": "before",
		"columns": [["x", 1704067200000, 1704153600000], ["y0", 1, 2]],
		"types": {"x": "x", "y0": "line"}
	}`), 0o644))
	charts, err := dataset.Load(fs, "/data/chart.json")
	require.NoError(t, err)

	w := &fakeWatcher{}
	m := chartui.NewModel(chartui.Params{
		Charts:  charts,
		Path:    "/data/chart.json",
		Watcher: w,
		Fs:      fs,
		Config:  tuiConfig(),
		Logger:  observabilitytest.NewTestLogger(t),
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))
	tm.Send(tea.WindowSizeMsg{Width: 80, Height: 24})
	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("before")) },
		teatest.WithDuration(2*time.Second))
	require.Eventually(t, w.watching, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, afero.WriteFile(fs, "/data/chart.json", []byte(`{
		"title": "after",
		"columns": [["x", 1704067200000, 1704153600000, 1704240000000], ["y0", 1, 2, 3]],
		"types": {"x": "x", "y0": "line"}
	}`), 0o644))
	w.fire()

	teatest.WaitFor(t, tm.Output(),
		func(b []byte) bool { return bytes.Contains(b, []byte("after")) },
		teatest.WithDuration(2*time.Second))

	tm.Type("q")
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
	require.True(t, w.isFinished())
}
