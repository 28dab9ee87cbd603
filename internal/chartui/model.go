// Package chartui is the full-screen terminal chart viewer.
//
// The Model draws one dataset chart at a time on braille terminal surfaces:
// the main chart with its legend on top, the preview with the range
// selection below it, a title bar and a status bar. Chart transitions run
// on an animation loop that the model drives with tea.Tick frame messages
// only while something is animating.
package chartui

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"

	"github.com/wandb/leetchart/internal/anim"
	"github.com/wandb/leetchart/internal/chart"
	"github.com/wandb/leetchart/internal/config"
	"github.com/wandb/leetchart/internal/dataset"
	"github.com/wandb/leetchart/internal/observability"
	"github.com/wandb/leetchart/internal/surface"
	"github.com/wandb/leetchart/internal/surface/term"
	"github.com/wandb/leetchart/internal/watcher"
)

var (
	// ErrTerminalTooSmall is shown instead of the chart when the terminal
	// cannot fit it.
	ErrTerminalTooSmall = errors.New("terminal too small")

	errNoCharts = errors.New("dataset has no charts")
)

// reloadBuffer is the number of reloads queued before new ones are dropped.
const reloadBuffer = 16

// Params configures a Model.
type Params struct {
	Charts []dataset.Chart

	// Index selects the first chart shown.
	Index int

	// Path is the dataset file. It is watched for changes when Watcher
	// is set.
	Path    string
	Watcher watcher.Watcher

	Config config.Config

	// Fs is used to reload the dataset and to write exports. Defaults to
	// the OS filesystem.
	Fs afero.Fs

	// ExportDir receives PNG exports. Defaults to the working directory.
	ExportDir string

	// Clock replaces the wall clock of the animation loop.
	Clock anim.Clock

	// Metrics, if set, receives the animation loop metrics.
	Metrics prometheus.Registerer

	Logger *observability.CoreLogger
}

// Model is the bubbletea model of the chart viewer.
type Model struct {
	cfg       config.Config
	theme     string
	fs        afero.Fs
	path      string
	exportDir string
	watcher   watcher.Watcher
	logger    *observability.CoreLogger

	charts []dataset.Chart
	index  int

	// Animation frame state. needFrame is raised by the loop's activate
	// hook; framePending is true while a FrameMsg is scheduled.
	loop         *anim.Loop
	needFrame    bool
	framePending bool

	// Terminal size and the layout derived from it.
	width, height int
	mainRows      int
	previewRows   int

	main     *term.Surface
	preview  *term.Surface
	chart    *chart.Chart
	buildErr error
	dragging bool

	// pending holds the view state of a chart that could not be rebuilt
	// so that a later resize can restore it.
	pending *viewState

	keyMap    map[string]func(*Model, tea.KeyMsg) tea.Cmd
	help      bool
	status    string
	statusErr bool

	// reloads receives dataset reloads from the watcher goroutine.
	reloads chan tea.Msg
}

// viewState is what survives a chart rebuild.
type viewState struct {
	window chart.Window
	full   bool
	hidden map[string]bool
}

func NewModel(params Params) *Model {
	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	fs := params.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	exportDir := params.ExportDir
	if exportDir == "" {
		exportDir = "."
	}

	m := &Model{
		cfg:       params.Config,
		theme:     params.Config.ResolvedTheme(),
		fs:        fs,
		path:      params.Path,
		exportDir: exportDir,
		watcher:   params.Watcher,
		logger:    logger,
		charts:    params.Charts,
		index:     max(0, min(params.Index, len(params.Charts)-1)),
		keyMap:    buildKeyMap(KeyBindings()),
		reloads:   make(chan tea.Msg, reloadBuffer),
	}

	opts := []anim.LoopOption{anim.WithActivateHook(func() { m.needFrame = true })}
	if params.Clock != nil {
		opts = append(opts, anim.WithClock(params.Clock))
	}
	if params.Metrics != nil {
		opts = append(opts, anim.WithMetrics(params.Metrics))
	}
	m.loop = anim.NewLoop(opts...)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.SetWindowTitle("leetchart")}
	if m.watcher != nil && m.path != "" {
		if err := m.startWatcher(); err != nil {
			m.setStatus(fmt.Sprintf("watch failed: %v", err), true)
		} else {
			cmds = append(cmds, m.waitForReload())
		}
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.logPanic("Update")

	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	case tea.MouseMsg:
		m.handleMouseMsg(msg)
	case tea.WindowSizeMsg:
		m.handleResize(msg)
	case FrameMsg:
		m.handleFrame()
	case DatasetReloadedMsg:
		m.handleReload(msg)
		cmds = append(cmds, m.waitForReload())
	case ExportedMsg:
		m.handleExported(msg)
	}

	cmds = append(cmds, m.scheduleFrame())
	return m, tea.Batch(cmds...)
}

// Chart returns the chart on screen, or nil when none could be built.
func (m *Model) Chart() *chart.Chart { return m.chart }

func (m *Model) Index() int        { return m.index }
func (m *Model) Theme() string     { return m.theme }
func (m *Model) Status() string    { return m.status }
func (m *Model) HelpVisible() bool { return m.help }
func (m *Model) Loop() *anim.Loop  { return m.loop }

// Layout returns the number of terminal rows of the main chart and the
// preview.
func (m *Model) Layout() (mainRows, previewRows int) {
	return m.mainRows, m.previewRows
}

// scheduleFrame requests a frame when the loop became active and no frame
// is already on its way.
func (m *Model) scheduleFrame() tea.Cmd {
	if !m.needFrame || m.framePending {
		return nil
	}
	m.needFrame = false
	m.framePending = true
	return tea.Tick(m.cfg.FrameInterval(), func(time.Time) tea.Msg {
		return FrameMsg{}
	})
}

func (m *Model) handleFrame() {
	m.framePending = false
	m.loop.Tick()
	if m.loop.Active() {
		m.needFrame = true
	}
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height
	m.rebuild(m.snapshot())
}

// rebuild replaces the chart with a new one for the current dataset chart
// and terminal size, restoring keep if given.
func (m *Model) rebuild(keep *viewState) {
	if m.chart != nil {
		m.chart.Destroy()
		m.chart, m.main, m.preview = nil, nil, nil
	}
	m.dragging = false
	m.buildErr = nil
	m.pending = keep

	if m.width <= 0 || m.height <= 0 {
		return
	}
	if len(m.charts) == 0 {
		m.buildErr = errNoCharts
		return
	}

	m.previewRows = max(MinPreviewRows, min(m.cfg.PreviewHeight/previewPixelsPerRow, MaxPreviewRows))
	m.mainRows = m.height - TitleBarHeight - StatusBarHeight - m.previewRows
	if m.width < MinChartCols || m.mainRows < MinChartRows {
		m.buildErr = fmt.Errorf("%w: %dx%d", ErrTerminalTooSmall, m.width, m.height)
		return
	}

	ov := m.overrides()
	bg, err := surface.ParseColor(chart.DefaultOptions().Merge(ov).Background)
	if err != nil {
		m.buildErr = err
		return
	}
	s, err := term.New(m.width, m.mainRows, bg)
	if err != nil {
		m.buildErr = err
		return
	}

	data := m.charts[m.index]
	c, err := chart.New(s, data.Labels, data.Specs(), ov,
		chart.WithLoop(m.loop),
		chart.WithLogger(m.logger.With("chart", data.Title)),
	)
	if err != nil {
		m.logger.Warn("chartui: cannot build chart", "chart", data.Title, "error", err)
		m.buildErr = err
		return
	}

	m.chart, m.main = c, s
	if pv := c.Preview(); pv != nil {
		m.preview, _ = pv.Surface().(*term.Surface)
	}
	m.restore(keep)
	m.pending = nil
}

// snapshot captures the window and hidden series of the current chart.
func (m *Model) snapshot() *viewState {
	if m.chart == nil {
		return m.pending
	}
	vs := &viewState{window: m.chart.Window(), hidden: map[string]bool{}}
	n := len(m.chart.Labels())
	vs.full = vs.window.Start <= 0 && vs.window.End >= float64(n-1)
	for i, s := range m.chart.Series() {
		if !m.chart.SeriesVisible(i) {
			vs.hidden[s.Name] = true
		}
	}
	return vs
}

// restore hides series by name and reapplies a partial window.
func (m *Model) restore(keep *viewState) {
	if keep == nil {
		return
	}
	for i, s := range m.charts[m.index].Series {
		if keep.hidden[s.Name] {
			m.report(m.chart.SetSeriesVisible(i, false))
		}
	}
	if !keep.full {
		m.report(m.chart.SetVisibleRange(keep.window.Start, keep.window.End))
	}
}

// showChart switches to chart i of the dataset.
func (m *Model) showChart(i int) {
	if i == m.index || i < 0 || i >= len(m.charts) {
		return
	}
	m.index = i
	m.rebuild(nil)
	m.setStatus("", false)
}

func (m *Model) handleReload(msg DatasetReloadedMsg) {
	if msg.Err != nil {
		m.logger.Warn("chartui: reload failed", "path", m.path, "error", msg.Err)
		m.setStatus(fmt.Sprintf("reload failed: %v", msg.Err), true)
		return
	}
	if len(msg.Charts) == 0 {
		m.setStatus(fmt.Sprintf("reload failed: %v", errNoCharts), true)
		return
	}

	keep := m.snapshot()
	m.charts = msg.Charts
	m.index = min(m.index, len(m.charts)-1)
	m.rebuild(keep)
	m.logger.Debug("chartui: reloaded dataset", "path", m.path, "charts", len(m.charts))
	m.setStatus("reloaded", false)
}

func (m *Model) handleExported(msg ExportedMsg) {
	if msg.Err != nil {
		m.logger.CaptureError(fmt.Errorf("chartui: export: %v", msg.Err))
		m.setStatus(fmt.Sprintf("export failed: %v", msg.Err), true)
		return
	}
	m.setStatus("exported "+msg.Path, false)
}

// startWatcher reloads the dataset whenever its file changes.
func (m *Model) startWatcher() error {
	return m.watcher.Watch(m.path, func() {
		// This callback runs in the watcher goroutine.
		defer m.logPanic("watcher callback")

		charts, err := dataset.Load(m.fs, m.path)
		select {
		case m.reloads <- DatasetReloadedMsg{Charts: charts, Err: err}:
		default:
			m.logger.CaptureWarn("chartui: reload queue is full, dropping reload")
		}
	})
}

// waitForReload returns a command that waits for the next reload.
func (m *Model) waitForReload() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		defer m.logPanic("waitForReload")
		return <-m.reloads
	}
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status, m.statusErr = msg, isErr
}

// report shows a rejected chart operation in the status bar.
func (m *Model) report(err error) {
	if err == nil {
		return
	}
	m.logger.Warn("chartui: chart operation failed", "error", err)
	m.setStatus(err.Error(), true)
}

// logPanic reports a panic with its stack trace and re-panics.
func (m *Model) logPanic(context string) {
	if r := recover(); r != nil {
		m.logger.CaptureFatal(fmt.Errorf("chartui: panic in %s: %v\nstack trace:\n%s",
			context, r, debug.Stack()))
		panic(r)
	}
}
