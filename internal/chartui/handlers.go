package chartui

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"

	"github.com/wandb/leetchart/internal/chart"
	"github.com/wandb/leetchart/internal/config"
	"github.com/wandb/leetchart/internal/render"
	"github.com/wandb/leetchart/internal/surface/term"
	"github.com/wandb/leetchart/internal/viewport"
)

const (
	// panFraction is the share of the window moved by one pan step.
	panFraction = 0.25

	zoomInFactor  = 0.8
	zoomOutFactor = 1.25

	// ExportWidth is the pixel width of PNG exports.
	ExportWidth = 960
)

// region is a part of the screen that receives mouse input.
type region int

const (
	regionNone region = iota
	regionMain
	regionPreview
)

// overrides returns the chart options for the current theme, sized for
// terminal cells.
func (m *Model) overrides() chart.Overrides {
	ov := m.cfg.ChartOverridesFor(m.theme)
	ov.Insets = &viewport.Insets{Right: term.CellWidth, Bottom: term.CellHeight, Left: term.CellWidth}
	legend := lo.FromPtr(ov.Legend)
	legend.Height = lo.ToPtr(term.CellHeight)
	ov.Legend = &legend
	ov.Lines = &chart.LinesOverrides{LineWidth: lo.ToPtr(1.0)}

	preview := lo.FromPtr(ov.Preview)
	preview.Height = lo.ToPtr(m.previewRows * term.CellHeight)
	preview.Insets = &viewport.Insets{}
	sel := lo.FromPtr(preview.Selection)
	sel.BorderWidth = lo.ToPtr(term.CellWidth)
	preview.Selection = &sel
	ov.Preview = &preview
	return ov
}

// handleKeyMsg dispatches key presses through the key map. While the help
// screen is shown only the help and quit keys work.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	key := normalizeKey(msg.String())
	if m.help {
		switch key {
		case "h", "?", "esc":
			m.help = false
		case "q", "ctrl+c":
			return m.handleQuit(msg)
		}
		return nil
	}
	if handler, ok := m.keyMap[key]; ok {
		return handler(m, msg)
	}
	return nil
}

func (m *Model) handleQuit(tea.KeyMsg) tea.Cmd {
	if m.watcher != nil {
		m.watcher.Finish()
	}
	if m.chart != nil {
		m.chart.Destroy()
	}
	return tea.Quit
}

func (m *Model) handleToggleHelp(tea.KeyMsg) tea.Cmd {
	m.help = !m.help
	return nil
}

func (m *Model) handleToggleTheme(tea.KeyMsg) tea.Cmd {
	if m.theme == config.ThemeNight {
		m.theme = config.ThemeDay
	} else {
		m.theme = config.ThemeNight
	}
	if m.chart != nil {
		m.report(m.chart.UpdateOptions(m.overrides()))
	}
	return nil
}

func (m *Model) handleToggleSeries(msg tea.KeyMsg) tea.Cmd {
	if m.chart == nil {
		return nil
	}
	key := msg.String()
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return nil
	}
	i := int(key[0] - '1')
	if i >= len(m.chart.Series()) {
		return nil
	}
	m.report(m.chart.SetSeriesVisible(i, !m.chart.SeriesVisible(i)))
	return nil
}

func (m *Model) handlePanLeft(tea.KeyMsg) tea.Cmd {
	m.pan(-1)
	return nil
}

func (m *Model) handlePanRight(tea.KeyMsg) tea.Cmd {
	m.pan(1)
	return nil
}

func (m *Model) handleZoomIn(tea.KeyMsg) tea.Cmd {
	m.zoom(zoomInFactor)
	return nil
}

func (m *Model) handleZoomOut(tea.KeyMsg) tea.Cmd {
	m.zoom(zoomOutFactor)
	return nil
}

func (m *Model) handleResetWindow(tea.KeyMsg) tea.Cmd {
	if m.chart == nil {
		return nil
	}
	m.report(m.chart.SetVisibleRange(0, m.lastIndex()))
	return nil
}

func (m *Model) handleNextChart(tea.KeyMsg) tea.Cmd {
	if len(m.charts) > 1 {
		m.showChart((m.index + 1) % len(m.charts))
	}
	return nil
}

func (m *Model) handlePrevChart(tea.KeyMsg) tea.Cmd {
	if len(m.charts) > 1 {
		m.showChart((m.index + len(m.charts) - 1) % len(m.charts))
	}
	return nil
}

// handleExport renders the chart as shown, at export size, in the
// background.
func (m *Model) handleExport(tea.KeyMsg) tea.Cmd {
	if m.chart == nil {
		return nil
	}
	window := m.chart.Window()
	var hidden []int
	for i, visible := range m.chart.VisibleSet() {
		if !visible {
			hidden = append(hidden, i)
		}
	}
	data := m.charts[m.index]
	params := render.Params{
		Chart:     data,
		Overrides: m.cfg.ChartOverridesFor(m.theme),
		Width:     ExportWidth,
		Height:    m.cfg.Height,
		Window:    &window,
		Hidden:    hidden,
		Logger:    m.logger,
	}
	path := filepath.Join(m.exportDir, ExportName(data.Title))
	fs := m.fs
	m.setStatus("exporting...", false)
	return func() tea.Msg {
		defer m.logPanic("export")
		return ExportedMsg{Path: path, Err: render.WritePNG(fs, path, params)}
	}
}

// ExportName is the PNG file name for a chart title.
func ExportName(title string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
		} else if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(b.String(), "-")
	if name == "" {
		name = "chart"
	}
	return name + ".png"
}

func (m *Model) lastIndex() float64 {
	return float64(max(len(m.charts[m.index].Labels)-1, 0))
}

// pan moves the window by a share of its span, keeping the span.
func (m *Model) pan(dir float64) {
	if m.chart == nil {
		return
	}
	w := m.chart.Window()
	span := w.Span()
	step := max(math.Round(span*panFraction), 1)
	start := max(0, min(w.Start+dir*step, m.lastIndex()-span))
	m.report(m.chart.SetVisibleRange(start, start+span))
}

// zoom scales the window span around its center.
func (m *Model) zoom(factor float64) {
	if m.chart == nil {
		return
	}
	last := m.lastIndex()
	if last < 1 {
		return
	}
	w := m.chart.Window()
	span := max(1, min(math.Round(w.Span()*factor), last))
	if span == w.Span() {
		return
	}
	center := (w.Start + w.End) / 2
	start := max(0, min(center-span/2, last-span))
	m.report(m.chart.SetVisibleRange(start, start+span))
}

// locate maps a terminal cell to a screen region.
func (m *Model) locate(row int) region {
	top := TitleBarHeight
	switch {
	case row >= top && row < top+m.mainRows:
		return regionMain
	case m.preview != nil && row >= top+m.mainRows && row < top+m.mainRows+m.previewRows:
		return regionPreview
	}
	return regionNone
}

// Cell centers in surface pixels.
func cellX(col int) int { return col*term.CellWidth + term.CellWidth/2 }

func (m *Model) mainY(row int) int {
	return (row-TitleBarHeight)*term.CellHeight + term.CellHeight/2
}

func (m *Model) previewY(row int) int {
	return (row-TitleBarHeight-m.mainRows)*term.CellHeight + term.CellHeight/2
}

// handleMouseMsg routes mouse input: the preview drives the range
// selection, the main chart shows the tooltip and toggles series from the
// legend, and the wheel zooms.
func (m *Model) handleMouseMsg(msg tea.MouseMsg) {
	if m.chart == nil || m.help {
		return
	}
	if tea.MouseEvent(msg).IsWheel() {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.zoom(zoomInFactor)
		case tea.MouseButtonWheelDown:
			m.zoom(zoomOutFactor)
		}
		return
	}

	x := cellX(msg.X)
	pv := m.chart.Preview()
	where := m.locate(msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		switch where {
		case regionMain:
			m.chart.PointerDown(x, m.mainY(msg.Y))
		case regionPreview:
			pv.PointerDown(x, m.previewY(msg.Y))
			m.dragging = pv.Selection().Mode() != chart.DragNone
			m.chart.PointerLeave()
		}
	case tea.MouseActionMotion:
		if m.dragging {
			pv.PointerMove(x, m.previewY(msg.Y))
			return
		}
		if where == regionMain {
			m.chart.PointerMove(x, m.mainY(msg.Y))
		} else {
			m.chart.PointerLeave()
		}
	case tea.MouseActionRelease:
		if m.dragging {
			pv.PointerUp(x, m.previewY(msg.Y))
			m.dragging = false
		}
	}
}
