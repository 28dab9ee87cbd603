package chartui

import "github.com/charmbracelet/lipgloss"

// Layout constants, in terminal cells.
const (
	TitleBarHeight  = 1
	StatusBarHeight = 1
	MinChartCols    = 20
	MinChartRows    = 6
	MinPreviewRows  = 3
	MaxPreviewRows  = 10

	// previewPixelsPerRow converts the configured preview height into
	// terminal rows.
	previewPixelsPerRow = 20
)

const accentColor = lipgloss.Color("#3DC23F")

var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"}).
			Background(lipgloss.AdaptiveColor{Light: "#e6ecf0", Dark: "#344658"})

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#2B3038"}).
			Background(lipgloss.AdaptiveColor{Light: "#dfe6eb", Dark: "#96a2aa"})

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F34C44")).
				Bold(true)

	messageStyle = lipgloss.NewStyle().
			Padding(1, 2)
)

// Help screen styles
var (
	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Width(18)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(accentColor).
				MarginTop(1)

	helpContentStyle = lipgloss.NewStyle().
				MarginLeft(2).
				MarginTop(1)
)
