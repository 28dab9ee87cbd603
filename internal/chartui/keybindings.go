package chartui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding defines a key binding for a particular target type.
//
// If Handler is nil, the binding is shown in the help screen but is not
// dispatched through the key map.
type KeyBinding[T any] struct {
	Keys        []string
	Description string
	Handler     func(*T, tea.KeyMsg) tea.Cmd
}

// BindingCategory groups related key bindings (primarily for help display).
type BindingCategory[T any] struct {
	Name     string
	Bindings []KeyBinding[T]
}

// KeyBindings returns the key bindings of the chart view.
func KeyBindings() []BindingCategory[Model] {
	return []BindingCategory[Model]{
		{
			Name: "General",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"h", "?"},
					Description: "Toggle this help screen",
					Handler:     (*Model).handleToggleHelp,
				},
				{
					Keys:        []string{"q", "ctrl+c"},
					Description: "Quit",
					Handler:     (*Model).handleQuit,
				},
				{
					Keys:        []string{"t"},
					Description: "Switch between day and night themes",
					Handler:     (*Model).handleToggleTheme,
				},
				{
					Keys:        []string{"e"},
					Description: "Export the chart as PNG",
					Handler:     (*Model).handleExport,
				},
			},
		},
		{
			Name: "Series",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
					Description: "Show or hide series 1-9",
					Handler:     (*Model).handleToggleSeries,
				},
			},
		},
		{
			Name: "Window",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"left"},
					Description: "Pan left",
					Handler:     (*Model).handlePanLeft,
				},
				{
					Keys:        []string{"right"},
					Description: "Pan right",
					Handler:     (*Model).handlePanRight,
				},
				{
					Keys:        []string{"+", "="},
					Description: "Zoom in",
					Handler:     (*Model).handleZoomIn,
				},
				{
					Keys:        []string{"-"},
					Description: "Zoom out",
					Handler:     (*Model).handleZoomOut,
				},
				{
					Keys:        []string{"r"},
					Description: "Show all labels",
					Handler:     (*Model).handleResetWindow,
				},
			},
		},
		{
			Name: "Charts",
			Bindings: []KeyBinding[Model]{
				{
					Keys:        []string{"n", "pgdown"},
					Description: "Next chart",
					Handler:     (*Model).handleNextChart,
				},
				{
					Keys:        []string{"p", "pgup"},
					Description: "Previous chart",
					Handler:     (*Model).handlePrevChart,
				},
			},
		},
		mouseCategory[Model](),
	}
}

func mouseCategory[T any]() BindingCategory[T] {
	return BindingCategory[T]{
		Name: "Mouse",
		Bindings: []KeyBinding[T]{
			{
				Keys:        []string{"drag preview"},
				Description: "Move or resize the visible window",
			},
			{
				Keys:        []string{"hover chart"},
				Description: "Show values at the pointer",
			},
			{
				Keys:        []string{"click legend"},
				Description: "Show or hide a series",
			},
		},
	}
}

// buildKeyMap flattens categories into a key to handler map.
func buildKeyMap[T any](categories []BindingCategory[T]) map[string]func(*T, tea.KeyMsg) tea.Cmd {
	keyMap := make(map[string]func(*T, tea.KeyMsg) tea.Cmd)
	for _, category := range categories {
		for _, binding := range category.Bindings {
			if binding.Handler == nil {
				continue
			}
			for _, key := range binding.Keys {
				keyMap[normalizeKey(key)] = binding.Handler
			}
		}
	}
	return keyMap
}

// normalizeKey normalizes Bubble Tea's KeyMsg.String() into a stable key
// used by the key map.
func normalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return key
}
