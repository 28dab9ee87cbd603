package chartui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const labelLayout = "Jan 2, 2006"

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	if m.help {
		return m.renderHelp()
	}
	if m.chart == nil {
		msg := "no chart"
		if m.buildErr != nil {
			msg = m.buildErr.Error()
		}
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderTitleBar(),
			messageStyle.Render(msg),
		)
	}

	parts := []string{m.renderTitleBar(), m.main.View()}
	if m.preview != nil {
		parts = append(parts, m.preview.View())
	}
	parts = append(parts, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderTitleBar() string {
	title := "leetchart"
	if len(m.charts) > 0 {
		title = fmt.Sprintf("%s  %d/%d", m.charts[m.index].Title, m.index+1, len(m.charts))
	}
	return titleBarStyle.Width(m.width).MaxWidth(m.width).Render(title)
}

func (m *Model) renderStatusBar() string {
	left := m.windowText()
	if m.status != "" {
		msg := m.status
		if m.statusErr {
			msg = statusErrorStyle.Render(msg)
		}
		left += "  " + msg
	}
	right := "? help  q quit"

	line := left
	gap := m.width - statusBarStyle.GetHorizontalPadding() - lipgloss.Width(left) - lipgloss.Width(right)
	if gap > 0 {
		line = left + strings.Repeat(" ", gap) + right
	}
	return statusBarStyle.Width(m.width).MaxWidth(m.width).Render(line)
}

// windowText describes the visible labels.
func (m *Model) windowText() string {
	labels := m.charts[m.index].Labels
	first, last := m.chart.Window().Indices(len(labels))
	if last < first {
		return "no data"
	}
	return fmt.Sprintf("%s .. %s  (%d points)",
		labels[first].Format(labelLayout),
		labels[last].Format(labelLayout),
		last-first+1)
}

func (m *Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(helpSectionStyle.Render("leetchart: animated time series charts"))
	b.WriteString("\n")
	for _, category := range KeyBindings() {
		b.WriteString(helpSectionStyle.Render(category.Name))
		b.WriteString("\n")
		for _, binding := range category.Bindings {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
				helpKeyStyle.Render(keyLabel(binding.Keys)),
				helpDescStyle.Render(binding.Description),
			))
			b.WriteString("\n")
		}
	}
	return helpContentStyle.Render(b.String())
}

// keyLabel shortens long key lists to a range.
func keyLabel(keys []string) string {
	if len(keys) > 3 {
		return keys[0] + "-" + keys[len(keys)-1]
	}
	return strings.Join(keys, ", ")
}
