package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logstory/internal/patterns"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// renderMain lays out header, the two panes and the footer.
func (m Model) renderMain() string {
	bodyH := m.bodyHeight()
	pw := m.patternPaneWidth()

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderPatternPane(pw, bodyH),
		m.renderResultsPane(m.width-pw, bodyH),
	)
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

// layout sizes the results viewport to the current window.
func (m *Model) layout() {
	rw := m.width - m.patternPaneWidth()
	m.results.Width = max(rw-2, 1)
	m.results.Height = max(m.bodyHeight()-3, 1) // border and title
	m.input.Width = max(m.width-12, 10)
}

func (m Model) bodyHeight() int {
	return max(m.height-headerHeight-footerHeight, 4)
}

func (m Model) patternPaneWidth() int {
	w := m.width / 3
	w = min(max(w, PatternPaneMin), PatternPaneMax)
	if m.width < PatternPaneMin*2 {
		w = m.width / 2
	}
	return max(w, 4)
}

// paneStyle returns the border style of a pane of outer size w×h.
func (m Model) paneStyle(focused bool, w, h int) lipgloss.Style {
	styles := m.theme.Styles()
	st := styles.Pane
	if focused {
		st = styles.FocusedPane
	}
	return st.Width(max(w-2, 1)).Height(max(h-2, 1)).MaxHeight(h)
}

// renderFooter shows the editor or the status line above the key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	footer := styles.Footer.Width(m.width)

	var line string
	switch {
	case m.mode != inputNone:
		line = m.input.View()
		if m.mode == inputSource {
			line += "  " + m.draftHint()
		}
		line = lipgloss.NewStyle().Padding(0, 1).Render(line)
	case m.status != "":
		st := styles.MutedText
		if m.statusErr {
			st = styles.DangerText
		}
		line = footer.Render(st.Render(truncate(m.status, m.width-2)))
	default:
		line = footer.Render("")
	}

	h := m.help
	h.Width = m.width - 2
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	hints := m.keys.ShortHelp()
	if m.mode != inputNone {
		hints = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, footer.Render(h.ShortHelpView(hints)))
}

// draftHint compiles the expression being typed.
func (m Model) draftHint() string {
	styles := m.theme.Styles()
	value := m.input.Value()
	if value == "" {
		return ""
	}
	groups, err := patterns.Validate(value)
	if err != nil {
		return styles.DangerText.Render("✗ " + truncate(err.Error(), 60))
	}
	return styles.SuccessText.Render(fmt.Sprintf("✓ %d %s", groups, plural(groups, "group", "groups")))
}
