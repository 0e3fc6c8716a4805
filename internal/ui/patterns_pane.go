package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logstory/internal/overlay"
)

// Each pattern takes two rows: label and expression.
const patternRows = 2

// renderPatternPane draws the editable pattern list of outer size w×h.
func (m Model) renderPatternPane(w, h int) string {
	styles := m.theme.Styles()
	inner := max(w-2, 1)

	title := styles.PaneTitle.Render("Patterns")
	if m.logType != "" {
		title += styles.MutedText.Render("  " + m.logType)
	}
	if m.loading {
		title += styles.FaintText.Render("  loading…")
	}

	lines := []string{truncateStyled(title, inner)}
	items := m.set.All()
	if len(items) == 0 {
		lines = append(lines, styles.FaintText.Render(truncate("No patterns. Press a to add one.", inner)))
	}

	visible := max((h-4)/patternRows, 1) // title and overflow rows
	offset := 0
	if m.selected >= visible {
		offset = m.selected - visible + 1
	}
	colors := m.set.Colors()

	for i := offset; i < len(items) && i < offset+visible; i++ {
		p := items[i]
		selected := i == m.selected
		label := overlay.Sanitize(m.set.DisplayName(p.ID))

		marker := "  "
		if selected {
			marker = "› "
		}
		badge := m.validityBadge(p.ID)
		nameWidth := max(inner-lipgloss.Width(marker)-3-lipgloss.Width(badge), 1)

		row := marker + Swatch(colors[p.ID].Hex()) + " " + fit(label, nameWidth) + badge
		source := overlay.Sanitize(p.Pattern)
		if source == "" {
			source = "(no expression)"
		}
		sub := "     " + truncate(source, max(inner-5, 1))

		if selected && m.focus == panePatterns {
			row = styles.Selected.Width(inner).Render(row)
		}
		lines = append(lines, row, styles.FaintText.Render(sub))
	}

	if hidden := len(items) - offset - visible; hidden > 0 {
		lines = append(lines, styles.FaintText.Render(fmt.Sprintf("  +%d more", hidden)))
	}

	return m.paneStyle(m.focus == panePatterns, w, h).Render(strings.Join(lines, "\n"))
}

// validityBadge reports the local compile result of a pattern.
func (m Model) validityBadge(id string) string {
	styles := m.theme.Styles()
	v, ok := m.validity[id]
	switch {
	case !ok:
		return styles.FaintText.Render(" –")
	case v.err != "":
		return styles.DangerText.Render(" ✗")
	default:
		return styles.SuccessText.Render(fmt.Sprintf(" %d", v.groups))
	}
}
