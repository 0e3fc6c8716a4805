package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar: server state, log type, line limit
// and theme.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot

	var server string
	switch {
	case snap.IsOffline():
		server = styles.DangerText.Render("server offline")
	case snap.HasHealth:
		server = styles.SuccessText.Render("server ok")
		if snap.Health.Version != "" {
			server += styles.MutedText.Render(" v" + strings.TrimPrefix(snap.Health.Version, "v"))
		}
	case snap.LastError != nil:
		server = styles.WarningText.Render("retrying")
	default:
		server = styles.MutedText.Render("connecting")
	}

	logType := m.logType
	if logType == "" {
		logType = "none"
	}

	left := strings.Join([]string{
		styles.Logo.Render("logstory"),
		server,
		styles.Text.Render("type ") + styles.AccentText.Render(logType),
		styles.Text.Render(fmt.Sprintf("lines ≤ %d", m.lineLimit)),
	}, "  ")

	right := styles.FaintText.Render(m.theme.Name)
	if !snap.LastUpdated.IsZero() {
		right = styles.FaintText.Render(snap.LastUpdated.Format("15:04:05")) + "  " + right
	}

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(right)
	content := left
	if gap > 0 {
		content += strings.Repeat(" ", gap) + right
	}
	return styles.Header.Width(m.width).MaxHeight(headerHeight).Render(content)
}
