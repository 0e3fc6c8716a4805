package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/highlight"
)

// renderResults refreshes the viewport content. Unless force is set, it is
// a no-op while the stored analysis is the one already shown.
func (m *Model) renderResults(force bool) {
	if !m.ready {
		return
	}
	snap := m.snapshot
	if !force && snap.AnalyzedAt.Equal(m.renderedAt) {
		return
	}
	fresh := !snap.AnalyzedAt.Equal(m.renderedAt)
	m.renderedAt = snap.AnalyzedAt

	if !snap.HasAnalysis {
		m.results.SetContent(m.theme.Styles().FaintText.Render("Press r to analyze the selected log type."))
		return
	}
	m.results.SetContent(m.resultsContent(snap.Analysis))
	if fresh {
		m.results.GotoTop()
	}
}

// resultsContent renders every analyzed line behind a line-number gutter.
func (m Model) resultsContent(resp api.AnalysisResponse) string {
	if len(resp.Results) == 0 {
		return m.theme.Styles().FaintText.Render("The log is empty.")
	}

	last := resp.Results[len(resp.Results)-1].LineNumber
	gutter := m.theme.Styles().Gutter.Width(len(strconv.Itoa(last)))

	var b strings.Builder
	for i, r := range resp.Results {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(gutter.Render(strconv.Itoa(r.LineNumber)))
		b.WriteString(" ")
		b.WriteString(highlight.Line(r, m.palette, m.markup))
	}
	return b.String()
}

// renderResultsPane draws the bordered results viewport of outer size w×h.
func (m Model) renderResultsPane(w, h int) string {
	styles := m.theme.Styles()
	title := styles.PaneTitle.Render("Results")

	snap := m.snapshot
	switch {
	case m.analyzing:
		title += styles.MutedText.Render("  analyzing…")
	case snap.HasAnalysis:
		a := snap.Analysis
		title += styles.MutedText.Render(fmt.Sprintf("  %d/%d lines  %d matched", a.AnalyzedLines, a.TotalLines, a.MatchedLines()))
		if n := len(a.Invalid); n > 0 {
			title += styles.DangerText.Render(fmt.Sprintf("  %d invalid", n))
		}
	}
	if snap.AnalysisError != nil && !m.analyzing {
		title += styles.DangerText.Render("  last run failed")
	}

	content := truncateStyled(title, max(w-2, 1)) + "\n" + m.results.View()
	return m.paneStyle(m.focus == paneResults, w, h).Render(content)
}
