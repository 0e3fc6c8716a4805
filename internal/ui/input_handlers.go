package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/patterns"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.mode != inputNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		m.renderResults(true)
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		if m.focus == panePatterns {
			m.focus = paneResults
		} else {
			m.focus = panePatterns
		}
		return m, nil

	case key.Matches(msg, m.keys.Analyze):
		return m.analyze()

	case key.Matches(msg, m.keys.PrevType):
		return m.switchLogType(-1)

	case key.Matches(msg, m.keys.NextType):
		return m.switchLogType(1)

	case key.Matches(msg, m.keys.Reload):
		if m.logType == "" {
			m.setError("No log type selected")
			return m, nil
		}
		m.loading = true
		return m, loadPatternsCmd(m.ctx, m.client, m.logType)

	case key.Matches(msg, m.keys.Upload):
		if m.logType == "" {
			m.setError("No log type selected")
			return m, nil
		}
		return m, m.startInput(inputUpload, "", "")

	case key.Matches(msg, m.keys.Discard):
		if m.logType == "" {
			m.setError("No log type selected")
			return m, nil
		}
		return m, discardCmd(m.ctx, m.client, m.logType)

	case key.Matches(msg, m.keys.MoreLines):
		m.adjustLineLimit(LineLimitStep)
		return m, nil

	case key.Matches(msg, m.keys.FewerLines):
		m.adjustLineLimit(-LineLimitStep)
		return m, nil
	}

	if m.focus == paneResults {
		return m.handleResultsKey(msg)
	}
	return m.handlePatternsKey(msg)
}

// handlePatternsKey edits and navigates the pattern list.
func (m Model) handlePatternsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.set.Len()
	current, hasCurrent := m.set.At(m.selected)

	switch {
	case key.Matches(msg, m.keys.MoveUp):
		if hasCurrent && m.set.Move(current.ID, -1) == nil {
			m.selected = max(m.selected-1, 0)
		}
	case key.Matches(msg, m.keys.MoveDown):
		if hasCurrent && m.set.Move(current.ID, 1) == nil {
			m.selected = min(m.selected+1, n-1)
		}
	case key.Matches(msg, m.keys.Up):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, m.keys.Down):
		m.selected = min(m.selected+1, max(n-1, 0))
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(n-1, 0)

	case key.Matches(msg, m.keys.Add):
		p := m.set.Add(api.PatternSpec{})
		m.selected = m.set.Len() - 1
		return m, m.startInput(inputSource, p.ID, "")

	case key.Matches(msg, m.keys.Rename):
		if hasCurrent {
			return m, m.startInput(inputName, current.ID, current.Name)
		}
	case key.Matches(msg, m.keys.Edit):
		if hasCurrent {
			return m, m.startInput(inputSource, current.ID, current.Pattern)
		}
	case key.Matches(msg, m.keys.Remove):
		if !hasCurrent {
			break
		}
		label := m.set.DisplayName(current.ID)
		if m.set.Remove(current.ID) == nil {
			delete(m.validity, current.ID)
			m.selected = min(m.selected, max(m.set.Len()-1, 0))
			m.setStatus("Removed " + label)
		}
	}
	return m, nil
}

// handleResultsKey scrolls the results viewport.
func (m Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Top):
		m.results.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.results.GotoBottom()
	case key.Matches(msg, m.keys.Up):
		m.results.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.results.ScrollDown(1)
	case key.Matches(msg, m.keys.HalfPageUp):
		m.results.HalfPageUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.results.HalfPageDown()
	default:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleInputKey feeds the editor until it is confirmed or cancelled.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		return m.commitInput()
	case key.Matches(msg, m.keys.Cancel):
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) commitInput() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	mode, id := m.mode, m.inputID
	m.closeInput()

	switch mode {
	case inputName:
		if err := m.set.Rename(id, strings.TrimSpace(value)); err != nil {
			m.setError(err.Error())
		}
	case inputSource:
		if err := m.set.SetSource(id, value); err != nil {
			m.setError(err.Error())
			return m, nil
		}
		m.revalidate(id)
	case inputUpload:
		path := strings.TrimSpace(value)
		if path == "" {
			return m, nil
		}
		m.loading = true
		m.setStatus("Uploading " + path)
		return m, uploadCmd(m.ctx, m.client, m.logType, path)
	}
	return m, nil
}

// startInput opens the editor for mode, prefilled with value.
func (m *Model) startInput(mode inputMode, id, value string) tea.Cmd {
	m.mode = mode
	m.inputID = id
	switch mode {
	case inputName:
		m.input.Prompt = "name> "
		m.input.Placeholder = "pattern name"
	case inputSource:
		m.input.Prompt = "regex> "
		m.input.Placeholder = `e.g. (\d+\.\d+\.\d+\.\d+)`
	case inputUpload:
		m.input.Prompt = "file> "
		m.input.Placeholder = "path to a log file"
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.mode = inputNone
	m.inputID = ""
	m.input.Blur()
	m.input.SetValue("")
}

// analyze sends the current workspace for analysis.
func (m Model) analyze() (tea.Model, tea.Cmd) {
	if m.analyzing {
		return m, nil
	}
	if m.logType == "" {
		m.setError("No log type selected")
		return m, nil
	}
	specs := m.set.Specs()
	if len(specs) == 0 {
		m.setError("Add at least one pattern with an expression")
		return m, nil
	}
	m.analyzing = true
	m.setStatus(fmt.Sprintf("Analyzing %s...", m.logType))
	req := api.AnalysisRequest{LogType: m.logType, Patterns: specs, LineLimit: m.lineLimit}
	return m, analyzeCmd(m.ctx, m.client, m.store, req)
}

// switchLogType moves delta places through the server's log types and
// loads that type's patterns.
func (m Model) switchLogType(delta int) (tea.Model, tea.Cmd) {
	types := m.snapshot.LogTypes
	if len(types) == 0 {
		m.setError("Server reports no log types")
		return m, nil
	}
	next := 0
	for i, t := range types {
		if t == m.logType {
			next = ((i+delta)%len(types) + len(types)) % len(types)
			break
		}
	}
	if types[next] == m.logType {
		return m, nil
	}
	m.logType = types[next]
	m.loading = true
	m.savePrefs()
	return m, loadPatternsCmd(m.ctx, m.client, m.logType)
}

func (m *Model) adjustLineLimit(delta int) {
	n := min(max(m.lineLimit+delta, 1), LineLimitMax)
	if n == m.lineLimit {
		return
	}
	m.lineLimit = n
	m.savePrefs()
	m.setStatus(fmt.Sprintf("Line limit %d", n))
}

// revalidate compiles one pattern locally so the list can flag it before
// the server sees it.
func (m *Model) revalidate(id string) {
	p, ok := m.set.Get(id)
	if !ok || p.Pattern == "" {
		delete(m.validity, id)
		return
	}
	groups, err := patterns.Validate(p.Pattern)
	v := validity{groups: groups}
	if err != nil {
		v.err = err.Error()
	}
	m.validity[id] = v
}

func (m *Model) revalidateAll() {
	m.validity = make(map[string]validity, m.set.Len())
	for _, p := range m.set.All() {
		m.revalidate(p.ID)
	}
}
