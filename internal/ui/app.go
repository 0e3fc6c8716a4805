package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/highlight"
	"github.com/five82/logstory/internal/overlay"
	"github.com/five82/logstory/internal/patterns"
	"github.com/five82/logstory/internal/prefs"
	"github.com/five82/logstory/internal/state"
)

// pane identifies which half of the screen receives navigation keys.
type pane int

const (
	panePatterns pane = iota
	paneResults
)

// inputMode is what the single-line editor is currently collecting.
type inputMode int

const (
	inputNone inputMode = iota
	inputName
	inputSource
	inputUpload
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    api.Service
	Store     *state.Store
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	LogType   string
	LineLimit int
	Logger    zerolog.Logger

	// Renderer decides the color profile of highlighted lines. Nil uses
	// the lipgloss default.
	Renderer *lipgloss.Renderer
}

// validity is the local compile result of one pattern.
type validity struct {
	groups int
	err    string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	client    api.Service
	store     *state.Store
	prefsPath string
	pollTick  time.Duration
	log       zerolog.Logger

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	focus    pane
	showHelp bool

	// Data state
	snapshot   state.Snapshot
	renderedAt time.Time // AnalyzedAt of the content in results

	// Pattern workspace
	logType   string
	lineLimit int
	set       *patterns.Set
	selected  int
	validity  map[string]validity

	// Editor
	input   textinput.Model
	mode    inputMode
	inputID string

	// Results
	results viewport.Model
	markup  *overlay.ANSI
	palette *highlight.Palette

	loading   bool
	analyzing bool
	status    string
	statusErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	store := opts.Store
	if store == nil {
		store = &state.Store{}
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	lineLimit := opts.LineLimit
	if lineLimit <= 0 {
		lineLimit = api.DefaultLineLimit
	}

	ti := textinput.New()
	ti.CharLimit = 4096

	h := help.New()
	h.ShortSeparator = "  "

	return Model{
		ctx:       ctx,
		client:    opts.Client,
		store:     store,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		log:       opts.Logger,
		theme:     GetTheme(opts.ThemeName),
		keys:      DefaultKeyMap(),
		help:      h,
		logType:   opts.LogType,
		lineLimit: min(lineLimit, LineLimitMax),
		set:       patterns.NewSet(),
		validity:  make(map[string]validity),
		input:     ti,
		results:   viewport.New(0, 0),
		markup:    overlay.NewANSI(opts.Renderer),
		palette:   highlight.NewPalette(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick), fetchSnapshotCmd(m.store)}
	if m.logType != "" {
		cmds = append(cmds, loadPatternsCmd(m.ctx, m.client, m.logType))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		m.renderResults(true)
		return m, nil

	case tickMsg:
		return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))

	case snapshotMsg:
		return m.applySnapshot(state.Snapshot(msg))

	case patternsMsg:
		return m.handlePatterns(msg)

	case analysisMsg:
		m.analyzing = false
		if msg.err != nil {
			m.setError("Analysis failed: " + msg.err.Error())
		} else {
			m.setStatus(analysisSummary(msg.snapshot.Analysis))
		}
		return m.applySnapshot(msg.snapshot)

	case uploadMsg:
		m.loading = false
		if msg.err != nil {
			m.setError("Upload failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatus(uploadSummary(msg))
		return m, nil

	case discardMsg:
		if msg.err != nil {
			m.setError("Discard failed: " + msg.err.Error())
			return m, nil
		}
		m.setStatus("Upload discarded for " + msg.logType)
		return m, nil
	}

	if m.mode != inputNone {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

// applySnapshot stores snap and re-renders results when the analysis
// changed. The first snapshot with log types picks a log type when none was
// configured.
func (m Model) applySnapshot(snap state.Snapshot) (tea.Model, tea.Cmd) {
	m.snapshot = snap
	m.renderResults(false)

	if m.logType == "" && len(snap.LogTypes) > 0 {
		m.logType = snap.LogTypes[0]
		m.loading = true
		return m, loadPatternsCmd(m.ctx, m.client, m.logType)
	}
	return m, nil
}

// handlePatterns replaces the workspace with a freshly loaded pattern list.
// Replies for a log type the user already moved away from are dropped.
func (m Model) handlePatterns(msg patternsMsg) (tea.Model, tea.Cmd) {
	if msg.logType != m.logType {
		return m, nil
	}
	m.loading = false
	if msg.err != nil {
		m.setError("Load patterns: " + msg.err.Error())
		return m, nil
	}
	m.set.Replace(msg.specs)
	m.selected = 0
	m.revalidateAll()
	m.setStatus(patternsSummary(len(msg.specs), msg.logType))
	return m, nil
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}

// savePrefs persists the theme, log type and line limit. Failures are
// logged only.
func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastLogType: m.logType, LineLimit: m.lineLimit}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save preferences")
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}
