package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Focus      key.Binding
	Analyze    key.Binding
	PrevType   key.Binding
	NextType   key.Binding
	Reload     key.Binding
	Upload     key.Binding
	Discard    key.Binding
	MoreLines  key.Binding
	FewerLines key.Binding

	// Patterns pane
	Add      key.Binding
	Rename   key.Binding
	Edit     key.Binding
	Remove   key.Binding
	MoveUp   key.Binding
	MoveDown key.Binding

	// Navigation
	Up           key.Binding
	Down         key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	// Input
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Help:       key.NewBinding(key.WithKeys("?", "h"), key.WithHelp("?", "help")),
		CycleTheme: key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "cycle theme")),
		Focus:      key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "switch pane")),
		Analyze:    key.NewBinding(key.WithKeys("r", "ctrl+r"), key.WithHelp("r", "analyze")),
		PrevType:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous log type")),
		NextType:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next log type")),
		Reload:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "reload patterns")),
		Upload:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload log file")),
		Discard:    key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "discard upload")),
		MoreLines:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "line limit")),
		FewerLines: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "fewer lines")),

		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add pattern")),
		Rename:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "rename")),
		Edit:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit expression")),
		Remove:   key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "remove")),
		MoveUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K/J", "reorder")),
		MoveDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move down")),

		Up:           key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "move")),
		Down:         key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
		Top:          key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/G", "top/bottom")),
		Bottom:       key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "half page up")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "half page down")),

		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.Add, k.Edit, k.Focus, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Rename, k.Edit, k.Remove, k.MoveUp},
		{k.Analyze, k.PrevType, k.NextType, k.Reload, k.Upload, k.Discard, k.MoreLines},
		{k.Up, k.Top, k.HalfPageDown, k.HalfPageUp, k.Focus},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

var helpTitles = []string{"Patterns", "Analysis", "Navigation", "General"}
