package overlay

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/logstory/internal/hue"
)

// ANSI colors each text segment with the background of the innermost region
// covering it. Control characters are shown as their Unicode control pictures
// so a hostile log line cannot drive the terminal.
type ANSI struct {
	renderer *lipgloss.Renderer

	mu     sync.Mutex
	styles map[hue.HSL]lipgloss.Style
}

// NewANSI returns an ANSI markup bound to renderer. A nil renderer uses the
// lipgloss default.
func NewANSI(renderer *lipgloss.Renderer) *ANSI {
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	return &ANSI{renderer: renderer, styles: make(map[hue.HSL]lipgloss.Style)}
}

func (a *ANSI) Open(Region) string { return "" }

func (a *ANSI) Close(Region) string { return "" }

func (a *ANSI) Text(s string, open []Region) string {
	s = Sanitize(s)
	if len(open) == 0 {
		return s
	}
	return a.style(open[len(open)-1].Color).Render(s)
}

func (a *ANSI) style(c hue.HSL) lipgloss.Style {
	a.mu.Lock()
	defer a.mu.Unlock()
	if st, ok := a.styles[c]; ok {
		return st
	}
	st := a.renderer.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(lipgloss.Color(hue.TextOn(c))).
		TabWidth(lipgloss.NoTabConversion)
	a.styles[c] = st
	return st
}

// Sanitize replaces C0 control characters and DEL with their visible
// control-picture glyphs. C1 controls have no glyph and become U+FFFD.
// Tabs are kept.
func Sanitize(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == 0x7f:
			return '␡'
		case r >= 0x80 && r <= 0x9f:
			return utf8.RuneError
		case isControl(r):
			return 0x2400 + r
		}
		return r
	}, s)
}

func isControl(r rune) bool {
	return (r < 0x20 && r != '\t') || (r >= 0x7f && r <= 0x9f)
}
