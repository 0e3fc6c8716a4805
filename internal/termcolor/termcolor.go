// Package termcolor decides whether and how richly terminal output is
// colored.
package termcolor

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode is the user's color preference.
type Mode int

const (
	Auto Mode = iota
	Always
	Never
)

func (m Mode) String() string {
	switch m {
	case Always:
		return "always"
	case Never:
		return "never"
	default:
		return "auto"
	}
}

// ParseMode reads auto, always or never. The empty string is auto.
func ParseMode(v string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "auto":
		return Auto, nil
	case "always":
		return Always, nil
	case "never":
		return Never, nil
	}
	return Auto, fmt.Errorf("unknown color mode %q", v)
}

// Env turns KEY=VALUE pairs, as returned by os.Environ, into a map.
func Env(pairs []string) map[string]string {
	env := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		env[k] = v
	}
	return env
}

// Resolve turns Auto into Always or Never. TERM=dumb, NO_COLOR and
// CLICOLOR=0 disable color; a non-zero CLICOLOR_FORCE or FORCE_COLOR enables
// it; otherwise color follows whether out is a terminal.
func Resolve(mode Mode, out *os.File, env map[string]string) Mode {
	if mode != Auto {
		return mode
	}
	switch {
	case strings.EqualFold(strings.TrimSpace(env["TERM"]), "dumb"):
		return Never
	case strings.TrimSpace(env["NO_COLOR"]) != "":
		return Never
	case strings.TrimSpace(env["CLICOLOR"]) == "0":
		return Never
	case forced(env["CLICOLOR_FORCE"]) || forced(env["FORCE_COLOR"]):
		return Always
	}
	if IsTerminal(out) {
		return Always
	}
	return Never
}

// Profile picks the richest color profile the environment advertises.
func Profile(env map[string]string) termenv.Profile {
	colorterm := strings.ToLower(env["COLORTERM"])
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		return termenv.TrueColor
	}
	if strings.Contains(strings.ToLower(env["TERM"]), "256color") {
		return termenv.ANSI256
	}
	return termenv.ANSI
}

// Renderer builds a lipgloss renderer for w honoring mode.
func Renderer(w io.Writer, mode Mode, env map[string]string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	if mode == Never {
		r.SetColorProfile(termenv.Ascii)
		return r
	}
	r.SetColorProfile(Profile(env))
	return r
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func forced(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != "0"
}
