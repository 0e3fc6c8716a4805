package overlay

import (
	"fmt"
	"html"
)

// HTML renders regions as <span> elements. Literal text and every attribute
// value are escaped; the tags themselves are trusted structure.
type HTML struct{}

func (HTML) Open(r Region) string {
	class := "highlighted-text"
	if r.Kind == KindGroup {
		class = fmt.Sprintf("highlighted-text group-highlight group-%d", r.Ordinal)
	}
	return fmt.Sprintf(`<span class="%s" data-pattern="%s" title="%s" style="background-color: %s">`,
		class,
		html.EscapeString(r.NormalizedLabel()),
		html.EscapeString(r.Title()),
		html.EscapeString(r.Color.String()),
	)
}

func (HTML) Close(Region) string { return "</span>" }

func (HTML) Text(s string, _ []Region) string { return html.EscapeString(s) }

// Plain drops all markers.
type Plain struct{}

func (Plain) Open(Region) string { return "" }

func (Plain) Close(Region) string { return "" }

func (Plain) Text(s string, _ []Region) string { return s }
