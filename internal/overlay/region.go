package overlay

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/five82/logstory/internal/hue"
)

// Kind says what a region annotates.
type Kind int

const (
	// KindGroup marks a capture group span.
	KindGroup Kind = iota
	// KindMatch marks a whole-match span.
	KindMatch
)

// DefaultPriority is carried by every region the highlighter builds today.
const DefaultPriority = 1

// Region is one annotated span of a line.
type Region struct {
	Start int
	End   int
	Color hue.HSL
	// Label is the name of the pattern that produced the span.
	Label string
	// Group is the regex group index.
	Group int
	// Ordinal is the 1-based position of the group within its match.
	Ordinal  int
	Kind     Kind
	Priority int
}

// Title is the tooltip text for the region.
func (r Region) Title() string {
	if r.Kind == KindMatch {
		return "Full Match"
	}
	return fmt.Sprintf("Capture Group %d", r.Group)
}

// NormalizedLabel collapses whitespace runs in the label to "-" and lower
// cases the result.
func (r Region) NormalizedLabel() string {
	return NormalizeLabel(r.Label)
}

// NormalizeLabel is the label form used in data attributes.
func NormalizeLabel(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	inSpace := false
	for _, r := range label {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

func (r Region) empty() bool {
	return r.Start == r.End
}

func clampRegion(r Region, n int) Region {
	r.Start = clamp(r.Start, 0, n)
	r.End = clamp(r.End, 0, n)
	if r.End < r.Start {
		r.End = r.Start
	}
	return r
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
