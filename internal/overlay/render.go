package overlay

import (
	"sort"
	"strings"
)

// EventKind distinguishes start and end markers.
type EventKind int

const (
	Open EventKind = iota
	Close
)

func (k EventKind) String() string {
	if k == Close {
		return "close"
	}
	return "open"
}

// Event is one boundary of a region.
type Event struct {
	Pos    int
	Kind   EventKind
	Region Region
	// Seq identifies the region the event belongs to.
	Seq int
}

// rank orders events sharing a position: closes, then empty pairs, then opens.
func (e Event) rank() int {
	switch {
	case e.Region.empty():
		return 1
	case e.Kind == Close:
		return 0
	default:
		return 2
	}
}

// Markup emits the concrete syntax for a render.
type Markup interface {
	// Open returns the start marker for r.
	Open(r Region) string
	// Close returns the end marker for r.
	Close(r Region) string
	// Text returns s, escaped for the output format. open lists the regions
	// covering s, outermost first.
	Text(s string, open []Region) string
}

// Events returns the ordered boundary events for regions over a text of n
// code points. Offsets are clamped to [0, n].
func Events(regions []Region, n int) []Event {
	sorted := make([]Region, len(regions))
	for i, r := range regions {
		sorted[i] = clampRegion(r, n)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Priority > sorted[j].Priority
	})

	events := make([]Event, 0, len(sorted)*2)
	for seq, r := range sorted {
		events = append(events,
			Event{Pos: r.Start, Kind: Open, Region: r, Seq: seq},
			Event{Pos: r.End, Kind: Close, Region: r, Seq: seq},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Pos != b.Pos {
			return a.Pos < b.Pos
		}
		if ra, rb := a.rank(), b.rank(); ra != rb {
			return ra < rb
		}
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return a.Kind < b.Kind
	})
	return events
}

// Render writes text with regions marked up by m.
func Render(text string, regions []Region, m Markup) string {
	runes := []rune(text)
	if len(regions) == 0 {
		return m.Text(text, nil)
	}

	var b strings.Builder
	b.Grow(len(text) * 2)

	var stack []Region
	var ids []int
	last := 0
	for _, ev := range Events(regions, len(runes)) {
		if ev.Pos > last {
			b.WriteString(m.Text(string(runes[last:ev.Pos]), stack))
			last = ev.Pos
		}
		if ev.Kind == Open {
			b.WriteString(m.Open(ev.Region))
			stack = append(stack, ev.Region)
			ids = append(ids, ev.Seq)
			continue
		}
		b.WriteString(m.Close(ev.Region))
		for i := len(ids) - 1; i >= 0; i-- {
			if ids[i] == ev.Seq {
				stack = append(stack[:i], stack[i+1:]...)
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
	if last < len(runes) {
		b.WriteString(m.Text(string(runes[last:]), stack))
	}
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteString(m.Close(stack[i]))
	}
	return b.String()
}

// RenderAnnotated renders text as HTML.
func RenderAnnotated(text string, regions []Region) string {
	return Render(text, regions, HTML{})
}
