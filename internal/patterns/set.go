package patterns

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/hue"
)

// ErrUnknownPattern is returned for ids not present in a Set.
var ErrUnknownPattern = errors.New("unknown pattern")

// Pattern is a PatternSpec with a stable identity.
type Pattern struct {
	api.PatternSpec `yaml:",inline"`

	ID string `json:"id" yaml:"-"`
}

// Set is an ordered collection of patterns. It is safe for concurrent use.
type Set struct {
	mu     sync.RWMutex
	items  []Pattern
	colors map[string]hue.HSL
}

// NewSet builds a Set holding specs in order.
func NewSet(specs ...api.PatternSpec) *Set {
	s := &Set{colors: make(map[string]hue.HSL)}
	for _, spec := range specs {
		s.add(spec)
	}
	return s
}

// Add appends spec and returns the stored pattern. An empty name becomes
// "Pattern N".
func (s *Set) Add(spec api.PatternSpec) Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(spec)
}

func (s *Set) add(spec api.PatternSpec) Pattern {
	if strings.TrimSpace(spec.Name) == "" {
		spec.Name = fmt.Sprintf("Pattern %d", len(s.items)+1)
	}
	p := Pattern{ID: uuid.NewString(), PatternSpec: spec}
	s.items = append(s.items, p)
	return p
}

// Replace discards every pattern and loads specs in their place.
func (s *Set) Replace(specs []api.PatternSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = s.items[:0]
	s.colors = make(map[string]hue.HSL)
	for _, spec := range specs {
		s.add(spec)
	}
}

// Remove deletes the pattern with id.
func (s *Set) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrUnknownPattern)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	// unnamed entries after i changed position, and with it their label
	s.colors = make(map[string]hue.HSL)
	return nil
}

// Rename changes a pattern's name. Its color follows the new name.
func (s *Set) Rename(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("rename %s: %w", id, ErrUnknownPattern)
	}
	s.items[i].Name = name
	delete(s.colors, id)
	return nil
}

// SetSource replaces a pattern's expression.
func (s *Set) SetSource(id, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("edit %s: %w", id, ErrUnknownPattern)
	}
	s.items[i].Pattern = source
	return nil
}

// Move shifts a pattern delta places, clamped to the ends of the list.
func (s *Set) Move(id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("move %s: %w", id, ErrUnknownPattern)
	}
	j := i + delta
	if j < 0 {
		j = 0
	}
	if j > len(s.items)-1 {
		j = len(s.items) - 1
	}
	if i == j {
		return nil
	}
	p := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.items = append(s.items[:j], append([]Pattern{p}, s.items[j:]...)...)
	s.colors = make(map[string]hue.HSL)
	return nil
}

// Get returns the pattern with id.
func (s *Set) Get(id string) (Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return Pattern{}, false
	}
	return s.items[i], true
}

// At returns the pattern at position i.
func (s *Set) At(i int) (Pattern, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.items) {
		return Pattern{}, false
	}
	return s.items[i], true
}

// All returns a copy of the patterns in order.
func (s *Set) All() []Pattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Pattern, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of patterns.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Specs returns the patterns to analyze: every entry with a non-empty
// expression, named by its display name.
func (s *Set) Specs() []api.PatternSpec {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]api.PatternSpec, 0, len(s.items))
	for i, p := range s.items {
		if p.Pattern == "" {
			continue
		}
		spec := p.PatternSpec
		spec.Name = displayName(p, i)
		out = append(out, spec)
	}
	return out
}

// DisplayName is the label the pattern is shown and colored under.
func (s *Set) DisplayName(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return ""
	}
	return displayName(s.items[i], i)
}

// Color returns the base color of the pattern with id.
func (s *Set) Color(id string) (hue.HSL, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index(id)
	if i < 0 {
		return hue.HSL{}, false
	}
	return s.color(i), true
}

// Colors maps every pattern id to its base color.
func (s *Set) Colors() map[string]hue.HSL {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]hue.HSL, len(s.items))
	for i, p := range s.items {
		out[p.ID] = s.color(i)
	}
	return out
}

func (s *Set) color(i int) hue.HSL {
	p := s.items[i]
	if c, ok := s.colors[p.ID]; ok {
		return c
	}
	if s.colors == nil {
		s.colors = make(map[string]hue.HSL)
	}
	c := hue.ForLabel(displayName(p, i))
	s.colors[p.ID] = c
	return c
}

func (s *Set) index(id string) int {
	for i, p := range s.items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func displayName(p Pattern, i int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("Pattern %d", i+1)
}
