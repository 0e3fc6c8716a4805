package patterns

import (
	"errors"
	"sync"
	"testing"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/hue"
)

func names(ps []Pattern) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestSet_AddDefaultsNameAndAssignsIDs(t *testing.T) {
	s := NewSet(api.PatternSpec{Name: "IP", Pattern: `(\d+\.\d+\.\d+\.\d+)`}, api.PatternSpec{})
	all := s.All()
	if len(all) != 2 {
		t.Fatalf("Len = %d, want 2", len(all))
	}
	if all[1].Name != "Pattern 2" {
		t.Fatalf("default name = %q, want %q", all[1].Name, "Pattern 2")
	}
	if all[0].ID == "" || all[0].ID == all[1].ID {
		t.Fatalf("ids not unique: %q %q", all[0].ID, all[1].ID)
	}
}

func TestSet_ColorsFollowIdentityNotPosition(t *testing.T) {
	s := NewSet(
		api.PatternSpec{Name: "first", Pattern: "a"},
		api.PatternSpec{Name: "second", Pattern: "b"},
		api.PatternSpec{Name: "third", Pattern: "c"},
	)
	all := s.All()
	before := s.Colors()

	if err := s.Remove(all[0].ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	after := s.Colors()
	for _, p := range all[1:] {
		if after[p.ID] != before[p.ID] {
			t.Fatalf("color of %s changed after removing a sibling: %v -> %v", p.Name, before[p.ID], after[p.ID])
		}
		if after[p.ID] != hue.ForLabel(p.Name) {
			t.Fatalf("color of %s = %v, want %v", p.Name, after[p.ID], hue.ForLabel(p.Name))
		}
	}
	if _, ok := after[all[0].ID]; ok {
		t.Fatal("removed pattern still has a color")
	}
}

func TestSet_RenameRecolors(t *testing.T) {
	s := NewSet(api.PatternSpec{Name: "old", Pattern: "a"})
	id := s.All()[0].ID
	if err := s.Rename(id, "new name"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if c, _ := s.Color(id); c != hue.ForLabel("new name") {
		t.Fatalf("Color = %v, want %v", c, hue.ForLabel("new name"))
	}

	if err := s.Rename(id, ""); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got := s.DisplayName(id); got != "Pattern 1" {
		t.Fatalf("DisplayName = %q, want %q", got, "Pattern 1")
	}
	if c, _ := s.Color(id); c != hue.ForLabel("Pattern 1") {
		t.Fatalf("unnamed Color = %v, want %v", c, hue.ForLabel("Pattern 1"))
	}
}

func TestSet_Move(t *testing.T) {
	tests := []struct {
		name  string
		from  int
		delta int
		want  []string
	}{
		{"down one", 0, 1, []string{"b", "a", "c"}},
		{"up one", 2, -1, []string{"a", "c", "b"}},
		{"clamped top", 1, -10, []string{"b", "a", "c"}},
		{"clamped bottom", 0, 10, []string{"b", "c", "a"}},
		{"no-op", 1, 0, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSet(api.PatternSpec{Name: "a"}, api.PatternSpec{Name: "b"}, api.PatternSpec{Name: "c"})
			p, _ := s.At(tt.from)
			if err := s.Move(p.ID, tt.delta); err != nil {
				t.Fatalf("Move: %v", err)
			}
			got := names(s.All())
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSet_UnknownID(t *testing.T) {
	s := NewSet()
	for name, err := range map[string]error{
		"remove": s.Remove("nope"),
		"rename": s.Rename("nope", "x"),
		"edit":   s.SetSource("nope", "x"),
		"move":   s.Move("nope", 1),
	} {
		if !errors.Is(err, ErrUnknownPattern) {
			t.Errorf("%s: err = %v, want ErrUnknownPattern", name, err)
		}
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("Get returned ok for unknown id")
	}
}

func TestSet_SpecsSkipsEmptyExpressions(t *testing.T) {
	s := NewSet(api.PatternSpec{Name: "IP", Pattern: `(\d+)`}, api.PatternSpec{Name: "draft"})
	p, _ := s.At(1)
	if err := s.SetSource(p.ID, "x(y)"); err != nil {
		t.Fatalf("SetSource: %v", err)
	}
	s.Add(api.PatternSpec{Name: "empty"})

	specs := s.Specs()
	if len(specs) != 2 || specs[0].Name != "IP" || specs[1].Pattern != "x(y)" {
		t.Fatalf("Specs = %+v", specs)
	}
}

func TestSet_Replace(t *testing.T) {
	s := NewSet(api.PatternSpec{Name: "a"})
	s.Replace([]api.PatternSpec{{Name: "x"}, {Name: "y"}})
	if got := names(s.All()); len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Fatalf("names after Replace = %v", got)
	}
}

func TestSet_ConcurrentUse(t *testing.T) {
	s := NewSet()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := s.Add(api.PatternSpec{Pattern: "a"})
			_ = s.Colors()
			_ = s.Specs()
			_ = s.Rename(p.ID, "renamed")
		}()
	}
	wg.Wait()
	if s.Len() != 8 {
		t.Fatalf("Len = %d, want 8", s.Len())
	}
}
