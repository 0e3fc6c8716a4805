package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/hue"
)

func TestAnalyze_IPAddress(t *testing.T) {
	var e Engine
	resp, err := e.Analyze(context.Background(),
		[]string{"conn from 10.0.0.1 ok\n"},
		[]api.PatternSpec{{Name: "IP", Pattern: `(\d+\.\d+\.\d+\.\d+)`}},
		0,
	)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if resp.TotalLines != 1 || resp.AnalyzedLines != 1 || len(resp.Results) != 1 {
		t.Fatalf("counts = %d/%d/%d", resp.TotalLines, resp.AnalyzedLines, len(resp.Results))
	}
	line := resp.Results[0]
	if line.LineNumber != 1 || line.Line != "conn from 10.0.0.1 ok" {
		t.Fatalf("line = %+v", line)
	}
	if len(line.Matches) != 1 || line.Matches[0].Name != "IP" {
		t.Fatalf("matches = %+v", line.Matches)
	}
	if line.Matches[0].Color != hue.ForLabel("IP").String() {
		t.Fatalf("color = %q", line.Matches[0].Color)
	}
	m := line.Matches[0].Matches
	if len(m) != 1 || m[0].Start != 10 || m[0].End != 18 || m[0].Text != "10.0.0.1" {
		t.Fatalf("match = %+v", m)
	}
	want := api.GroupSpan{Start: 10, End: 18, Index: 1, Text: "10.0.0.1"}
	if len(m[0].Groups) != 1 || m[0].Groups[0] != want {
		t.Fatalf("groups = %+v, want %+v", m[0].Groups, want)
	}
}

func TestAnalyze_LineLimits(t *testing.T) {
	lines := make([]string, 150)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d   ", i+1)
	}

	tests := []struct {
		name     string
		lines    []string
		limit    int
		analyzed int
	}{
		{"default limit", lines, 0, 100},
		{"negative limit", lines, -3, 100},
		{"explicit limit", lines, 5, 5},
		{"limit above total", lines[:7], 50, 7},
		{"no lines", nil, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := Engine{}.Analyze(context.Background(), tt.lines, nil, tt.limit)
			if err != nil {
				t.Fatalf("Analyze: %v", err)
			}
			if resp.AnalyzedLines != tt.analyzed || len(resp.Results) != tt.analyzed {
				t.Fatalf("analyzed = %d (%d results), want %d", resp.AnalyzedLines, len(resp.Results), tt.analyzed)
			}
			if resp.TotalLines != len(tt.lines) {
				t.Fatalf("total = %d, want %d", resp.TotalLines, len(tt.lines))
			}
			for i, r := range resp.Results {
				if r.LineNumber != i+1 {
					t.Fatalf("line_number = %d, want %d", r.LineNumber, i+1)
				}
				if strings.HasSuffix(r.Line, " ") {
					t.Fatalf("trailing whitespace kept: %q", r.Line)
				}
				if r.Matches == nil {
					t.Fatalf("matches is nil for line %d", r.LineNumber)
				}
			}
		})
	}
}

func TestCompile_SkipsEmptyAndReportsInvalid(t *testing.T) {
	c := Engine{}.Compile([]api.PatternSpec{
		{Name: "empty"},
		{Name: "broken", Pattern: "(abc"},
		{Pattern: `(\d+)`},
	})
	if c.Len() != 1 {
		t.Fatalf("Len = %d, want 1", c.Len())
	}
	if len(c.Invalid) != 1 || c.Invalid[0].Name != "broken" {
		t.Fatalf("Invalid = %+v", c.Invalid)
	}

	got, err := c.Apply("x 42")
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Pattern 3" {
		t.Fatalf("Apply = %+v", got)
	}
}

func TestApply_Groups(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    string
	}{
		{"alternation skips idle group", `(a)|(b)`, "b", "[2:0-1]"},
		{"repeated matches", `(\d)`, "a1b2", "[1:1-2] [1:3-4]"},
		{"code point offsets", `(\d+)`, "héllo 42", "[1:6-8]"},
		{"astral offsets", `(x)`, "😀x", "[1:1-2]"},
		{"nested groups", `((\w+)@(\w+))`, "to bob@host", "[1:3-11 2:3-6 3:7-11]"},
		{"named group", `(?P<user>\w+)@`, "bob@host", "[1:0-3]"},
		{"named before unnamed", `user=(?P<user>\w+) id=(\d+)`, "user=bob id=42", "[1:5-8 2:12-14]"},
		{"named inside unnamed", `((?P<n>\d)x)(y)`, "1xy", "[1:0-2 2:0-1 3:2-3]"},
		{"parens in class", `[(](?P<v>\d)\)(\w)`, "(7)z", "[1:1-2 2:3-4]"},
		{"no groups", `ok`, "ok", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Engine{}.Compile([]api.PatternSpec{{Name: "p", Pattern: tt.pattern}})
			got, err := c.Apply(tt.line)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if len(got) != 1 {
				t.Fatalf("Apply = %+v", got)
			}
			var parts []string
			for _, m := range got[0].Matches {
				var groups []string
				for _, g := range m.Groups {
					groups = append(groups, fmt.Sprintf("%d:%d-%d", g.Index, g.Start, g.End))
				}
				parts = append(parts, "["+strings.Join(groups, " ")+"]")
			}
			if s := strings.Join(parts, " "); s != tt.want {
				t.Fatalf("groups = %s, want %s", s, tt.want)
			}
		})
	}
}

func TestAnalyze_NamedGroupsNumberLeftToRight(t *testing.T) {
	resp, err := Engine{}.Analyze(context.Background(),
		[]string{"user=bob id=42"},
		[]api.PatternSpec{{Name: "kv", Pattern: `user=(?P<user>\w+) id=(\d+)`}},
		0,
	)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	groups := resp.Results[0].Matches[0].Matches[0].Groups
	want := []api.GroupSpan{
		{Start: 5, End: 8, Index: 1, Text: "bob"},
		{Start: 12, End: 14, Index: 2, Text: "42"},
	}
	if len(groups) != len(want) {
		t.Fatalf("groups = %+v, want %+v", groups, want)
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Fatalf("group %d = %+v, want %+v", i, groups[i], want[i])
		}
	}
}

func TestApply_NoMatchOmitsPattern(t *testing.T) {
	c := Engine{}.Compile([]api.PatternSpec{{Name: "IP", Pattern: `(\d+\.\d+)`}})
	got, err := c.Apply("nothing here")
	if err != nil || len(got) != 0 {
		t.Fatalf("Apply = %+v, %v", got, err)
	}
}

func TestAnalyze_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Engine{}.Analyze(ctx, []string{"a"}, nil, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestAnalyze_MatchTimeoutIsReported(t *testing.T) {
	if testing.Short() {
		t.Skip("slow regex")
	}
	e := Engine{Timeout: 10 * time.Millisecond}
	line := strings.Repeat("a", 32) + "!"
	resp, err := e.Analyze(context.Background(),
		[]string{line, line},
		[]api.PatternSpec{{Name: "evil", Pattern: `^(a+)+$`}, {Name: "bang", Pattern: `(!)`}},
		0,
	)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(resp.Invalid) != 1 || resp.Invalid[0].Name != "evil" {
		t.Fatalf("Invalid = %+v, want one entry for evil", resp.Invalid)
	}
	for _, r := range resp.Results {
		if len(r.Matches) != 1 || r.Matches[0].Name != "bang" {
			t.Fatalf("line %d matches = %+v", r.LineNumber, r.Matches)
		}
	}
}
