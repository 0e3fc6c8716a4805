package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/hue"
	"github.com/five82/logstory/internal/patterns"
)

// Engine holds analysis settings.
type Engine struct {
	// Timeout bounds each regexp2 match; zero means patterns.DefaultTimeout.
	Timeout time.Duration
}

type program struct {
	name   string
	source string
	color  string
	re     *patterns.Regexp
}

// Compiled is a ready-to-run pattern list.
type Compiled struct {
	programs []program
	Invalid  []api.InvalidPattern
}

// Compile prepares specs for matching.
func (e Engine) Compile(specs []api.PatternSpec) *Compiled {
	c := &Compiled{}
	for i, spec := range specs {
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("Pattern %d", i+1)
		}
		if spec.Pattern == "" {
			continue
		}
		re, err := patterns.Compile(spec.Pattern, e.Timeout)
		if err != nil {
			c.Invalid = append(c.Invalid, api.InvalidPattern{Name: name, Error: err.Error()})
			continue
		}
		c.programs = append(c.programs, program{
			name:   name,
			source: spec.Pattern,
			color:  hue.ForLabel(name).String(),
			re:     re,
		})
	}
	return c
}

// Len reports how many patterns compiled.
func (c *Compiled) Len() int {
	if c == nil {
		return 0
	}
	return len(c.programs)
}

// MatchError reports a pattern that failed while matching, usually by
// running past its timeout.
type MatchError struct {
	Pattern string
	Err     error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("pattern %q: %v", e.Pattern, e.Err)
}

func (e *MatchError) Unwrap() error { return e.Err }

// Apply matches every compiled pattern against line. A pattern that hits
// its match timeout keeps the matches found so far; the timeout is returned
// alongside.
func (c *Compiled) Apply(line string) ([]api.PatternMatches, error) {
	if c == nil {
		return nil, nil
	}
	var (
		out      []api.PatternMatches
		firstErr error
	)
	for _, p := range c.programs {
		matches, err := p.find(line)
		if err != nil && firstErr == nil {
			firstErr = &MatchError{Pattern: p.name, Err: err}
		}
		if len(matches) == 0 {
			continue
		}
		out = append(out, api.PatternMatches{
			Name:    p.name,
			Pattern: p.source,
			Color:   p.color,
			Matches: matches,
		})
	}
	return out, firstErr
}

func (p program) find(line string) ([]api.Match, error) {
	var out []api.Match
	m, err := p.re.FindStringMatch(line)
	for m != nil {
		match := api.Match{
			Start:  m.Index,
			End:    m.Index + m.Length,
			Text:   m.String(),
			Groups: []api.GroupSpan{},
		}
		for n := 1; n <= p.re.Groups(); n++ {
			g := p.re.Group(m, n)
			if g == nil {
				continue
			}
			match.Groups = append(match.Groups, api.GroupSpan{
				Start: g.Index,
				End:   g.Index + g.Length,
				Index: n,
				Text:  g.String(),
			})
		}
		out = append(out, match)
		m, err = p.re.FindNextMatch(m)
	}
	return out, err
}

// Analyze applies specs to the first limit lines. A non-positive limit means
// api.DefaultLineLimit. Only context cancellation aborts the run.
func (e Engine) Analyze(ctx context.Context, lines []string, specs []api.PatternSpec, limit int) (api.AnalysisResponse, error) {
	if limit <= 0 {
		limit = api.DefaultLineLimit
	}
	n := min(limit, len(lines))

	c := e.Compile(specs)
	resp := api.AnalysisResponse{
		Results:       make([]api.LineResult, 0, n),
		TotalLines:    len(lines),
		AnalyzedLines: n,
		Invalid:       c.Invalid,
	}
	failed := make(map[string]bool)
	var me *MatchError
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return api.AnalysisResponse{}, err
		}
		matches, err := c.Apply(lines[i])
		if errors.As(err, &me) && !failed[me.Pattern] {
			failed[me.Pattern] = true
			resp.Invalid = append(resp.Invalid, api.InvalidPattern{Name: me.Pattern, Error: fmt.Sprintf("line %d: %v", i+1, me.Err)})
		}
		if matches == nil {
			matches = []api.PatternMatches{}
		}
		resp.Results = append(resp.Results, api.LineResult{
			LineNumber: i + 1,
			Line:       strings.TrimRightFunc(lines[i], unicode.IsSpace),
			Matches:    matches,
		})
	}
	return resp, nil
}
