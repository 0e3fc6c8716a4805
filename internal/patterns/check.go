package patterns

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/five82/logstory/internal/api"
)

// Problem is one finding from Check.
type Problem struct {
	LogType string
	Pattern string
	Message string
}

func (p Problem) String() string {
	if p.Pattern == "" {
		return fmt.Sprintf("%s: %s", p.LogType, p.Message)
	}
	return fmt.Sprintf("%s.%s: %s", p.LogType, p.Pattern, p.Message)
}

// probe is formatted and parsed back to test date formats.
var probe = time.Date(2024, time.January, 15, 9, 30, 45, 0, time.UTC)

// Check lints every log type in cfg. Log types are visited in sorted order
// and patterns in file order, so the output is stable.
func Check(cfg Config) []Problem {
	var problems []Problem
	for _, logType := range cfg.LogTypes() {
		specs := cfg[logType].Timestamps
		if specs == nil {
			continue
		}
		report := func(pattern, format string, args ...any) {
			problems = append(problems, Problem{LogType: logType, Pattern: pattern, Message: fmt.Sprintf(format, args...)})
		}

		seen := make(map[string]int)
		baseTimes := 0
		for i, spec := range specs {
			name := spec.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i+1)
			}
			for _, msg := range checkSpec(spec) {
				report(name, "%s", msg)
			}
			if spec.BaseTime {
				baseTimes++
			}
			if spec.Name != "" {
				seen[spec.Name]++
			}
		}
		if baseTimes != 1 {
			report("", "should have exactly one base_time pattern, found %d", baseTimes)
		}
		for _, spec := range specs {
			if n := seen[spec.Name]; n > 1 {
				report(spec.Name, "name used %d times", n)
				seen[spec.Name] = 0
			}
		}
	}
	return problems
}

func checkSpec(spec api.PatternSpec) []string {
	var out []string
	if strings.TrimSpace(spec.Name) == "" {
		out = append(out, "missing required field 'name'")
	}
	if spec.Pattern == "" {
		out = append(out, "missing required field 'pattern'")
	}
	if spec.Group <= 0 {
		out = append(out, fmt.Sprintf("'group' must be positive, got %d", spec.Group))
	}

	if spec.Pattern != "" {
		groups, err := Validate(spec.Pattern)
		switch {
		case err != nil:
			out = append(out, fmt.Sprintf("pattern failed to compile: %v", err))
		case spec.Group > groups:
			out = append(out, fmt.Sprintf("group %d exceeds available groups (%d)", spec.Group, groups))
		}
	}

	switch {
	case spec.Epoch && spec.DateFormat != "":
		out = append(out, "epoch patterns should not have dateformat")
	case !spec.Epoch && spec.DateFormat == "":
		out = append(out, "non-epoch patterns must have dateformat")
	case !spec.Epoch:
		if err := checkDateFormat(spec.DateFormat); err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}

// checkDateFormat formats a known instant with layout and parses it back.
// Formats without a four digit year only need the month, day and clock to
// survive.
func checkDateFormat(layout string) error {
	formatted := strftime.Format(layout, probe)
	parsed, err := strftime.Parse(layout, formatted)
	if err != nil {
		return fmt.Errorf("invalid dateformat %q: %v", layout, err)
	}
	if !strings.Contains(layout, "%Y") {
		if parsed.Month() != probe.Month() || parsed.Day() != probe.Day() ||
			parsed.Hour() != probe.Hour() || parsed.Minute() != probe.Minute() || parsed.Second() != probe.Second() {
			return fmt.Errorf("dateformat %q does not round-trip: %s", layout, formatted)
		}
		return nil
	}
	if !parsed.Equal(probe) {
		return fmt.Errorf("dateformat %q round-trip failed: %s", layout, formatted)
	}
	return nil
}
