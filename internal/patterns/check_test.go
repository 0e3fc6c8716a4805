package patterns

import (
	"path/filepath"
	"strings"
	"testing"
)

func hasProblem(problems []Problem, logType, pattern, substr string) bool {
	for _, p := range problems {
		if p.LogType == logType && p.Pattern == pattern && strings.Contains(p.Message, substr) {
			return true
		}
	}
	return false
}

func TestCheck_CleanConfig(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "patterns.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if problems := Check(cfg); len(problems) != 0 {
		t.Fatalf("Check found problems in a clean config: %v", problems)
	}
}

func TestCheck_ReportsEveryRule(t *testing.T) {
	cfg, err := Parse([]byte(`
BAD:
  timestamps:
    - name: broken
      pattern: '(unclosed'
      group: 1
      dateformat: '%Y-%m-%d'
    - name: broken
      pattern: '(\d+)'
      group: 2
      epoch: true
      dateformat: '%s'
    - pattern: 'x'
    - name: no_format
      pattern: '(\d+)'
      group: 1
TWO_BASES:
  timestamps:
    - name: a
      pattern: '(\d+)'
      group: 1
      epoch: true
      base_time: true
    - name: b
      pattern: '(\d+)'
      group: 1
      epoch: true
      base_time: true
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	problems := Check(cfg)

	tests := []struct {
		logType string
		pattern string
		substr  string
	}{
		{"BAD", "broken", "failed to compile"},
		{"BAD", "broken", "exceeds available groups (1)"},
		{"BAD", "broken", "epoch patterns should not have dateformat"},
		{"BAD", "broken", "name used 2 times"},
		{"BAD", "#3", "missing required field 'name'"},
		{"BAD", "#3", "'group' must be positive"},
		{"BAD", "no_format", "non-epoch patterns must have dateformat"},
		{"BAD", "", "exactly one base_time pattern, found 0"},
		{"TWO_BASES", "", "exactly one base_time pattern, found 2"},
	}
	for _, tt := range tests {
		if !hasProblem(problems, tt.logType, tt.pattern, tt.substr) {
			t.Errorf("missing problem %s.%s: %q in %v", tt.logType, tt.pattern, tt.substr, problems)
		}
	}
}

func TestCheckDateFormat(t *testing.T) {
	tests := []struct {
		layout  string
		wantErr bool
	}{
		{"%Y-%m-%d %H:%M:%S", false},
		{"%d/%b/%Y:%H:%M:%S", false},
		{"%b %d %H:%M:%S", false},
		{"%Y-%m-%d", true},
		{"%H:%M", true},
	}
	for _, tt := range tests {
		err := checkDateFormat(tt.layout)
		if (err != nil) != tt.wantErr {
			t.Errorf("checkDateFormat(%q) err = %v, wantErr %v", tt.layout, err, tt.wantErr)
		}
	}
}

func TestProblemString(t *testing.T) {
	p := Problem{LogType: "SYSLOG", Pattern: "ts", Message: "bad"}
	if p.String() != "SYSLOG.ts: bad" {
		t.Fatalf("String = %q", p.String())
	}
	p.Pattern = ""
	if p.String() != "SYSLOG: bad" {
		t.Fatalf("String = %q", p.String())
	}
}
