package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/config"
)

const goodPatterns = `APACHE_ACCESS:
  timestamps:
    - name: request_time
      pattern: '\[(\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}) [+-]\d{4}\]'
      group: 1
      dateformat: '%d/%b/%Y:%H:%M:%S'
      base_time: true
    - name: epoch
      pattern: 'ts=(\d{10})'
      group: 1
      epoch: true
`

const badPatterns = `SYSLOG:
  timestamps:
    - name: broken
      pattern: '(unclosed'
      group: 1
      dateformat: '%Y-%m-%d %H:%M:%S'
`

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	// an empty config keeps the user's real config out of the test
	cfg := filepath.Join(t.TempDir(), "config.toml")
	var stdout, stderr bytes.Buffer
	argv := append([]string{"logstory", "--config", cfg}, args...)
	code := run(argv, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRender_FromStdin(t *testing.T) {
	res := runCLI(t, "boot ok\nconn from 10.0.0.1 ok  \n",
		"render", "--color", "never", "--pattern", `ip=(\d+\.\d+\.\d+\.\d+)`)
	if res.code != 0 {
		t.Fatalf("exit %d, stderr %q", res.code, res.stderr)
	}
	want := "1  boot ok\n2  conn from 10.0.0.1 ok\n"
	if res.stdout != want {
		t.Fatalf("stdout = %q, want %q", res.stdout, want)
	}
}

func TestRender_LogTypeLimitAndLegend(t *testing.T) {
	patternsFile := writeTemp(t, "patterns.yaml", goodPatterns)
	logFile := writeTemp(t, "access.log",
		"10.0.0.1 - - [15/Jan/2024:09:30:45 +0000] \"GET /\"\nsecond\nthird\n")

	res := runCLI(t, "", "render", "--color", "never", "--patterns", patternsFile,
		"-t", "APACHE_ACCESS", "-n", "1", "--legend", "--no-line-numbers", logFile)
	if res.code != 0 {
		t.Fatalf("exit %d, stderr %q", res.code, res.stderr)
	}

	lines := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	want := []string{
		`   request_time  \[(\d{2}/\w{3}/\d{4}:\d{2}:\d{2}:\d{2}) [+-]\d{4}\]`,
		`   epoch         ts=(\d{10})`,
		"",
		`10.0.0.1 - - [15/Jan/2024:09:30:45 +0000] "GET /"`,
		"... 2 more lines",
	}
	if len(lines) != len(want) {
		t.Fatalf("stdout lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestRender_Errors(t *testing.T) {
	patternsFile := writeTemp(t, "patterns.yaml", goodPatterns)
	cases := []struct {
		name    string
		args    []string
		code    int
		message string
	}{
		{"no patterns", []string{"render", "--color", "never"}, 2, "no patterns"},
		{"unknown log type", []string{"render", "--patterns", patternsFile, "-t", "NOPE"}, 1, "log type not found"},
		{"bad color", []string{"render", "--color", "sometimes", "-p", "x"}, 1, "unknown color mode"},
		{"empty expression", []string{"render", "-p", "name="}, 1, "empty expression"},
		{"missing file", []string{"render", "-p", "x", filepath.Join(t.TempDir(), "nope.log")}, 1, "read log"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := runCLI(t, "", tc.args...)
			if res.code != tc.code {
				t.Fatalf("exit %d, want %d (stderr %q)", res.code, tc.code, res.stderr)
			}
			if !strings.Contains(res.stderr, tc.message) {
				t.Fatalf("stderr = %q, want it to mention %q", res.stderr, tc.message)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	good := writeTemp(t, "good.yaml", goodPatterns)
	res := runCLI(t, "", "check", good)
	if res.code != 0 {
		t.Fatalf("exit %d, stdout %q stderr %q", res.code, res.stdout, res.stderr)
	}
	if !strings.Contains(res.stdout, "1 log types ok") {
		t.Fatalf("stdout = %q", res.stdout)
	}

	bad := writeTemp(t, "bad.yaml", badPatterns)
	res = runCLI(t, "", "check", bad)
	if res.code != 1 {
		t.Fatalf("exit %d, want 1", res.code)
	}
	for _, want := range []string{"SYSLOG.broken: pattern failed to compile", "exactly one base_time"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, res.stdout)
		}
	}
	if !strings.Contains(res.stderr, "2 problems") {
		t.Fatalf("stderr = %q", res.stderr)
	}

	res = runCLI(t, "", "check", filepath.Join(t.TempDir(), "missing.yaml"))
	if res.code != 1 || !strings.Contains(res.stderr, "check patterns") {
		t.Fatalf("missing file: exit %d stderr %q", res.code, res.stderr)
	}
}

func TestParsePatternFlag(t *testing.T) {
	cases := []struct {
		in   string
		want api.PatternSpec
	}{
		{"ip=(\\d+)", api.PatternSpec{Name: "ip", Pattern: `(\d+)`}},
		{" spaced =a=b", api.PatternSpec{Name: "spaced", Pattern: "a=b"}},
		{`(\w+)`, api.PatternSpec{Pattern: `(\w+)`}},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := parsePatternFlag(tc.in)
			if err != nil {
				t.Fatalf("parsePatternFlag(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Fatalf("parsePatternFlag(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestOpenStore(t *testing.T) {
	cfg := testConfig(t)
	for _, kind := range []string{"memory", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			cfg.Store = kind
			store, err := openStore(t.Context(), cfg)
			if err != nil {
				t.Fatalf("openStore(%s): %v", kind, err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
		})
	}
	cfg.Store = "redis"
	if _, err := openStore(t.Context(), cfg); err == nil {
		t.Fatal("openStore accepted an unknown store")
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "uploads.db")
	return cfg
}
