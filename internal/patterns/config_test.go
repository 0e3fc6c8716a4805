package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFile(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "patterns.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	got := strings.Join(cfg.LogTypes(), ",")
	if got != "APACHE_ACCESS,NOTES,SYSLOG" {
		t.Fatalf("LogTypes = %s", got)
	}

	specs, err := cfg.Patterns("SYSLOG")
	if err != nil {
		t.Fatalf("Patterns: %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "syslog_time" || !specs[0].BaseTime || specs[0].Group != 1 {
		t.Fatalf("SYSLOG patterns = %+v", specs)
	}
	if specs[0].DateFormat != "%b %d %H:%M:%S" {
		t.Fatalf("dateformat = %q", specs[0].DateFormat)
	}

	if _, err := cfg.Patterns("MISSING"); !errors.Is(err, ErrLogTypeNotFound) {
		t.Fatalf("Patterns(MISSING) err = %v, want ErrLogTypeNotFound", err)
	}
}

func TestLoadFile_MissingIsEmpty(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg) != 0 {
		t.Fatalf("cfg = %v, want empty", cfg)
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("SYSLOG: [unterminated"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := LoadFile(path)
	if err == nil || !strings.Contains(err.Error(), "parse patterns") {
		t.Fatalf("LoadFile err = %v, want parse error", err)
	}
}

func TestConfig_PatternsReturnsCopy(t *testing.T) {
	cfg, err := LoadFile(filepath.Join("testdata", "patterns.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	specs, _ := cfg.Patterns("SYSLOG")
	specs[0].Name = "mutated"
	again, _ := cfg.Patterns("SYSLOG")
	if again[0].Name != "syslog_time" {
		t.Fatalf("Patterns shares backing storage with Config")
	}
}
