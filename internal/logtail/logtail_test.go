package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeLog(t *testing.T, n int) (string, []string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var all []string
	for i := 1; i <= n; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		all = append(all, line)
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}
	return path, all
}

func TestRead(t *testing.T) {
	logPath, expectedAll := writeLog(t, 10)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "zero reads nothing",
			maxLines: 0,
			expected: nil,
		},
		{
			name:     "negative reads nothing",
			maxLines: -1,
			expected: nil,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil || got != nil {
		t.Fatalf("Read() = %v, %v; want nil, nil", got, err)
	}
}

func TestHead(t *testing.T) {
	logPath, expectedAll := writeLog(t, 10)

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{"count only", 0, nil},
		{"first three", 3, expectedAll[:3]},
		{"everything", 10, expectedAll},
		{"more than exists", 1000, expectedAll},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := Head(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Head() error = %v", err)
			}
			if total != 10 {
				t.Fatalf("total = %d, want 10", total)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Head() = %v, want %v", got, tt.expected)
			}
		})
	}

	got, total, err := Head(filepath.Join(t.TempDir(), "absent.log"), 5)
	if err != nil || got != nil || total != 0 {
		t.Fatalf("Head(missing) = %v, %d, %v", got, total, err)
	}
}

func TestHead_DropsInvalidUTF8(t *testing.T) {
	got, total, err := head(strings.NewReader("ok\xff line\r\nnext\n"), 10)
	if err != nil {
		t.Fatalf("head() error = %v", err)
	}
	want := []string{"ok line", "next"}
	if total != 2 || !reflect.DeepEqual(got, want) {
		t.Fatalf("head() = %q (%d), want %q", got, total, want)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single without newline", "one", []string{"one"}},
		{"trailing newline", "one\ntwo\n", []string{"one", "two"}},
		{"crlf", "one\r\ntwo\r\n", []string{"one", "two"}},
		{"bare cr", "one\rtwo", []string{"one", "two"}},
		{"blank lines kept", "a\n\nb", []string{"a", "", "b"}},
		{"invalid utf8 dropped", "caf\xc3\xa9 \xfe\xffok", []string{"café ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split([]byte(tt.input))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestJoinSplitRoundTrip(t *testing.T) {
	lines := []string{"a", "", "b c"}
	if got := Split([]byte(Join(lines))); !reflect.DeepEqual(got, lines) {
		t.Fatalf("Split(Join()) = %q, want %q", got, lines)
	}
	if Join(nil) != "" {
		t.Fatal("Join(nil) not empty")
	}
}
