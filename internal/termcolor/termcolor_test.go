package termcolor

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/muesli/termenv"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Auto, false},
		{"AUTO", Auto, false},
		{" always ", Always, false},
		{"never", Never, false},
		{"sometimes", Auto, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestResolve(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer f.Close()

	tests := []struct {
		name string
		mode Mode
		env  map[string]string
		want Mode
	}{
		{"explicit always", Always, map[string]string{"NO_COLOR": "1"}, Always},
		{"explicit never", Never, map[string]string{"FORCE_COLOR": "1"}, Never},
		{"dumb terminal", Auto, map[string]string{"TERM": "dumb", "FORCE_COLOR": "1"}, Never},
		{"no color", Auto, map[string]string{"NO_COLOR": "yes"}, Never},
		{"clicolor off", Auto, map[string]string{"CLICOLOR": "0"}, Never},
		{"forced", Auto, map[string]string{"CLICOLOR_FORCE": "1"}, Always},
		{"force zero ignored", Auto, map[string]string{"FORCE_COLOR": "0"}, Never},
		{"regular file", Auto, nil, Never},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.mode, f, tt.env); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfile(t *testing.T) {
	if got := Profile(map[string]string{"COLORTERM": "truecolor"}); got != termenv.TrueColor {
		t.Errorf("truecolor profile = %v", got)
	}
	if got := Profile(map[string]string{"TERM": "xterm-256color"}); got != termenv.ANSI256 {
		t.Errorf("256 profile = %v", got)
	}
	if got := Profile(nil); got != termenv.ANSI {
		t.Errorf("default profile = %v", got)
	}
}

func TestRenderer_NeverIsPlain(t *testing.T) {
	r := Renderer(io.Discard, Never, map[string]string{"COLORTERM": "truecolor"})
	if r.ColorProfile() != termenv.Ascii {
		t.Fatalf("profile = %v, want Ascii", r.ColorProfile())
	}
}

func TestEnv(t *testing.T) {
	env := Env([]string{"A=1", "B=", "C", "", "D=x=y"})
	if env["A"] != "1" || env["B"] != "" || env["D"] != "x=y" {
		t.Fatalf("Env = %v", env)
	}
	if _, ok := env["C"]; !ok {
		t.Fatalf("bare key missing: %v", env)
	}
}
