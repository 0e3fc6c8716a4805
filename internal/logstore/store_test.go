package logstore

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "uploads.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": db,
	}
}

func TestStore_PutLinesListDelete(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			lines := []string{"first", "", "third ünïcode"}
			at := time.Unix(1700000000, 0)
			if err := s.Put(ctx, Upload{LogType: "SYSLOG", Filename: "sys.log", Lines: lines, Size: 42, UploadedAt: at}); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if err := s.Put(ctx, Upload{LogType: "APACHE", Filename: "a.log", Lines: []string{"x"}}); err != nil {
				t.Fatalf("Put: %v", err)
			}

			got, err := s.Lines(ctx, "SYSLOG")
			if err != nil {
				t.Fatalf("Lines: %v", err)
			}
			if !reflect.DeepEqual(got, lines) {
				t.Fatalf("Lines = %q, want %q", got, lines)
			}

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 2 || list[0].LogType != "APACHE" || list[1].LogType != "SYSLOG" {
				t.Fatalf("List = %+v", list)
			}
			if list[1].Lines != 3 || list[1].Size != 42 || list[1].Filename != "sys.log" || !list[1].UploadedAt.Equal(at) {
				t.Fatalf("SYSLOG info = %+v", list[1])
			}
			if list[0].UploadedAt.IsZero() {
				t.Fatal("UploadedAt not defaulted")
			}

			if err := s.Delete(ctx, "SYSLOG"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := s.Lines(ctx, "SYSLOG"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Lines after delete err = %v, want ErrNotFound", err)
			}
			if err := s.Delete(ctx, "SYSLOG"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("second Delete err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_PutReplaces(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_ = s.Put(ctx, Upload{LogType: "T", Lines: []string{"old"}})
			_ = s.Put(ctx, Upload{LogType: "T", Lines: []string{"new", "lines"}})
			got, err := s.Lines(ctx, "T")
			if err != nil {
				t.Fatalf("Lines: %v", err)
			}
			if strings.Join(got, ",") != "new,lines" {
				t.Fatalf("Lines = %q", got)
			}
		})
	}
}

func TestMemory_CopiesLines(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	lines := []string{"a"}
	_ = m.Put(ctx, Upload{LogType: "T", Lines: lines})
	lines[0] = "mutated"
	got, _ := m.Lines(ctx, "T")
	if got[0] != "a" {
		t.Fatalf("store shares caller slice: %q", got)
	}
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "uploads.db")

	db, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	big := make([]string, 5000)
	for i := range big {
		big[i] = "repeated log line with some entropy " + strings.Repeat("x", i%17)
	}
	if err := db.Put(ctx, Upload{LogType: "BIG", Lines: big}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db.Close()
	got, err := db.Lines(ctx, "BIG")
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if !reflect.DeepEqual(got, big) {
		t.Fatalf("reloaded %d lines, want %d", len(got), len(big))
	}
}
