// Package logstore keeps uploaded log files keyed by log type.
//
// Two implementations share the Store interface: Memory, which lives as long
// as the process, and SQLite, which persists uploads zstd-compressed in a
// single table so they survive a server restart.
package logstore

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned when no upload exists for a log type.
var ErrNotFound = errors.New("upload not found")

// Upload is one uploaded log file, already split into lines.
type Upload struct {
	LogType    string
	Filename   string
	Lines      []string
	Size       int
	UploadedAt time.Time
}

// Info describes an upload without its content.
type Info struct {
	LogType    string    `json:"log_type"`
	Filename   string    `json:"filename"`
	Lines      int       `json:"lines"`
	Size       int       `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store holds at most one upload per log type; Put replaces.
type Store interface {
	Put(ctx context.Context, u Upload) error
	Lines(ctx context.Context, logType string) ([]string, error)
	List(ctx context.Context) ([]Info, error)
	Delete(ctx context.Context, logType string) error
	Close() error
}

var (
	_ Store = (*Memory)(nil)
	_ Store = (*SQLite)(nil)
)

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	uploads map[string]Upload
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{uploads: make(map[string]Upload)}
}

func (m *Memory) Put(_ context.Context, u Upload) error {
	if u.UploadedAt.IsZero() {
		u.UploadedAt = time.Now()
	}
	lines := make([]string, len(u.Lines))
	copy(lines, u.Lines)
	u.Lines = lines

	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[u.LogType] = u
	return nil
}

func (m *Memory) Lines(_ context.Context, logType string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.uploads[logType]
	if !ok {
		return nil, ErrNotFound
	}
	lines := make([]string, len(u.Lines))
	copy(lines, u.Lines)
	return lines, nil
}

func (m *Memory) List(_ context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Info, 0, len(m.uploads))
	for _, u := range m.uploads {
		out = append(out, info(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LogType < out[j].LogType })
	return out, nil
}

func (m *Memory) Delete(_ context.Context, logType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.uploads[logType]; !ok {
		return ErrNotFound
	}
	delete(m.uploads, logType)
	return nil
}

func (m *Memory) Close() error { return nil }

func info(u Upload) Info {
	return Info{
		LogType:    u.LogType,
		Filename:   u.Filename,
		Lines:      len(u.Lines),
		Size:       u.Size,
		UploadedAt: u.UploadedAt,
	}
}
