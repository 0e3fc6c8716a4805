package server

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/five82/logstory/internal/patterns"
)

// catalog serves the pattern config, reloading the file when its size or
// modification time changes.
type catalog struct {
	path string

	mu      sync.Mutex
	cfg     patterns.Config
	modTime time.Time
	size    int64
	loaded  bool
}

func newCatalog(path string) *catalog {
	return &catalog{path: path}
}

func (c *catalog) Config() (patterns.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.cfg, c.loaded = patterns.Config{}, true
			c.modTime, c.size = time.Time{}, 0
			return c.cfg, nil
		}
		return nil, fmt.Errorf("stat patterns: %w", err)
	}
	if c.loaded && info.ModTime().Equal(c.modTime) && info.Size() == c.size {
		return c.cfg, nil
	}

	cfg, err := patterns.LoadFile(c.path)
	if err != nil {
		return nil, err
	}
	c.cfg, c.loaded = cfg, true
	c.modTime, c.size = info.ModTime(), info.Size()
	return cfg, nil
}
