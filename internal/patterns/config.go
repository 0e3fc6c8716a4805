package patterns

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/five82/logstory/internal/api"
)

// ErrLogTypeNotFound is returned for log types absent from a Config.
var ErrLogTypeNotFound = errors.New("log type not found")

// LogType is one entry of the pattern config file.
type LogType struct {
	Timestamps []api.PatternSpec `yaml:"timestamps"`
}

// Config maps log type names to their patterns.
type Config map[string]LogType

// LoadFile reads a pattern config from path. A missing file yields an empty
// Config.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return nil, fmt.Errorf("read patterns: %w", err)
	}
	return Parse(data)
}

// Parse decodes a pattern config document.
func Parse(data []byte) (Config, error) {
	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse patterns: %w", err)
	}
	return cfg, nil
}

// LogTypes returns the configured log types, sorted.
func (c Config) LogTypes() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Patterns returns the patterns configured for logType.
func (c Config) Patterns(logType string) ([]api.PatternSpec, error) {
	lt, ok := c[logType]
	if !ok {
		return nil, fmt.Errorf("%q: %w", logType, ErrLogTypeNotFound)
	}
	out := make([]api.PatternSpec, len(lt.Timestamps))
	copy(out, lt.Timestamps)
	return out, nil
}
