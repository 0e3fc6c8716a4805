package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings shared by the server and the terminal client.
type Config struct {
	Listen         string
	ServerURL      string
	PatternsFile   string
	LogDir         string
	Store          string
	DBPath         string
	LineLimit      int
	ContentLimit   int
	MaxUploadBytes int64
	RegexTimeout   time.Duration
	LogLevel       string
	LogFormat      string
}

const (
	envPrefix           = "LOGSTORY"
	defaultConfigPath   = "~/.config/logstory/config.toml"
	defaultListen       = "127.0.0.1:5000"
	defaultPatternsFile = "~/.config/logstory/patterns.yaml"
	defaultLogDir       = "~/.local/share/logstory/logs"
	defaultDBPath       = "~/.local/share/logstory/uploads.db"
	defaultStore        = "memory"
	defaultLineLimit    = 100
	defaultContentLimit = 1000
	defaultMaxUpload    = 32 << 20
	defaultRegexTimeout = 2 * time.Second
	defaultLogLevel     = "info"
	defaultLogFormat    = "auto"
)

type raw struct {
	Listen         string        `mapstructure:"listen"`
	ServerURL      string        `mapstructure:"server_url"`
	PatternsFile   string        `mapstructure:"patterns_file"`
	LogDir         string        `mapstructure:"log_dir"`
	Store          string        `mapstructure:"store"`
	DBPath         string        `mapstructure:"db_path"`
	LineLimit      int           `mapstructure:"line_limit"`
	ContentLimit   int           `mapstructure:"content_limit"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	RegexTimeout   time.Duration `mapstructure:"regex_timeout"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
}

// Load reads the TOML config at path (or the default location), applies
// LOGSTORY_* environment overrides, and falls back to defaults for anything
// missing. A missing file is not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.SetConfigFile(resolved)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &parseErr):
			return Config{}, fmt.Errorf("parse config: %w", err)
		case errors.Is(err, os.ErrNotExist), errors.As(err, &notFound):
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var r raw
	if err := v.Unmarshal(&r); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return normalize(r)
}

// Default returns the configuration used when no file or environment
// overrides exist.
func Default() Config {
	cfg, _ := normalize(raw{})
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen", defaultListen)
	v.SetDefault("server_url", "")
	v.SetDefault("patterns_file", defaultPatternsFile)
	v.SetDefault("log_dir", defaultLogDir)
	v.SetDefault("store", defaultStore)
	v.SetDefault("db_path", defaultDBPath)
	v.SetDefault("line_limit", defaultLineLimit)
	v.SetDefault("content_limit", defaultContentLimit)
	v.SetDefault("max_upload_bytes", defaultMaxUpload)
	v.SetDefault("regex_timeout", defaultRegexTimeout)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("log_format", defaultLogFormat)
}

func normalize(r raw) (Config, error) {
	cfg := Config{
		Listen:         orDefault(r.Listen, defaultListen),
		ServerURL:      strings.TrimSpace(r.ServerURL),
		PatternsFile:   mustExpand(orDefault(r.PatternsFile, defaultPatternsFile)),
		LogDir:         mustExpand(orDefault(r.LogDir, defaultLogDir)),
		Store:          strings.ToLower(orDefault(r.Store, defaultStore)),
		DBPath:         mustExpand(orDefault(r.DBPath, defaultDBPath)),
		LineLimit:      r.LineLimit,
		ContentLimit:   r.ContentLimit,
		MaxUploadBytes: r.MaxUploadBytes,
		RegexTimeout:   r.RegexTimeout,
		LogLevel:       orDefault(r.LogLevel, defaultLogLevel),
		LogFormat:      orDefault(r.LogFormat, defaultLogFormat),
	}
	if cfg.LineLimit <= 0 {
		cfg.LineLimit = defaultLineLimit
	}
	if cfg.ContentLimit <= 0 {
		cfg.ContentLimit = defaultContentLimit
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUpload
	}
	if cfg.RegexTimeout <= 0 {
		cfg.RegexTimeout = defaultRegexTimeout
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = "http://" + cfg.Listen
	}
	switch cfg.Store {
	case "memory", "sqlite":
	default:
		return Config{}, fmt.Errorf("unknown store %q (want memory or sqlite)", cfg.Store)
	}
	return cfg, nil
}

// LogPath returns the on-disk log consulted for logType when nothing has
// been uploaded. Names that would escape LogDir are rejected.
func (c Config) LogPath(logType string) (string, bool) {
	name := strings.TrimSpace(logType)
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", false
	}
	dir := c.LogDir
	if strings.TrimSpace(dir) == "" {
		dir = mustExpand(defaultLogDir)
	}
	return filepath.Join(dir, name+".log"), true
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
