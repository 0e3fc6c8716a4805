package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/config"
	"github.com/five82/logstory/internal/prefs"
	"github.com/five82/logstory/internal/state"
	"github.com/five82/logstory/internal/ui"
)

const (
	requestTimeout     = 5 * time.Second
	availabilityWindow = 3 * time.Second
)

// Options configure the terminal client.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/logstory/prefs.toml
	ServerURL  string // overrides the configured server_url
	LogType    string // initial log type; empty uses the last one used
	PollEvery  int    // seconds; zero uses default
	Logger     zerolog.Logger
}

// Run boots the terminal client until the context is cancelled or the user
// quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.ServerURL != "" {
		cfg.ServerURL = opts.ServerURL
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		opts.Logger.Warn().Err(err).Msg("using default preferences")
	}

	client, err := api.NewClient(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("init api client: %w", err)
	}
	if err := ensureServerAvailable(ctx, client); err != nil {
		return err
	}

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// populate the store before the first frame
	_ = refresh(ctx, store, client, opts.Logger)
	StartPoller(ctx, store, client, interval, opts.Logger)

	lineLimit := cfg.LineLimit
	if userPrefs.LineLimit > 0 {
		lineLimit = userPrefs.LineLimit
	}
	logType := opts.LogType
	if logType == "" {
		logType = userPrefs.LastLogType
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		PollTick:  time.Second,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		LogType:   logType,
		LineLimit: lineLimit,
		Logger:    opts.Logger,
	})
}

// ensureServerAvailable fails fast when nothing answers at the server URL.
func ensureServerAvailable(ctx context.Context, client api.Service) error {
	checkCtx, cancel := context.WithTimeout(ctx, availabilityWindow)
	defer cancel()
	if _, err := client.Health(checkCtx); err != nil {
		base := ""
		if c, ok := client.(*api.Client); ok {
			base = c.BaseURL()
		}
		return fmt.Errorf("logstory server not reachable at %s (start it with `logstory serve`): %w", base, err)
	}
	return nil
}
