package main

import (
	"context"
	"fmt"

	"github.com/pkg/browser"
	"github.com/urfave/cli/v2"

	"github.com/five82/logstory/internal/config"
	"github.com/five82/logstory/internal/logstore"
	"github.com/five82/logstory/internal/server"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the web UI and API server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "listen", Usage: "address to listen on (overrides listen)"},
			&cli.StringFlag{Name: "patterns", Usage: "pattern config file (overrides patterns_file)"},
			&cli.StringFlag{Name: "log-dir", Usage: "directory of <log_type>.log files (overrides log_dir)"},
			&cli.StringFlag{Name: "store", Usage: "upload store: memory or sqlite (overrides store)"},
			&cli.BoolFlag{Name: "open", Usage: "open the web UI in a browser"},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if v := c.String("listen"); v != "" {
		cfg.Listen = v
	}
	if v := c.String("patterns"); v != "" {
		cfg.PatternsFile = v
	}
	if v := c.String("log-dir"); v != "" {
		cfg.LogDir = v
	}
	if v := c.String("store"); v != "" {
		cfg.Store = v
	}

	logger, err := newLogger(c, cfg)
	if err != nil {
		return err
	}

	store, err := openStore(c.Context, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Options{Config: cfg, Store: store, Logger: logger, Version: version})
	ln, err := srv.Listen(cfg.Listen)
	if err != nil {
		return err
	}

	url := "http://" + ln.Addr().String()
	logger.Info().
		Str("url", url).
		Str("patterns", cfg.PatternsFile).
		Str("log_dir", cfg.LogDir).
		Str("store", cfg.Store).
		Str("version", version).
		Msg("logstory server listening")

	if c.Bool("open") {
		go func() {
			if err := browser.OpenURL(url); err != nil {
				logger.Warn().Err(err).Msg("open browser")
			}
		}()
	}
	return srv.Serve(c.Context, ln)
}

func openStore(ctx context.Context, cfg config.Config) (logstore.Store, error) {
	switch cfg.Store {
	case "", "memory":
		return logstore.NewMemory(), nil
	case "sqlite":
		return logstore.OpenSQLite(ctx, cfg.DBPath)
	}
	return nil, fmt.Errorf("unknown store %q (want memory or sqlite)", cfg.Store)
}
