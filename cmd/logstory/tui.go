package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/five82/logstory/internal/app"
	"github.com/five82/logstory/internal/logging"
)

func tuiCommand() *cli.Command {
	return &cli.Command{
		Name:  "tui",
		Usage: "open the terminal client against a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "server", Usage: "server URL (overrides server_url)"},
			&cli.StringFlag{Name: "log-type", Aliases: []string{"t"}, Usage: "log type to open"},
			&cli.StringFlag{Name: "prefs", Usage: "preferences file (default ~/.config/logstory/prefs.toml)"},
			&cli.IntFlag{Name: "poll", Usage: "health poll interval in seconds"},
			&cli.StringFlag{Name: "log-file", Usage: "write client logs to this file"},
		},
		Action: tuiAction,
	}
}

func tuiAction(c *cli.Context) error {
	// the terminal belongs to the UI, so logs go to a file or nowhere
	logger := zerolog.Nop()
	if path := c.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger, err = logging.New(logging.Options{Level: c.String("log-level"), Format: "json", Out: f})
		if err != nil {
			return err
		}
	}

	return app.Run(c.Context, app.Options{
		ConfigPath: c.String("config"),
		PrefsPath:  c.String("prefs"),
		ServerURL:  c.String("server"),
		LogType:    c.String("log-type"),
		PollEvery:  c.Int("poll"),
		Logger:     logger,
	})
}
