package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/five82/logstory/internal/config"
	"github.com/five82/logstory/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := newApp(stdin, stdout, stderr)
	if err := app.RunContext(ctx, args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(stderr, "logstory: %s\n", msg)
		}
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			return exit.ExitCode()
		}
		return 1
	}
	return 0
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "logstory",
		Usage:     "highlight log lines with named regular expressions",
		Version:   version,
		Reader:    stdin,
		Writer:    stdout,
		ErrWriter: stderr,
		// errors are printed and mapped to exit codes by run
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default ~/.config/logstory/config.toml)",
				EnvVars: []string{"LOGSTORY_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides log_level)",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			tuiCommand(),
			renderCommand(),
			checkCommand(),
		},
	}
}

// loadConfig reads the configuration named by the global --config flag.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}
	if lvl := c.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

// newLogger builds the stderr logger used by serve, render and check.
func newLogger(c *cli.Context, cfg config.Config) (zerolog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    c.App.ErrWriter,
	})
}
