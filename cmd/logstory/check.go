package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/five82/logstory/internal/patterns"
)

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "lint a pattern config file",
		ArgsUsage: "[patterns.yaml]",
		Action:    checkAction,
	}
}

func checkAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		cfg, err := loadConfig(c)
		if err != nil {
			return err
		}
		path = cfg.PatternsFile
	}

	// LoadFile treats a missing file as empty, which is not a pass here
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("check patterns: %w", err)
	}
	pc, err := patterns.LoadFile(path)
	if err != nil {
		return err
	}

	problems := patterns.Check(pc)
	for _, p := range problems {
		fmt.Fprintln(c.App.Writer, p)
	}
	if n := len(problems); n > 0 {
		return cli.Exit(fmt.Sprintf("%s: %d %s", path, n, plural(n, "problem", "problems")), 1)
	}
	fmt.Fprintf(c.App.Writer, "%s: %d log types ok\n", path, len(pc))
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
