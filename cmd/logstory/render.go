package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v2"

	"github.com/five82/logstory/internal/analyze"
	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/config"
	"github.com/five82/logstory/internal/highlight"
	"github.com/five82/logstory/internal/logtail"
	"github.com/five82/logstory/internal/overlay"
	"github.com/five82/logstory/internal/patterns"
	"github.com/five82/logstory/internal/termcolor"
)

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "print a log file with pattern matches highlighted",
		ArgsUsage: "[file|-]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-type", Aliases: []string{"t"}, Usage: "use this log type's patterns from the pattern file"},
			&cli.StringFlag{Name: "patterns", Usage: "pattern config file (overrides patterns_file)"},
			&cli.StringSliceFlag{Name: "pattern", Aliases: []string{"p"}, Usage: "extra pattern as name=regex (repeatable)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "lines to analyze; 0 means all"},
			&cli.StringFlag{Name: "color", Value: "auto", Usage: "auto, always or never"},
			&cli.BoolFlag{Name: "legend", Usage: "print the pattern legend first"},
			&cli.BoolFlag{Name: "no-line-numbers", Usage: "omit the line number gutter"},
		},
		Action: renderAction,
	}
}

func renderAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	logger, err := newLogger(c, cfg)
	if err != nil {
		return err
	}
	mode, err := termcolor.ParseMode(c.String("color"))
	if err != nil {
		return err
	}

	specs, err := renderSpecs(cfg, c.String("patterns"), c.String("log-type"), c.StringSlice("pattern"))
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return cli.Exit("no patterns: pass --log-type or --pattern name=regex", 2)
	}

	data, err := readInput(c.App.Reader, c.Args().First())
	if err != nil {
		return err
	}
	lines := logtail.Split(data)

	limit := c.Int("limit")
	if limit <= 0 {
		limit = max(len(lines), 1)
	}
	engine := analyze.Engine{Timeout: cfg.RegexTimeout}
	resp, err := engine.Analyze(c.Context, lines, specs, limit)
	if err != nil {
		return err
	}
	for _, inv := range resp.Invalid {
		logger.Warn().Str("pattern", inv.Name).Str("error", inv.Error).Msg("pattern skipped")
	}

	env := termcolor.Env(os.Environ())
	out, _ := c.App.Writer.(*os.File)
	mode = termcolor.Resolve(mode, out, env)

	opts := renderOptions{
		Legend:      c.Bool("legend"),
		LineNumbers: !c.Bool("no-line-numbers"),
	}
	return writeRendered(c.App.Writer, termcolor.Renderer(c.App.Writer, mode, env), resp, specs, opts)
}

// renderSpecs collects patterns from the pattern file (when logType is set)
// followed by name=regex flags.
func renderSpecs(cfg config.Config, file, logType string, extra []string) ([]api.PatternSpec, error) {
	var specs []api.PatternSpec
	if logType != "" {
		if file == "" {
			file = cfg.PatternsFile
		}
		pc, err := patterns.LoadFile(file)
		if err != nil {
			return nil, err
		}
		specs, err = pc.Patterns(logType)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}
	for _, flag := range extra {
		spec, err := parsePatternFlag(flag)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// parsePatternFlag splits name=regex at the first '='. A bare regex gets no
// name and is labeled by its position.
func parsePatternFlag(v string) (api.PatternSpec, error) {
	name, source, ok := strings.Cut(v, "=")
	if !ok {
		name, source = "", v
	}
	if source == "" {
		return api.PatternSpec{}, fmt.Errorf("pattern %q has an empty expression", v)
	}
	return api.PatternSpec{Name: strings.TrimSpace(name), Pattern: source}, nil
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" || path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return data, nil
}

type renderOptions struct {
	Legend      bool
	LineNumbers bool
}

// writeRendered prints resp through the ANSI markup bound to renderer.
func writeRendered(w io.Writer, renderer *lipgloss.Renderer, resp api.AnalysisResponse, specs []api.PatternSpec, opts renderOptions) error {
	bw := bufio.NewWriter(w)
	palette := highlight.NewPalette()
	markup := overlay.NewANSI(renderer)

	if opts.Legend {
		legend := highlight.Legend(specs, palette)
		width := 0
		for _, e := range legend {
			width = max(width, runewidth.StringWidth(e.Name))
		}
		for _, e := range legend {
			swatch := renderer.NewStyle().Background(lipgloss.Color(e.Hex)).Render("  ")
			fmt.Fprintf(bw, "%s %s  %s\n", swatch, runewidth.FillRight(overlay.Sanitize(e.Name), width), overlay.Sanitize(e.Pattern))
		}
		fmt.Fprintln(bw)
	}

	gutter := 0
	if opts.LineNumbers && len(resp.Results) > 0 {
		gutter = len(strconv.Itoa(resp.Results[len(resp.Results)-1].LineNumber))
	}
	for _, r := range resp.Results {
		if gutter > 0 {
			fmt.Fprintf(bw, "%*d  ", gutter, r.LineNumber)
		}
		bw.WriteString(highlight.Line(r, palette, markup))
		bw.WriteByte('\n')
	}
	if resp.AnalyzedLines < resp.TotalLines {
		fmt.Fprintf(bw, "... %d more lines\n", resp.TotalLines-resp.AnalyzedLines)
	}
	return bw.Flush()
}
