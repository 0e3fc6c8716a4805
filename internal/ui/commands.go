package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/logstory/internal/api"
	"github.com/five82/logstory/internal/state"
)

// Message types
type tickMsg time.Time

type snapshotMsg state.Snapshot

type patternsMsg struct {
	logType string
	specs   []api.PatternSpec
	err     error
}

type analysisMsg struct {
	snapshot state.Snapshot
	err      error
}

type uploadMsg struct {
	filename string
	resp     api.UploadResponse
	err      error
}

type discardMsg struct {
	logType string
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func loadPatternsCmd(ctx context.Context, client api.Service, logType string) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return patternsMsg{logType: logType, err: api.ErrNilClient}
		}
		reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		specs, err := client.FetchPatterns(reqCtx, logType)
		return patternsMsg{logType: logType, specs: specs, err: err}
	}
}

// analyzeCmd runs one analysis and records its outcome in store, so a failed
// run keeps the previous results on screen.
func analyzeCmd(ctx context.Context, client api.Service, store *state.Store, req api.AnalysisRequest) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return analysisMsg{snapshot: store.Snapshot(), err: api.ErrNilClient}
		}
		reqCtx, cancel := context.WithTimeout(ctx, AnalyzeTimeout)
		defer cancel()
		resp, err := client.Analyze(reqCtx, req)
		if err != nil {
			store.UpdateAnalysis(nil, err)
		} else {
			store.UpdateAnalysis(&resp, nil)
		}
		return analysisMsg{snapshot: store.Snapshot(), err: err}
	}
}

func uploadCmd(ctx context.Context, client api.Service, logType, path string) tea.Cmd {
	return func() tea.Msg {
		name := filepath.Base(path)
		if client == nil {
			return uploadMsg{filename: name, err: api.ErrNilClient}
		}
		f, err := os.Open(expandHome(path))
		if err != nil {
			return uploadMsg{filename: name, err: err}
		}
		defer f.Close()

		reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		resp, err := client.Upload(reqCtx, logType, name, f)
		return uploadMsg{filename: name, resp: resp, err: err}
	}
}

func discardCmd(ctx context.Context, client api.Service, logType string) tea.Cmd {
	return func() tea.Msg {
		if client == nil {
			return discardMsg{logType: logType, err: api.ErrNilClient}
		}
		reqCtx, cancel := context.WithTimeout(ctx, RequestTimeout)
		defer cancel()
		return discardMsg{logType: logType, err: client.DeleteUpload(reqCtx, logType)}
	}
}

func expandHome(path string) string {
	path = strings.TrimSpace(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func analysisSummary(resp api.AnalysisResponse) string {
	s := fmt.Sprintf("Analyzed %d of %d lines, %d matched", resp.AnalyzedLines, resp.TotalLines, resp.MatchedLines())
	if n := len(resp.Invalid); n > 0 {
		s += fmt.Sprintf(" (%d invalid %s skipped)", n, plural(n, "pattern", "patterns"))
	}
	return s
}

func patternsSummary(n int, logType string) string {
	return fmt.Sprintf("Loaded %d %s for %s", n, plural(n, "pattern", "patterns"), logType)
}

func uploadSummary(msg uploadMsg) string {
	return fmt.Sprintf("Uploaded %s: %d lines", msg.filename, msg.resp.Lines)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
