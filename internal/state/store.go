package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/five82/logstory/internal/api"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Health              api.HealthResponse
	HasHealth           bool
	LogTypes            []string
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures

	Analysis      api.AnalysisResponse
	HasAnalysis   bool
	AnalyzedAt    time.Time
	AnalysisError error
}

// IsOffline returns true when the server has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// UpdateHealth records a poll result. When err is non-nil the previous data
// is kept but the error is recorded for visibility.
func (s *Store) UpdateHealth(health *api.HealthResponse, logTypes []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}

	if health != nil {
		s.snapshot.Health = *health
		s.snapshot.HasHealth = true
	} else {
		s.snapshot.HasHealth = false
	}
	s.snapshot.LogTypes = cloneStrings(logTypes)
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// UpdateAnalysis records the outcome of an analysis. A failed analysis keeps
// the previous results and only records the error.
func (s *Store) UpdateAnalysis(resp *api.AnalysisResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.AnalysisError = err
		return
	}
	if resp == nil {
		return
	}
	s.snapshot.Analysis = cloneAnalysis(*resp)
	s.snapshot.HasAnalysis = true
	s.snapshot.AnalyzedAt = time.Now()
	s.snapshot.AnalysisError = nil
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.LogTypes = cloneStrings(s.snapshot.LogTypes)
	snap.Analysis = cloneAnalysis(s.snapshot.Analysis)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	if s.snapshot.AnalysisError != nil {
		snap.AnalysisError = fmt.Errorf("%w", s.snapshot.AnalysisError)
	}
	return snap
}

func cloneStrings(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	dup := make([]string, len(items))
	copy(dup, items)
	return dup
}

// cloneAnalysis copies the slices a caller might mutate. Match data below
// the line level is shared; nothing in the UI writes to it.
func cloneAnalysis(resp api.AnalysisResponse) api.AnalysisResponse {
	out := resp
	if resp.Results != nil {
		out.Results = make([]api.LineResult, len(resp.Results))
		copy(out.Results, resp.Results)
	}
	if resp.Legend != nil {
		out.Legend = make([]api.LegendEntry, len(resp.Legend))
		copy(out.Legend, resp.Legend)
	}
	if resp.Invalid != nil {
		out.Invalid = make([]api.InvalidPattern, len(resp.Invalid))
		copy(out.Invalid, resp.Invalid)
	}
	return out
}
