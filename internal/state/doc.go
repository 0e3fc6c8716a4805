// Package state holds the data shared between the background poller, the
// analysis commands, and the terminal UI.
//
// A Store keeps one Snapshot behind a sync.RWMutex. Writers replace parts of
// it; readers get a copy:
//
//	poller ──UpdateHealth──┐
//	                       ├──> Store ──Snapshot()──> UI
//	analyze ─UpdateAnalysis┘
//
// # Update Semantics
//
// Failures never clear data. A failed health poll keeps the last health and
// log types, records LastError, and increments ConsecutiveFailures; two in a
// row mark the snapshot offline. A failed analysis keeps the previous results
// and records AnalysisError, so the user never sees a half-applied result.
// The next success clears the error.
//
// Snapshot copies the slices and wraps stored errors so callers can hold on to
// the value without racing later updates.
package state
