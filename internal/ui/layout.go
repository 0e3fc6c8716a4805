package ui

import "time"

// Pattern pane width bounds.
const (
	PatternPaneMin = 28
	PatternPaneMax = 48
)

// Line limit bounds and step for +/-.
const (
	LineLimitStep = 50
	LineLimitMax  = 10000
)

// Timing constants.
const (
	// RequestTimeout bounds pattern loads and uploads.
	RequestTimeout = 5 * time.Second

	// AnalyzeTimeout bounds one analysis round trip.
	AnalyzeTimeout = 30 * time.Second

	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second
)
