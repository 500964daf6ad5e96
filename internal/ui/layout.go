package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops details.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold above which the tree pane narrows to 30%.
	LayoutExtraWideWidth = 160
)

// Chrome rows: header, command bar and status line.
const chromeHeight = 3

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines read from the tail.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// RemoteTimeout bounds every SQS or STS call made from the UI.
	RemoteTimeout = 15 * time.Second

	// StatusTTL is how long a status message stays before it fades.
	StatusTTL = 8 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
