package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Log display limits.
const (
	// LogBufferLimit is the maximum number of log lines read from the tail.
	LogBufferLimit = 2000
)

// Timing constants.
const (
	// LogRefreshInterval is how often the log view re-reads the file while following.
	LogRefreshInterval = 2 * time.Second

	// AlertDisplayTime is how long an alert banner stays up before fading.
	AlertDisplayTime = 8 * time.Second
)
