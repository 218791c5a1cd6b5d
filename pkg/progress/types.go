package progress

import (
	"io"
	"time"
)

// Style represents the type of progress visualization
type Style string

const (
	// StyleBar shows a progress bar with percentage
	StyleBar Style = "bar"

	// StyleSimple shows a counter and the current file
	StyleSimple Style = "simple"
)

// Config holds the configuration for progress visualization
type Config struct {
	// Style defines how progress should be displayed
	Style Style

	// Width is the maximum line width (0 = auto-detect)
	Width int

	// ShowStats appends bytes and rate to the line
	ShowStats bool

	// NoColor disables colored output
	NoColor bool

	// RefreshRate is the minimum time between two renders of Update
	RefreshRate time.Duration

	// HideAfterComplete removes the line after completion
	HideAfterComplete bool

	// Output receives the progress line. Defaults to os.Stderr
	Output io.Writer
}

// Status represents the current progress state
type Status struct {
	// Current progress value
	Current int64

	// Total expected value
	Total int64

	// Currently processing item
	CurrentItem string

	// Bytes processed
	BytesRead int64
}

// Statistics provides derived progress information
type Statistics struct {
	StartTime          time.Time
	ElapsedTime        time.Duration
	RemainingTime      time.Duration
	ProgressPercentage float64
	BytesProcessed     int64
	ItemsPerSecond     float64
}

// Progress reports how far a sequential job has come.
// Every call renders on the caller's goroutine.
type Progress interface {
	// Start begins progress visualization with initial message
	Start(message string)

	// Update records the progress status
	Update(status Status)

	// Complete marks the operation as successfully completed
	Complete(message string)

	// Error marks the operation as failed
	Error(message string)

	// Stop clears the progress line
	Stop()
}
