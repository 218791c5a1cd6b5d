package scanner

import "time"

// Config contains scanner configuration options
type Config struct {
	// FollowSymlinks resolves symbolic links. When false a link is neither a
	// file nor a directory and is left out of the result.
	FollowSymlinks bool
}

// Result contains the outcome of an enumeration
type Result struct {
	// Files lists every regular file found, in root order then walk order
	Files []string

	// Warnings lists the roots that were skipped
	Warnings []RootError

	// Stats holds counters about the walk
	Stats ScanStats
}

// ScanStats contains statistics about the enumeration
type ScanStats struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalFiles     int64
	TotalDirs      int64
	TotalSize      int64
	SkippedEntries int64
	SkippedRoots   int
	SymlinkCycles  int64
}
