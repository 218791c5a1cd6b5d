package config

import "errors"

// PlanFormat represents the supported dry-run output formats
type PlanFormat string

const (
	// PlanFormatList prints one path per line
	PlanFormatList PlanFormat = "list"

	// PlanFormatTree prints the selection as a directory tree
	PlanFormatTree PlanFormat = "tree"

	// PlanFormatJSON prints the selection as JSON
	PlanFormatJSON PlanFormat = "json"

	// PlanFormatYAML prints the selection as YAML
	PlanFormatYAML PlanFormat = "yaml"
)

// ProgressStyle selects how combine progress is drawn
type ProgressStyle string

const (
	// ProgressStyleBar draws a bar with a percentage and counts
	ProgressStyleBar ProgressStyle = "bar"

	// ProgressStyleSimple prints a one-line counter
	ProgressStyleSimple ProgressStyle = "simple"
)

// Defaults
const (
	// DefaultOutput is the combined artifact written when no output path is given
	DefaultOutput = "combined.txt"

	// DefaultDir is searched when no directories are given
	DefaultDir = "."

	// EnvPrefix prefixes every environment variable read by Load
	EnvPrefix = "FILE_COMBINER"
)

// ErrNoSelectionMode is returned by Validate when neither a pattern nor
// interactive mode was requested. It is a usage problem, not a failure.
var ErrNoSelectionMode = errors.New("you must specify either --regex or --interactive")
