// Package config provides configuration management for file-combiner.
// It merges command-line flags, environment variables and an optional
// config file into one immutable Config record.
//
// # Configuration Loading
//
//	cfg, err := config.Load(config.LoadOptions{Flags: cmd.Flags()})
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); errors.Is(err, config.ErrNoSelectionMode) {
//	    // print usage guidance and exit successfully
//	}
//
// # Precedence
//
// A flag the user passed wins over the environment, which wins over the
// config file, which wins over the built-in defaults.
//
// # Environment Variables
//
//	FILE_COMBINER_REGEX            Regular expression matched against file paths
//	FILE_COMBINER_INTERACTIVE      Pick files interactively (true/false)
//	FILE_COMBINER_OUTPUT           Output file path (default: combined.txt)
//	FILE_COMBINER_DIRS             Comma-separated directories to search (default: .)
//	FILE_COMBINER_FOLLOW_SYMLINKS  Follow symbolic links (true/false)
//	FILE_COMBINER_RATE_LIMIT       Maximum files read per second (0 for unlimited)
//	FILE_COMBINER_DRY_RUN          Print the selection instead of writing it
//	FILE_COMBINER_FORMAT           Dry-run format: list|tree|json|yaml
//	FILE_COMBINER_NO_PROGRESS      Disable progress reporting
//	FILE_COMBINER_PROGRESS_STYLE   Progress display: bar|simple (default: bar)
//	FILE_COMBINER_NO_COLOR         Disable colored output
//	FILE_COMBINER_VERBOSE          Verbosity level (a number or a string of 'v's)
//
// # Config File
//
// Any format viper understands, selected by extension:
//
//	regex: '\.go$'
//	dirs: cmd, internal, pkg
//	output: go-sources.txt
//
// # Validation
//
//   - either a regex or interactive mode is required (ErrNoSelectionMode)
//   - the output path must not be empty
//   - RateLimit must be non-negative
//   - Format must be one of: list, tree, json, yaml
//   - ProgressStyle must be bar or simple
//
// The regular expression itself is compiled by the filter package so that
// its syntax error reaches the user unchanged.
package config
