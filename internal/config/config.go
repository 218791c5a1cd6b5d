package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every setting of a single run. It is built once by Load and
// never mutated afterwards.
type Config struct {
	// Regex selects files whose path matches (empty for no pattern)
	Regex string

	// Interactive asks the user to pick files before combining
	Interactive bool

	// Output is the path of the combined artifact
	Output string

	// Dirs are the root directories to search, in order
	Dirs []string

	// FollowSymlinks resolves symbolic links during enumeration
	FollowSymlinks bool

	// RateLimit caps file reads per second while combining (0 for unlimited)
	RateLimit int

	// DryRun prints the selection instead of writing the artifact
	DryRun bool

	// Format is the dry-run output format (list, tree, json or yaml)
	Format string

	// NoProgress disables progress reporting
	NoProgress bool

	// ProgressStyle is how progress is drawn (bar or simple)
	ProgressStyle string

	// NoColor disables colored output
	NoColor bool

	// Verbose sets the verbosity level
	Verbose int
}

// LoadOptions tells Load where to look besides the environment.
type LoadOptions struct {
	// ConfigFile is an optional yaml/json/toml file
	ConfigFile string

	// Flags, when set, override everything else for flags the user changed
	Flags *pflag.FlagSet
}

var validPlanFormats = map[string]bool{
	string(PlanFormatList): true,
	string(PlanFormatTree): true,
	string(PlanFormatJSON): true,
	string(PlanFormatYAML): true,
}

var validProgressStyles = map[string]bool{
	"":                          true,
	string(ProgressStyleBar):    true,
	string(ProgressStyleSimple): true,
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"regex":           "regex",
	"interactive":     "interactive",
	"output":          "output",
	"dirs":            "dirs",
	"follow-symlinks": "follow_symlinks",
	"rate-limit":      "rate_limit",
	"dry-run":         "dry_run",
	"format":          "format",
	"no-progress":     "no_progress",
	"progress-style":  "progress_style",
	"no-color":        "no_color",
	"verbose":         "verbose",
}

// Load builds the configuration with precedence flag > env > config file > default.
// It does not call Validate; callers decide how to present a usage error.
func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	v.SetDefault("regex", "")
	v.SetDefault("interactive", false)
	v.SetDefault("output", DefaultOutput)
	v.SetDefault("dirs", "")
	v.SetDefault("follow_symlinks", false)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("dry_run", false)
	v.SetDefault("format", string(PlanFormatList))
	v.SetDefault("no_progress", false)
	v.SetDefault("progress_style", string(ProgressStyleBar))
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", 0)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	for _, key := range flagKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return Config{}, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	cfg := Config{
		Regex:          v.GetString("regex"),
		Interactive:    v.GetBool("interactive"),
		Output:         v.GetString("output"),
		Dirs:           ParseDirs(dirsValue(v.Get("dirs"))),
		FollowSymlinks: v.GetBool("follow_symlinks"),
		RateLimit:      v.GetInt("rate_limit"),
		DryRun:         v.GetBool("dry_run"),
		Format:         strings.ToLower(v.GetString("format")),
		NoProgress:     v.GetBool("no_progress"),
		ProgressStyle:  strings.ToLower(v.GetString("progress_style")),
		NoColor:        v.GetBool("no_color"),
		Verbose:        parseVerbosity(v.GetString("verbose")),
	}

	return cfg, nil
}

// ParseDirs splits a comma separated directory list. Entries are trimmed and
// empty entries dropped; an empty list means the current directory.
func ParseDirs(s string) []string {
	parts := strings.Split(s, ",")
	dirs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			dirs = append(dirs, trimmed)
		}
	}
	if len(dirs) == 0 {
		return []string{DefaultDir}
	}
	return dirs
}

// dirsValue flattens the dirs setting, which a config file may give as a
// list instead of a comma separated string.
func dirsValue(raw interface{}) string {
	switch t := raw.(type) {
	case nil:
		return ""
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case []interface{}:
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

// parseVerbosity accepts either a number ("2") or a string of v's ("vv").
func parseVerbosity(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n := strings.Count(strings.ToLower(s), "v"); n > 0 && n == len(s) {
		return n
	}
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil || n < 0 {
		return 0
	}
	return n
}

// HasPattern reports whether a regular expression was given
func (c Config) HasPattern() bool {
	return c.Regex != ""
}

// Validate checks the configuration. ErrNoSelectionMode is returned as is so
// callers can tell it apart from real errors.
func (c Config) Validate() error {
	if !c.Interactive && !c.HasPattern() {
		return ErrNoSelectionMode
	}

	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("output path must not be empty")
	}

	if len(c.Dirs) == 0 {
		return fmt.Errorf("at least one directory is required")
	}

	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must be non-negative")
	}

	if !validPlanFormats[c.Format] {
		return fmt.Errorf("invalid format: must be one of [list tree json yaml]")
	}

	if !validProgressStyles[c.ProgressStyle] {
		return fmt.Errorf("invalid progress style: must be one of [bar simple]")
	}

	return nil
}

// String returns a string representation of the configuration
func (c Config) String() string {
	return fmt.Sprintf(
		"Config{Regex: %q, Interactive: %v, Output: %s, Dirs: %v, "+
			"FollowSymlinks: %v, RateLimit: %d, DryRun: %v, Format: %s, "+
			"NoProgress: %v, ProgressStyle: %s, NoColor: %v, Verbose: %d}",
		c.Regex, c.Interactive, c.Output, c.Dirs,
		c.FollowSymlinks, c.RateLimit, c.DryRun, c.Format,
		c.NoProgress, c.ProgressStyle, c.NoColor, c.Verbose,
	)
}
