// Package filter keeps the file paths matching a regular expression.
//
// The expression is searched anywhere in the full path string, not only the
// base name, so `^src/` and `\.go$` both work as expected against paths like
// "src/main.go".
package filter

import (
	"fmt"
	"regexp"

	"github.com/samber/lo"
)

// PatternError reports a pattern that is not a valid regular expression
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid regex pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Filter matches file paths against a compiled pattern. A nil *Filter
// matches everything.
type Filter struct {
	re *regexp.Regexp
}

// Compile validates pattern. An empty pattern returns a nil Filter.
func Compile(pattern string) (*Filter, error) {
	if pattern == "" {
		return nil, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return &Filter{re: re}, nil
}

// Match reports whether the pattern occurs anywhere in path
func (f *Filter) Match(path string) bool {
	if f == nil {
		return true
	}
	return f.re.MatchString(path)
}

// Apply returns the paths that match, preserving their order
func (f *Filter) Apply(files []string) []string {
	if f == nil {
		return files
	}
	return lo.Filter(files, func(path string, _ int) bool {
		return f.re.MatchString(path)
	})
}

// String returns the source pattern
func (f *Filter) String() string {
	if f == nil {
		return ""
	}
	return f.re.String()
}
