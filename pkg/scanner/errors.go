package scanner

import "fmt"

// RootError describes a search root that could not be used. It is reported
// as a warning; the remaining roots are still enumerated.
type RootError struct {
	Path   string
	Reason string
	Err    error
}

func (e *RootError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Path)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

const (
	reasonNotFound     = "directory not found"
	reasonNotDirectory = "not a directory"
	reasonUnreadable   = "cannot access directory"
)
