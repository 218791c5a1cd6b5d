package combiner

import (
	"errors"
	"fmt"
)

// CreateError reports that the output file could not be created or truncated
type CreateError struct {
	Path string
	Err  error
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("failed to create output file %s: %v", e.Path, e.Err)
}

func (e *CreateError) Unwrap() error { return e.Err }

// ReadError reports a selected file that could not be read as text.
// Output written before it stays in place.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError reports a failed write to the output file
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write output file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// errInvalidUTF8 marks content that is not text
var errInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
