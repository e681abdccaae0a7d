package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a custom id or numeric id is not mapped.
	ErrNotFound = errors.New("registry: identifier not found")
	// ErrMalformedLine marks a persisted line that could not be parsed. Loading
	// recovers from it locally; it only surfaces through logs and metrics.
	ErrMalformedLine = errors.New("registry: malformed line")
	// ErrInvalidCustomID rejects custom ids that cannot round-trip through the
	// key=value file format.
	ErrInvalidCustomID = errors.New("registry: invalid custom id")
	// ErrClosed is returned by Watch after Close.
	ErrClosed = errors.New("registry: closed")
)

// NotFoundError carries the identifier that failed to resolve.
type NotFoundError struct {
	CustomID  string
	NumericID int32
	ByNumeric bool
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.ByNumeric {
		return fmt.Sprintf("registry: no custom id mapped to numeric id %d", e.NumericID)
	}
	return fmt.Sprintf("registry: custom id %q is not mapped", e.CustomID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// MalformedLineError describes one skipped line of the registry file.
type MalformedLineError struct {
	Path   string
	Line   int
	Text   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("registry: %s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Text)
}

func (e *MalformedLineError) Unwrap() error {
	return ErrMalformedLine
}
