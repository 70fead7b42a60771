package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRemovalNotArmed is returned when a clear-all is requested without
// first arming the removal gate
var ErrRemovalNotArmed = errors.New("removal not armed")

// ErrAddDisabled is returned when an add operation is invoked while
// disabled by configuration
var ErrAddDisabled = errors.New("adding references is disabled")

// ErrEditorClosed is returned by operations on a closed editor
var ErrEditorClosed = errors.New("editor is closed")

// QueryError wraps a failure while querying the host store for search
// results. It is recoverable: the session stays alive and the next
// keystroke retries.
type QueryError struct {
	Query        string
	WrappedError error
}

// Error implements the error interface
func (e *QueryError) Error() string {
	return fmt.Sprintf("search for %q failed: %v", e.Query, e.WrappedError)
}

// Unwrap allows error unwrapping
func (e *QueryError) Unwrap() error {
	return e.WrappedError
}

// ResolutionError wraps a failure to dereference document IDs. Callers
// treat the dependent feature (sorting) as unavailable for the attempt
// rather than failing the session.
type ResolutionError struct {
	IDs          []string
	WrappedError error
}

// Error implements the error interface
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", strings.Join(e.IDs, ", "), e.WrappedError)
}

// Unwrap allows error unwrapping
func (e *ResolutionError) Unwrap() error {
	return e.WrappedError
}

// InvariantError reports an operation that would introduce a duplicate
// reference. The editing operations prevent duplicates up front, so
// this surfaces only from validating externally supplied data.
type InvariantError struct {
	ID string
}

// Error implements the error interface
func (e *InvariantError) Error() string {
	return fmt.Sprintf("duplicate reference to %q", e.ID)
}
