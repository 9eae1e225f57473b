package store

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when a required data file is missing,
// usually because `invo init` has not been run.
var ErrNotInitialized = errors.New("data directory not initialized")

// PersistenceError wraps a ledger/cache/record read or write failure with
// the operation and path that failed.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store: %s failed for %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *PersistenceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func persistErr(op, path string, err error) error {
	return &PersistenceError{Op: op, Path: path, Err: err}
}
