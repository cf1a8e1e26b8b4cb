package ops

import (
	"errors"
	"fmt"
)

// ErrEmpty is wrapped by every ValidationError raised for a blank title
// or value, so callers can test with errors.Is.
var ErrEmpty = errors.New("must not be empty")

// ValidationError indicates input was rejected before touching storage.
type ValidationError struct {
	Field string // "title", "value", or "title and value"
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StorageError wraps a failure reported by the backend.
type StorageError struct {
	Op  string // "get" or "set"
	Key string // record key
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
