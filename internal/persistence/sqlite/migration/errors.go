package migration

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateVersion is returned when two registered migrations share a version.
	ErrDuplicateVersion = errors.New("migration: duplicate version")
	// ErrOutOfOrder is returned when registered versions are not strictly increasing.
	ErrOutOfOrder = errors.New("migration: versions must be strictly increasing")
)

// ApplyError wraps a failure while applying a specific migration.
type ApplyError struct {
	Version int
	Err     error
}

// Error implements the error interface.
func (e *ApplyError) Error() string {
	return fmt.Sprintf("migration: applying version %d: %v", e.Version, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *ApplyError) Unwrap() error {
	return e.Err
}
