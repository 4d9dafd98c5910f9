package application

import (
	"errors"
	"fmt"

	"github.com/Hazem7575/alamiya-sub000/internal/scheduler"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a uniqueness rule rejects a write.
	ErrAlreadyExists = errors.New("application: already exists")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// ConflictError rejects an event mutation because one of its resources failed
// scheduling validation. The verdict carries the rule that fired and its
// supporting details.
type ConflictError struct {
	ResourceKind scheduler.ResourceKind
	ResourceCode string
	Verdict      scheduler.Verdict
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("scheduling conflict for %s %q: %s", e.ResourceKind, e.ResourceCode, e.Verdict.Message)
}
