// Package todo holds the record lifecycle core: draft validation, the
// store contract, the view projector, and the local state reconciler.
package todo

import (
	"errors"
	"fmt"
)

// ValidationError is raised client-side, before any store call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// StoreError is the single error variant for remote rejection, not-found,
// and transport failure. Callers branch on NotFound at most; provider
// specific codes never escape this package boundary.
type StoreError struct {
	Op       string
	Message  string
	NotFound bool
	Err      error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store %s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("store %s: %s", e.Op, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps a remote failure in the closed StoreError variant.
func NewStoreError(op, message string, err error) *StoreError {
	return &StoreError{Op: op, Message: message, Err: err}
}

// NewNotFoundError reports a store operation that affected zero rows.
func NewNotFoundError(op string) *StoreError {
	return &StoreError{Op: op, Message: "todo not found", NotFound: true}
}

// IsNotFound reports whether err is a StoreError for a missing record.
func IsNotFound(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.NotFound
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
