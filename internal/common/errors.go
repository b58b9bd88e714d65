// Package common defines sentinel errors and small helpers shared by the
// userdir client packages. Callers should match errors with errors.Is and
// errors.As.
package common

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Input rejected by a form rule.
	ErrValidation = errors.New("validation error")

	// Credential mismatch or rejected external login.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Remote service or blob storage could not be reached or failed.
	ErrUnavailable = errors.New("service unavailable")

	// Durable snapshot could not be decoded.
	ErrPersistenceDecode = errors.New("malformed snapshot")

	// Destructive operation declined by the operator.
	ErrCancelled = errors.New("cancelled")
)

// ValidationError reports the first form rule that failed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid is a shorthand for building a *ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
