// Package services holds the operations the CLI drives: the session
// (login, logout, restore) and the user mutations (create, edit, delete)
// together with remote detail lookup.
//
// Errors are the sentinels of internal/common, matched with errors.Is:
// ErrValidation (*common.ValidationError carries the field), ErrInvalidCredentials,
// ErrNotFound, ErrUnavailable, ErrCancelled.
package services
