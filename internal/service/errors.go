package service

import "errors"

// ErrStorageNotReady is returned while the schema is not initialized or
// initialization has failed.
var ErrStorageNotReady = errors.New("storage not ready")

// ErrNotFound is returned when an operation targets a message id that
// does not exist.
var ErrNotFound = errors.New("message not found")

// ValidationError marks a request rejected before any storage access.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return e.Field + " must not be empty"
}
