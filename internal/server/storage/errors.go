package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateEmail indicates that a user with this email is already registered.
	// Recovered from the store's unique-constraint violation so callers can
	// distinguish it from connectivity failures.
	ErrDuplicateEmail = errors.New("email already registered")
)
