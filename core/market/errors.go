package market

import "errors"

var (
	// ErrInvalidInput is returned for malformed numeric or text fields. The
	// caller re-prompts the user; no state changes.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a listing, category or trade does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when a non-admin attempts an admin-only action.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict is returned on duplicate category names.
	ErrConflict = errors.New("already exists")
)
