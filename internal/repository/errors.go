package repository

import "errors"

// Common repository errors that can be checked with errors.Is()
var (
	// ErrNotFound is returned when an entity is not found
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidEntity is returned when an entity cannot be stored as given
	ErrInvalidEntity = errors.New("invalid entity")
)
