package service

import (
	"fmt"

	"github.com/jbweber/homelab/items/internal/repository"
)

// ValidationError reports an item that breaks a business rule.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError reports that no item is stored under ID.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item not found with id: %d", e.ID)
}

// Unwrap lets callers match with errors.Is(err, repository.ErrNotFound).
func (e *NotFoundError) Unwrap() error {
	return repository.ErrNotFound
}
