package repository

import "context"

// Repository defines the basic CRUD operations for any entity type.
// Absence is reported as ErrNotFound rather than a nil value.
type Repository[T any, ID comparable] interface {
	// Save inserts an entity with a zero ID and updates one that already has an ID.
	// The returned entity carries the stored ID.
	Save(ctx context.Context, entity T) (T, error)

	// FindByID retrieves an entity by its ID
	// Returns ErrNotFound if the entity doesn't exist
	FindByID(ctx context.Context, id ID) (T, error)

	// FindAll retrieves all entities ordered by ID
	FindAll(ctx context.Context) ([]T, error)

	// DeleteByID deletes an entity by its ID. Deleting a missing ID is not an error.
	DeleteByID(ctx context.Context, id ID) error

	// ExistsByID checks if an entity exists by its ID
	ExistsByID(ctx context.Context, id ID) (bool, error)
}
