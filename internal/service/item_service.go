// Package service holds the business rules for items. It sits between the
// HTTP layer and the storage gateway and is the only place that decides
// whether an item may be stored.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jbweber/homelab/items/internal/domain"
	"github.com/jbweber/homelab/items/internal/repository"
)

// ItemService enforces item rules on top of a repository.
type ItemService struct {
	repo   repository.ItemRepository
	valid  *validator.Validate
	logger zerolog.Logger
}

// NewItemService wires the service to a storage gateway.
func NewItemService(repo repository.ItemRepository, logger zerolog.Logger) *ItemService {
	return &ItemService{
		repo:   repo,
		valid:  validator.New(validator.WithRequiredStructEnabled()),
		logger: logger.With().Str("component", "item_service").Logger(),
	}
}

// Create validates and stores a new item. Invalid items never reach the repository.
func (s *ItemService) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	if err := s.validate(ctx, item); err != nil {
		return domain.Item{}, err
	}

	// storage assigns the id
	item.ID = 0
	created, err := s.repo.Save(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}

	s.logger.Debug().Int64("id", created.ID).Msg("item created")
	return created, nil
}

// FindByID returns the stored item or a *NotFoundError.
func (s *ItemService) FindByID(ctx context.Context, id int64) (domain.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Item{}, &NotFoundError{ID: id}
		}
		return domain.Item{}, fmt.Errorf("find item %d: %w", id, err)
	}
	return item, nil
}

// FindAll returns every stored item ordered by id.
func (s *ItemService) FindAll(ctx context.Context) ([]domain.Item, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Update re-reads the stored item for changes.ID, copies name and description
// from changes onto it and saves the result. Fields are copied as given, so
// callers merge partial input before calling Update.
//
// There is no version check: two concurrent updates of the same id both read
// the same prior state and the later save wins.
func (s *ItemService) Update(ctx context.Context, changes domain.Item) (domain.Item, error) {
	existing, err := s.FindByID(ctx, changes.ID)
	if err != nil {
		return domain.Item{}, err
	}

	existing.Name = changes.Name
	existing.Description = changes.Description

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// deleted between the read and the write
			return domain.Item{}, &NotFoundError{ID: changes.ID}
		}
		return domain.Item{}, fmt.Errorf("update item %d: %w", changes.ID, err)
	}

	s.logger.Debug().Int64("id", updated.ID).Msg("item updated")
	return updated, nil
}

// Delete removes the item with id. A missing item is reported as *NotFoundError
// and nothing is deleted.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}

	s.logger.Debug().Int64("id", id).Msg("item deleted")
	return nil
}

func (s *ItemService) validate(ctx context.Context, item domain.Item) error {
	err := s.valid.StructCtx(ctx, item)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: jsonFieldName(fe), Message: ruleMessage(fe)}
	}
	return fmt.Errorf("validate item: %w", err)
}

func jsonFieldName(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		return "name"
	case "Description":
		return "description"
	default:
		return fe.Field()
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	default:
		return fmt.Sprintf("failed rule %q", fe.Tag())
	}
}
