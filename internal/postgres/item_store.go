package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jbweber/homelab/items/internal/domain"
	"github.com/jbweber/homelab/items/internal/repository"
)

// ItemStore implements repository.ItemRepository on PostgreSQL.
type ItemStore struct {
	db DBTX
}

var _ repository.ItemRepository = (*ItemStore)(nil)

// NewItemStore returns a store that runs on db, or on the DBTX carried by ctx.
func NewItemStore(db DBTX) *ItemStore {
	return &ItemStore{db: db}
}

// conn prefers a transaction attached with WithDBTX.
func (s *ItemStore) conn(ctx context.Context) DBTX {
	return DBFromContext(ctx, s.db)
}

// Save inserts a new item or updates an existing one.
func (s *ItemStore) Save(ctx context.Context, item domain.Item) (domain.Item, error) {
	if item.ID < 0 {
		return domain.Item{}, fmt.Errorf("item ID %d: %w", item.ID, repository.ErrInvalidEntity)
	}

	if item.IsNew() {
		var id int64
		err := s.conn(ctx).QueryRow(ctx, `
			insert into item (name, description)
			values ($1, nullif($2, ''))
			returning id
		`, item.Name, item.Description).Scan(&id)
		if err != nil {
			return domain.Item{}, fmt.Errorf("create item: %w", err)
		}
		return item.WithID(id), nil
	}

	tag, err := s.conn(ctx).Exec(ctx, `
		update item
		set name = $1, description = nullif($2, ''), updated_at = now()
		where id = $3
	`, item.Name, item.Description, item.ID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("update item %d: %w", item.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Item{}, fmt.Errorf("item with ID %d: %w", item.ID, repository.ErrNotFound)
	}
	return item, nil
}

// FindByID retrieves an item by its ID.
func (s *ItemStore) FindByID(ctx context.Context, id int64) (domain.Item, error) {
	var item domain.Item
	var description *string
	err := s.conn(ctx).QueryRow(ctx, `
		select id, name, description
		from item
		where id = $1
	`, id).Scan(&item.ID, &item.Name, &description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, fmt.Errorf("item with ID %d: %w", id, repository.ErrNotFound)
		}
		return domain.Item{}, fmt.Errorf("find item: %w", err)
	}
	if description != nil {
		item.Description = *description
	}
	return item, nil
}

// FindAll retrieves all items ordered by ID.
func (s *ItemStore) FindAll(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.conn(ctx).Query(ctx, `
		select id, name, coalesce(description, '')
		from item
		order by id asc
	`)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		var item domain.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Description); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// DeleteByID removes an item by its ID. Deleting a missing item is not an error.
func (s *ItemStore) DeleteByID(ctx context.Context, id int64) error {
	if _, err := s.conn(ctx).Exec(ctx, `delete from item where id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ExistsByID checks if an item exists by its ID.
func (s *ItemStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.conn(ctx).QueryRow(ctx, `select exists(select 1 from item where id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check item existence: %w", err)
	}
	return exists, nil
}
