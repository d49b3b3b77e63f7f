package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jbweber/homelab/items/internal/domain"
)

// ItemRepository is the storage gateway for items.
type ItemRepository interface {
	Repository[domain.Item, int64]
}

const (
	itemInsertSQL = "INSERT INTO item (name, description) VALUES (?, ?)"
	itemUpdateSQL = "UPDATE item SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	itemSelectSQL = "SELECT id, name, description FROM item WHERE id = ?"
	itemListSQL   = "SELECT id, name, description FROM item ORDER BY id ASC"
	itemDeleteSQL = "DELETE FROM item WHERE id = ?"
	itemExistsSQL = "SELECT COUNT(*) FROM item WHERE id = ?"
)

// SQLItemRepository implements ItemRepository on database/sql. Queries use
// SQLite placeholder syntax.
type SQLItemRepository struct {
	db    *sql.DB
	stmts *stmtCache
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sql.DB) *SQLItemRepository {
	return &SQLItemRepository{
		db:    db,
		stmts: newStmtCache(db),
	}
}

// Close releases the prepared statements held by the repository. The
// underlying *sql.DB is left open.
func (r *SQLItemRepository) Close() error {
	return r.stmts.close()
}

// Save inserts a new item or overwrites the stored name and description of an existing one
func (r *SQLItemRepository) Save(ctx context.Context, entity domain.Item) (domain.Item, error) {
	if entity.ID < 0 {
		return domain.Item{}, fmt.Errorf("item ID %d: %w", entity.ID, ErrInvalidEntity)
	}
	if entity.IsNew() {
		return r.insert(ctx, entity)
	}
	return r.update(ctx, entity)
}

func (r *SQLItemRepository) insert(ctx context.Context, entity domain.Item) (domain.Item, error) {
	stmt, err := r.stmts.get(ctx, itemInsertSQL)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to prepare item insert: %w", err)
	}

	res, err := stmt.ExecContext(ctx, entity.Name, nullableString(entity.Description))
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return entity.WithID(id), nil
}

func (r *SQLItemRepository) update(ctx context.Context, entity domain.Item) (domain.Item, error) {
	stmt, err := r.stmts.get(ctx, itemUpdateSQL)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to prepare item update: %w", err)
	}

	res, err := stmt.ExecContext(ctx, entity.Name, nullableString(entity.Description), entity.ID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to update item %d: %w", entity.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return domain.Item{}, fmt.Errorf("item with ID %d: %w", entity.ID, ErrNotFound)
	}

	return entity, nil
}

// FindByID retrieves an item by its ID
func (r *SQLItemRepository) FindByID(ctx context.Context, id int64) (domain.Item, error) {
	stmt, err := r.stmts.get(ctx, itemSelectSQL)
	if err != nil {
		return domain.Item{}, fmt.Errorf("failed to prepare item lookup: %w", err)
	}

	item, err := scanItem(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Item{}, fmt.Errorf("item with ID %d: %w", id, ErrNotFound)
		}
		return domain.Item{}, fmt.Errorf("failed to find item: %w", err)
	}
	return item, nil
}

// FindAll retrieves all items
func (r *SQLItemRepository) FindAll(ctx context.Context) ([]domain.Item, error) {
	stmt, err := r.stmts.get(ctx, itemListSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare item list: %w", err)
	}

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	return items, nil
}

// DeleteByID deletes an item by its ID
func (r *SQLItemRepository) DeleteByID(ctx context.Context, id int64) error {
	stmt, err := r.stmts.get(ctx, itemDeleteSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare item delete: %w", err)
	}

	if _, err := stmt.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// ExistsByID checks if an item exists by its ID
func (r *SQLItemRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	stmt, err := r.stmts.get(ctx, itemExistsSQL)
	if err != nil {
		return false, fmt.Errorf("failed to prepare item exists: %w", err)
	}

	var count int
	if err := stmt.QueryRowContext(ctx, id).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check item existence: %w", err)
	}
	return count > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.Item, error) {
	var (
		item        domain.Item
		description sql.NullString
	)
	if err := row.Scan(&item.ID, &item.Name, &description); err != nil {
		return domain.Item{}, err
	}
	item.Description = description.String
	return item, nil
}

// nullableString stores empty descriptions as NULL.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
