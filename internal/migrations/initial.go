package migrations

import (
	"context"
	"database/sql"
)

// ItemMigrations returns the schema history of the item table.
func ItemMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_item_table",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `
					CREATE TABLE IF NOT EXISTS item (
						id INTEGER PRIMARY KEY AUTOINCREMENT,
						name TEXT NOT NULL,
						description TEXT,
						created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
						updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
					)
				`)
				return err
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS item`)
				return err
			},
		},
		{
			Version: 2,
			Name:    "add_item_name_index",
			Up: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_item_name ON item(name)`)
				return err
			},
			Down: func(ctx context.Context, tx *sql.Tx) error {
				_, err := tx.ExecContext(ctx, `DROP INDEX IF EXISTS idx_item_name`)
				return err
			},
		},
	}
}
