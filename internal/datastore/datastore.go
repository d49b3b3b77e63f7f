package datastore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jbweber/homelab/items/internal/migrations"
	_ "modernc.org/sqlite"
)

// Datastore is an open SQLite database.
type Datastore struct {
	DB *sql.DB
}

// New opens the SQLite database at dsn and applies all pending migrations.
func New(ctx context.Context, dsn string) (*Datastore, error) {
	ds, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := ds.Migrate(ctx); err != nil {
		ds.Close()
		return nil, err
	}

	return ds, nil
}

// Open opens the SQLite database at dsn and enables foreign keys. The schema
// is left as found.
func Open(ctx context.Context, dsn string) (*Datastore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &Datastore{DB: db}, nil
}

// Migrate applies all pending migrations.
func (ds *Datastore) Migrate(ctx context.Context) error {
	if err := migrations.Default(ds.DB).RunMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Ping reports whether the database is reachable.
func (ds *Datastore) Ping(ctx context.Context) error {
	return ds.DB.PingContext(ctx)
}

// Close closes the underlying database handle.
func (ds *Datastore) Close() error {
	return ds.DB.Close()
}
