// Package postgres is the PostgreSQL storage gateway, built on pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Options sizes the connection pool.
type Options struct {
	URL             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Connect opens a pool and verifies it with a ping.
func Connect(ctx context.Context, opts Options) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	if opts.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = opts.MaxConnLifetime
	}
	if opts.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the item table if it is missing.
func EnsureSchema(ctx context.Context, db DBTX) error {
	_, err := db.Exec(ctx, `
		create table if not exists item (
			id bigint generated by default as identity primary key,
			name text not null,
			description text,
			created_at timestamptz not null default now(),
			updated_at timestamptz not null default now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create item table: %w", err)
	}

	if _, err := db.Exec(ctx, `create index if not exists idx_item_name on item (name)`); err != nil {
		return fmt.Errorf("create item name index: %w", err)
	}
	return nil
}

type dbtxKey struct{}

// WithDBTX makes stores use db (usually a transaction) for calls made with ctx.
func WithDBTX(ctx context.Context, db DBTX) context.Context {
	if db == nil {
		return ctx
	}
	return context.WithValue(ctx, dbtxKey{}, db)
}

// DBFromContext returns the DBTX stored by WithDBTX, or fallback.
func DBFromContext(ctx context.Context, fallback DBTX) DBTX {
	if ctx == nil {
		return fallback
	}
	if db, ok := ctx.Value(dbtxKey{}).(DBTX); ok {
		return db
	}
	return fallback
}
