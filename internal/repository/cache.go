package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
)

// stmtCache keeps one prepared statement per query string for the lifetime
// of a repository.
type stmtCache struct {
	mu         sync.RWMutex
	statements map[string]*sql.Stmt
	db         *sql.DB
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{
		statements: make(map[string]*sql.Stmt),
		db:         db,
	}
}

// get returns the cached statement for query, preparing it on first use.
func (c *stmtCache) get(ctx context.Context, query string) (*sql.Stmt, error) {
	c.mu.RLock()
	stmt, ok := c.statements[query]
	c.mu.RUnlock()
	if ok {
		return stmt, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have prepared it while we waited
	if stmt, ok := c.statements[query]; ok {
		return stmt, nil
	}

	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}

	c.statements[query] = stmt
	return stmt, nil
}

// close closes every prepared statement and empties the cache.
func (c *stmtCache) close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for _, stmt := range c.statements {
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	c.statements = make(map[string]*sql.Stmt)
	return errors.Join(errs...)
}

func (c *stmtCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.statements)
}
