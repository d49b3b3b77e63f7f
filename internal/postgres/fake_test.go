package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var errFakeDBTX = errors.New("fake DBTX does not execute SQL")

// fakeDBTX satisfies DBTX for tests that never reach the database.
type fakeDBTX struct {
	name string
}

func (*fakeDBTX) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, errFakeDBTX
}

func (*fakeDBTX) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errFakeDBTX
}

func (*fakeDBTX) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}
