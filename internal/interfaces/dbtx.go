package interfaces

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX abstracts the pgx querying surface so repositories accept either a
// *pgxpool.Pool or a pgx.Tx. Begin lets a repository open a transaction for
// multi-statement mutations (reorders, cascade deletes); pgx transactions
// support nested Begin via savepoints, so a tx-bound repository still works.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}
