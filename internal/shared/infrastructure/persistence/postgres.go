// Package persistence carries database transactions through a context so
// repositories join whatever unit of work the caller started.
package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoTransaction is returned by Commit and Rollback outside Begin.
var ErrNoTransaction = errors.New("no transaction in context")

type pgTxKey struct{}

// PgTxInfo is the PostgreSQL transaction bound to a context. Owned is false
// for a nested Begin that joined an outer transaction.
type PgTxInfo struct {
	Tx    pgx.Tx
	Owned bool
}

// WithPgTx binds tx to ctx.
func WithPgTx(ctx context.Context, tx pgx.Tx, owned bool) context.Context {
	return context.WithValue(ctx, pgTxKey{}, PgTxInfo{Tx: tx, Owned: owned})
}

// PgTxFromContext returns the transaction bound to ctx.
func PgTxFromContext(ctx context.Context) (PgTxInfo, bool) {
	info, ok := ctx.Value(pgTxKey{}).(PgTxInfo)
	if !ok || info.Tx == nil {
		return PgTxInfo{}, false
	}
	return info, true
}

// PgExecutor is what repositories need from a pool or a transaction.
type PgExecutor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgConn returns the transaction in ctx, or pool when there is none.
func PgConn(ctx context.Context, pool *pgxpool.Pool) PgExecutor {
	if info, ok := PgTxFromContext(ctx); ok {
		return info.Tx
	}
	return pool
}

// PostgresUnitOfWork starts and finishes pgx transactions.
type PostgresUnitOfWork struct {
	pool *pgxpool.Pool
}

func NewPostgresUnitOfWork(pool *pgxpool.Pool) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{pool: pool}
}

// Begin joins the transaction already in ctx or starts a new one.
func (u *PostgresUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := PgTxFromContext(ctx); ok {
		return WithPgTx(ctx, info.Tx, false), nil
	}
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin postgres transaction: %w", err)
	}
	return WithPgTx(ctx, tx, true), nil
}

func (u *PostgresUnitOfWork) Commit(ctx context.Context) error {
	info, ok := PgTxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.Owned {
		return nil
	}
	return info.Tx.Commit(ctx)
}

func (u *PostgresUnitOfWork) Rollback(ctx context.Context) error {
	info, ok := PgTxFromContext(ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.Owned {
		return nil
	}
	return info.Tx.Rollback(ctx)
}
