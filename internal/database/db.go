// internal/database/db.go

// Package database is the PostgreSQL store. Every write is an upsert keyed by
// a natural key so that replaying the same upstream data is a no-op.
package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	custom_errors "github-portfolio/internal/errors"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Store adds transactions to Querier.
type Store interface {
	Querier
	ExecTx(ctx context.Context, fn func(Querier) error) error
}

// PoolStore is the Store backed by a connection pool.
type PoolStore struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PoolStore {
	return &PoolStore{Queries: New(pool), pool: pool}
}

// ExecTx runs fn inside a transaction, committing when fn returns nil.
func (s *PoolStore) ExecTx(ctx context.Context, fn func(Querier) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(s.WithTx(tx))
	})
}

const uniqueViolationCode = "23505"

// alreadyExists maps a unique-constraint violation onto ErrAlreadyExists.
func alreadyExists(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return fmt.Errorf("%w: %s", custom_errors.ErrAlreadyExists, pgErr.ConstraintName)
	}
	return err
}

// notFound maps pgx.ErrNoRows onto the package-independent sentinel.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return custom_errors.ErrNotFound
	}
	return err
}
