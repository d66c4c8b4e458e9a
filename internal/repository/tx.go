package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartkeeper/internal/db"
	"github.com/nikolayk812/cartkeeper/internal/port"
)

func withTx[T any](ctx context.Context, pool *pgxpool.Pool, q *db.Queries, fn func(q *db.Queries) (T, error)) (T, error) {
	var zero T

	// If we're already in a transaction (pool is nil), just use the existing queries
	if pool == nil {
		return fn(q)
	}

	var result T
	err := inTx(ctx, pool, func(tx pgx.Tx) error {
		var err error
		result, err = fn(db.New(tx))
		return err
	})
	if err != nil {
		return zero, err
	}

	return result, nil
}

// inTx commits when fn succeeds and rolls back otherwise.
func inTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) (txErr error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pool.Begin: %w", err)
	}

	defer func() {
		if txErr != nil {
			rollbackErr := tx.Rollback(ctx)
			if rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}

type transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor runs callbacks against cart and order repositories sharing one transaction.
func NewTransactor(pool *pgxpool.Pool) port.Transactor {
	return &transactor{pool: pool}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(repos port.Repositories) error) error {
	return inTx(ctx, t.pool, func(tx pgx.Tx) error {
		return fn(txRepositories{tx: tx})
	})
}

type txRepositories struct {
	tx pgx.Tx
}

func (r txRepositories) Carts() port.CartRepository {
	return NewCartWithTx(r.tx)
}

func (r txRepositories) Orders() port.OrderRepository {
	return NewOrderWithTx(r.tx)
}
