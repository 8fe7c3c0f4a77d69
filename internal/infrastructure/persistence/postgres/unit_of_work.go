package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"coffeemesh/internal/domain/repository"
)

// UnitOfWork scopes one database transaction. Nothing written through the
// repositories it hands out is durable until Commit; there is no
// auto-commit. Rollback after Commit is a no-op, so callers defer it to
// guarantee the transaction is released on every exit path.
type UnitOfWork struct {
	tx   pgx.Tx
	done bool
}

func Begin(ctx context.Context, pool *pgxpool.Pool) (*UnitOfWork, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &UnitOfWork{tx: tx}, nil
}

// BeginFunc adapts Begin to the repository.BeginFunc port.
func BeginFunc(pool *pgxpool.Pool) repository.BeginFunc {
	return func(ctx context.Context) (repository.UnitOfWork, error) {
		return Begin(ctx, pool)
	}
}

// Orders returns the order repository bound to this transaction.
func (u *UnitOfWork) Orders() repository.OrderRepository {
	return NewOrderRepository(u.tx)
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	if err := u.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	u.done = true
	return nil
}

// Rollback discards pending writes and releases the transaction.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	if err := u.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("rollback transaction: %w", err)
	}
	return nil
}
