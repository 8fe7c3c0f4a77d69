package memory

import (
	"context"

	"coffeemesh/internal/domain/repository"
)

// UnitOfWork satisfies the unit of work port over the in-memory store.
// The map store applies writes immediately, so the unit of work snapshots
// the records on begin and restores them on Rollback; Rollback after
// Commit is a no-op, matching the store-backed implementation.
type UnitOfWork struct {
	orders   *OrderRepository
	snapshot snapshot
	done     bool
}

func NewUnitOfWork(orders *OrderRepository) *UnitOfWork {
	return &UnitOfWork{orders: orders, snapshot: orders.snapshot()}
}

// BeginFunc adapts the in-memory store to the repository.BeginFunc port.
func BeginFunc(orders *OrderRepository) repository.BeginFunc {
	return func(ctx context.Context) (repository.UnitOfWork, error) {
		return NewUnitOfWork(orders), nil
	}
}

func (u *UnitOfWork) Orders() repository.OrderRepository {
	return u.orders
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	u.done = true
	return nil
}

// Rollback discards every write made since the unit of work was opened.
func (u *UnitOfWork) Rollback(ctx context.Context) error {
	if u.done {
		return nil
	}
	u.done = true
	u.orders.restore(u.snapshot)
	return nil
}
