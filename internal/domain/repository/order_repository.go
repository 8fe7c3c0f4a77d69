package repository

import (
	"context"

	"coffeemesh/internal/domain/order"
)

// ListQuery narrows a listing. Cancelled=true keeps only cancelled orders,
// Cancelled=false keeps the complement. Nil fields are ignored. Results are
// always returned in creation order.
type ListQuery struct {
	Cancelled *bool
	Status    *order.Status
	Limit     *int
}

// UpdateOrder is the closed set of fields an update may touch. Nil fields
// are left as they are. Items, when non-nil, replaces the full item set.
type UpdateOrder struct {
	Status     *order.Status
	ScheduleID *string
	DeliveryID *string
	Items      []order.OrderItem
}

type OrderRepository interface {
	// Add registers a new order with the active transaction and returns it
	// wrapping the backing record.
	Add(ctx context.Context, items []order.OrderItem) (*order.Order, error)
	// Get returns the order for id, or nil when no record matches. Absence
	// is not an error at this layer.
	Get(ctx context.Context, id string) (*order.Order, error)
	List(ctx context.Context, q ListQuery) ([]*order.Order, error)
	Update(ctx context.Context, id string, cmd UpdateOrder) (*order.Order, error)
	// Delete removes the order or fails with order.NotFoundError.
	Delete(ctx context.Context, id string) error
}

// UnitOfWork scopes one logical transaction over the order store. Writes
// become durable only on Commit; Rollback after Commit is a no-op so it can
// be deferred for the error path.
type UnitOfWork interface {
	Orders() OrderRepository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// BeginFunc mở một unit of work mới; mỗi request dùng đúng một unit of work.
type BeginFunc func(ctx context.Context) (UnitOfWork, error)
