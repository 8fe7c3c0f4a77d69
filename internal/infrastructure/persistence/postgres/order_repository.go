package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	domain "coffeemesh/internal/domain/order"
	"coffeemesh/internal/domain/repository"
)

// OrderRepository translates between domain orders and the order/order_items
// tables. It is bound to the transaction of one unit of work and never
// commits on its own.
type OrderRepository struct {
	tx pgx.Tx
}

func NewOrderRepository(tx pgx.Tx) *OrderRepository {
	return &OrderRepository{tx: tx}
}

func (r *OrderRepository) Add(ctx context.Context, items []domain.OrderItem) (*domain.Order, error) {
	rec := &domain.Record{
		Status: domain.StatusCreated,
		Items:  append([]domain.OrderItem(nil), items...),
	}

	// Id và created do store gán; scan ngược lại vào record.
	err := r.tx.QueryRow(ctx,
		`INSERT INTO orders (id, status) VALUES ($1, $2) RETURNING id, created`,
		uuid.NewString(), rec.Status,
	).Scan(&rec.ID, &rec.Created)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := r.insertItems(ctx, rec.ID, rec.Items); err != nil {
		return nil, err
	}
	rec.MarkFlushed()

	return domain.Pending(rec), nil
}

func (r *OrderRepository) insertItems(ctx context.Context, orderID string, items []domain.OrderItem) error {
	for i := range items {
		items[i].ID = uuid.NewString()
		_, err := r.tx.Exec(ctx,
			`INSERT INTO order_items (id, order_id, position, product, size, quantity)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			items[i].ID, orderID, i, items[i].Product, items[i].Size, items[i].Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepository) getRecord(ctx context.Context, id string) (*domain.Record, error) {
	rec := &domain.Record{}
	err := r.tx.QueryRow(ctx,
		`SELECT id, status, created, schedule_id, delivery_id FROM orders WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Status, &rec.Created, &rec.ScheduleID, &rec.DeliveryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select order: %w", err)
	}

	if rec.Items, err = r.loadItems(ctx, rec.ID); err != nil {
		return nil, err
	}
	rec.MarkFlushed()
	return rec, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.tx.Query(ctx,
		`SELECT id, product, size, quantity FROM order_items
		 WHERE order_id = $1 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.Product, &item.Size, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	rec, err := r.getRecord(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return domain.FromRecord(rec), nil
}

func (r *OrderRepository) List(ctx context.Context, q repository.ListQuery) ([]*domain.Order, error) {
	query := `SELECT id FROM orders`
	var (
		conds []string
		args  []any
	)
	if q.Cancelled != nil {
		if *q.Cancelled {
			conds = append(conds, "status = $"+strconv.Itoa(len(args)+1))
		} else {
			conds = append(conds, "status <> $"+strconv.Itoa(len(args)+1))
		}
		args = append(args, domain.StatusCancelled)
	}
	if q.Status != nil {
		conds = append(conds, "status = $"+strconv.Itoa(len(args)+1))
		args = append(args, *q.Status)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	// Creation order keeps listings deterministic.
	query += " ORDER BY created, id"
	if q.Limit != nil {
		query += " LIMIT $" + strconv.Itoa(len(args)+1)
		args = append(args, *q.Limit)
	}

	rows, err := r.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan order id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	orders := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, id string, cmd repository.UpdateOrder) (*domain.Order, error) {
	rec, err := r.getRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &domain.NotFoundError{OrderID: id}
	}

	if cmd.Items != nil {
		// Full replace: drop every existing item, then write the new set.
		// Copy first; insertItems assigns ids in place and the command
		// belongs to the caller.
		if _, err := r.tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, rec.ID); err != nil {
			return nil, fmt.Errorf("delete order items: %w", err)
		}
		items := append([]domain.OrderItem(nil), cmd.Items...)
		if err := r.insertItems(ctx, rec.ID, items); err != nil {
			return nil, err
		}
	}
	if cmd.Status != nil {
		if _, err := r.tx.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, *cmd.Status, rec.ID); err != nil {
			return nil, fmt.Errorf("update order status: %w", err)
		}
	}
	if cmd.ScheduleID != nil {
		if _, err := r.tx.Exec(ctx, `UPDATE orders SET schedule_id = $1 WHERE id = $2`, *cmd.ScheduleID, rec.ID); err != nil {
			return nil, fmt.Errorf("update order schedule_id: %w", err)
		}
	}
	if cmd.DeliveryID != nil {
		if _, err := r.tx.Exec(ctx, `UPDATE orders SET delivery_id = $1 WHERE id = $2`, *cmd.DeliveryID, rec.ID); err != nil {
			return nil, fmt.Errorf("update order delivery_id: %w", err)
		}
	}

	return r.Get(ctx, id)
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{OrderID: id}
	}
	return nil
}
