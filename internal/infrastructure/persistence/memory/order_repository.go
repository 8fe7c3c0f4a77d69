package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "coffeemesh/internal/domain/order"
	"coffeemesh/internal/domain/repository"
)

// OrderRepository is an in-memory implementation of the order repository,
// used by tests and local development. Records are copied on the way in and
// out to avoid aliasing between callers.
type OrderRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.Record
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{records: make(map[string]*domain.Record)}
}

func copyRecord(rec *domain.Record) *domain.Record {
	cp := &domain.Record{
		ID:      rec.ID,
		Status:  rec.Status,
		Created: rec.Created,
		Items:   append([]domain.OrderItem(nil), rec.Items...),
	}
	if rec.ScheduleID != nil {
		v := *rec.ScheduleID
		cp.ScheduleID = &v
	}
	if rec.DeliveryID != nil {
		v := *rec.DeliveryID
		cp.DeliveryID = &v
	}
	cp.MarkFlushed()
	return cp
}

type snapshot map[string]*domain.Record

// snapshot copies the full record set; restore swaps it back in. They back
// the rollback of the in-memory unit of work.
func (r *OrderRepository) snapshot() snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cp := make(snapshot, len(r.records))
	for id, rec := range r.records {
		cp[id] = copyRecord(rec)
	}
	return cp
}

func (r *OrderRepository) restore(s snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = s
}

func (r *OrderRepository) Add(ctx context.Context, items []domain.OrderItem) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := &domain.Record{
		ID:      uuid.NewString(),
		Status:  domain.StatusCreated,
		Created: time.Now().UTC(),
		Items:   append([]domain.OrderItem(nil), items...),
	}
	for i := range rec.Items {
		rec.Items[i].ID = uuid.NewString()
	}
	rec.MarkFlushed()
	r.records[rec.ID] = rec

	return domain.Pending(copyRecord(rec)), nil
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, nil
	}
	return domain.FromRecord(copyRecord(rec)), nil
}

func (r *OrderRepository) List(ctx context.Context, q repository.ListQuery) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]*domain.Record, 0, len(r.records))
	for _, rec := range r.records {
		if q.Cancelled != nil {
			cancelled := rec.Status == domain.StatusCancelled
			if cancelled != *q.Cancelled {
				continue
			}
		}
		if q.Status != nil && rec.Status != *q.Status {
			continue
		}
		recs = append(recs, rec)
	}

	// Creation order, same as the store-backed repository.
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].Created.Equal(recs[j].Created) {
			return recs[i].Created.Before(recs[j].Created)
		}
		return recs[i].ID < recs[j].ID
	})

	if q.Limit != nil && len(recs) > *q.Limit {
		recs = recs[:*q.Limit]
	}

	orders := make([]*domain.Order, 0, len(recs))
	for _, rec := range recs {
		orders = append(orders, domain.FromRecord(copyRecord(rec)))
	}
	return orders, nil
}

func (r *OrderRepository) Update(ctx context.Context, id string, cmd repository.UpdateOrder) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, &domain.NotFoundError{OrderID: id}
	}

	if cmd.Items != nil {
		rec.Items = append([]domain.OrderItem(nil), cmd.Items...)
		for i := range rec.Items {
			rec.Items[i].ID = uuid.NewString()
		}
	}
	if cmd.Status != nil {
		rec.Status = *cmd.Status
	}
	if cmd.ScheduleID != nil {
		v := *cmd.ScheduleID
		rec.ScheduleID = &v
	}
	if cmd.DeliveryID != nil {
		v := *cmd.DeliveryID
		rec.DeliveryID = &v
	}

	return domain.FromRecord(copyRecord(rec)), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return &domain.NotFoundError{OrderID: id}
	}
	delete(r.records, id)
	return nil
}
