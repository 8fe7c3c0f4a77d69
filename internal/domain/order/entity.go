package order

import (
	"context"
	"time"
)

// OrderItem is one line item of an order. Items have no lifecycle of their
// own; they live and die with their parent order.
type OrderItem struct {
	ID       string
	Product  string
	Quantity int
	Size     Size
}

func NewItem(product string, quantity int, size Size) (OrderItem, error) {
	if product == "" {
		return OrderItem{}, ErrMissingProduct
	}
	if quantity < 1 {
		return OrderItem{}, ErrInvalidQuantity
	}
	if !size.Valid() {
		return OrderItem{}, ErrInvalidSize
	}
	return OrderItem{Product: product, Quantity: quantity, Size: size}, nil
}

// Record is the persisted form of an order. The repository fills ID and
// Created once the backing rows have been written inside the active
// transaction; until then the record is unflushed and carries no identity.
type Record struct {
	ID         string
	Status     Status
	Created    time.Time
	ScheduleID *string
	DeliveryID *string
	Items      []OrderItem

	flushed bool
}

// MarkFlushed được repository gọi sau khi store đã gán identity cho record.
func (r *Record) MarkFlushed() {
	r.flushed = true
}

func (r *Record) Flushed() bool {
	return r.flushed
}

// PaymentsGateway charges placed orders through the payments service.
type PaymentsGateway interface {
	Charge(ctx context.Context, orderID string) error
}

// KitchenGateway manages preparation schedules on the kitchen service.
type KitchenGateway interface {
	Schedule(ctx context.Context, items []OrderItem) (string, error)
	CancelSchedule(ctx context.Context, scheduleID string, items []OrderItem) error
}

// Order is the aggregate used by business logic. Id and creation time are
// assigned by the persistence layer, so a freshly added order knows them only
// through the backing record. Accessors resolve the explicit value first and
// fall back to the record; reading before the record is flushed fails with
// ErrUnresolvedIdentity instead of guessing.
type Order struct {
	id      string
	created time.Time
	status  Status

	ScheduleID *string
	DeliveryID *string
	Items      []OrderItem

	record *Record
}

// FromRecord builds an Order for a record already loaded from the store.
func FromRecord(rec *Record) *Order {
	return &Order{
		id:         rec.ID,
		created:    rec.Created,
		status:     rec.Status,
		ScheduleID: rec.ScheduleID,
		DeliveryID: rec.DeliveryID,
		Items:      rec.Items,
		record:     rec,
	}
}

// Pending wraps a record registered with the running transaction. Identity
// resolves through the record once the repository has flushed it.
func Pending(rec *Record) *Order {
	return &Order{
		ScheduleID: rec.ScheduleID,
		DeliveryID: rec.DeliveryID,
		Items:      rec.Items,
		record:     rec,
	}
}

func (o *Order) ID() (string, error) {
	if o.id != "" {
		return o.id, nil
	}
	if o.record != nil && o.record.Flushed() {
		return o.record.ID, nil
	}
	return "", ErrUnresolvedIdentity
}

func (o *Order) Created() (time.Time, error) {
	if !o.created.IsZero() {
		return o.created, nil
	}
	if o.record != nil && o.record.Flushed() {
		return o.record.Created, nil
	}
	return time.Time{}, ErrUnresolvedIdentity
}

func (o *Order) Status() (Status, error) {
	if o.status != "" {
		return o.status, nil
	}
	if o.record != nil && o.record.Flushed() {
		return o.record.Status, nil
	}
	return "", ErrUnresolvedIdentity
}

// Pay charges the order on the payments service. The remote charge is not
// transactional with the local store: if the local commit fails afterwards
// the customer has still been charged.
func (o *Order) Pay(ctx context.Context, payments PaymentsGateway) error {
	id, err := o.ID()
	if err != nil {
		return err
	}
	if err := payments.Charge(ctx, id); err != nil {
		return &IntegrationError{Service: "payments", OrderID: id, Err: err}
	}
	return nil
}

// Schedule registers the order items with the kitchen and returns the
// kitchen-assigned schedule id.
func (o *Order) Schedule(ctx context.Context, kitchen KitchenGateway) (string, error) {
	id, err := o.ID()
	if err != nil {
		return "", err
	}
	scheduleID, err := kitchen.Schedule(ctx, o.Items)
	if err != nil {
		return "", &IntegrationError{Service: "kitchen", OrderID: id, Err: err}
	}
	return scheduleID, nil
}

// Cancel asks the kitchen to stop preparing the order. Only an order in
// status progress can be cancelled; any other status is rejected.
func (o *Order) Cancel(ctx context.Context, kitchen KitchenGateway) error {
	id, err := o.ID()
	if err != nil {
		return err
	}
	status, err := o.Status()
	if err != nil {
		return err
	}
	if status != StatusProgress {
		return &InvalidActionError{OrderID: id, Action: "cancel", Status: status}
	}

	var scheduleID string
	if o.ScheduleID != nil {
		scheduleID = *o.ScheduleID
	}
	if err := kitchen.CancelSchedule(ctx, scheduleID, o.Items); err != nil {
		return &IntegrationError{Service: "kitchen", OrderID: id, Err: err}
	}
	return nil
}
