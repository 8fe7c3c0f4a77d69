package order

import (
	"context"

	domain "coffeemesh/internal/domain/order"
	"coffeemesh/internal/domain/repository"
)

// Service thực hiện các use case của orders service. Repository và các
// gateway được inject qua constructor nên test có thể thay bằng double.
type Service struct {
	repo     repository.OrderRepository
	kitchen  domain.KitchenGateway
	payments domain.PaymentsGateway
}

// ItemInput is one requested line item as it arrives from the API.
type ItemInput struct {
	Product  string      `json:"product" binding:"required"`
	Size     domain.Size `json:"size" binding:"required"`
	Quantity int         `json:"quantity" binding:"required"`
}

// ListOrdersQuery carries the optional listing filters.
type ListOrdersQuery struct {
	Cancelled *bool
	Limit     *int
}

func NewService(repo repository.OrderRepository, kitchen domain.KitchenGateway, payments domain.PaymentsGateway) *Service {
	return &Service{repo: repo, kitchen: kitchen, payments: payments}
}

func buildItems(inputs []ItemInput) ([]domain.OrderItem, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyItems
	}
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		item, err := domain.NewItem(in.Product, in.Quantity, in.Size)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// PlaceOrder tạo order mới ở trạng thái created.
func (s *Service) PlaceOrder(ctx context.Context, inputs []ItemInput) (*domain.Order, error) {
	items, err := buildItems(inputs)
	if err != nil {
		return nil, err
	}
	return s.repo.Add(ctx, items)
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, &domain.NotFoundError{OrderID: id}
	}
	return o, nil
}

// UpdateOrder replaces the full item set of an existing order.
func (s *Service) UpdateOrder(ctx context.Context, id string, inputs []ItemInput) (*domain.Order, error) {
	items, err := buildItems(inputs)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, repository.UpdateOrder{Items: items})
}

func (s *Service) ListOrders(ctx context.Context, q ListOrdersQuery) ([]*domain.Order, error) {
	return s.repo.List(ctx, repository.ListQuery{Cancelled: q.Cancelled, Limit: q.Limit})
}

// PayOrder charges the order and schedules it with the kitchen. Payment has
// to be confirmed before scheduling is attempted; an unpaid order must never
// reach the kitchen.
func (s *Service) PayOrder(ctx context.Context, id string) (*domain.Order, error) {
	existing, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := existing.Pay(ctx, s.payments); err != nil {
		return nil, err
	}
	scheduleID, err := existing.Schedule(ctx, s.kitchen)
	if err != nil {
		return nil, err
	}
	status := domain.StatusProgress
	return s.repo.Update(ctx, id, repository.UpdateOrder{
		Status:     &status,
		ScheduleID: &scheduleID,
	})
}

// CancelOrder cancels the kitchen schedule and marks the order cancelled.
// The progress-only rule is enforced by the entity.
func (s *Service) CancelOrder(ctx context.Context, id string) (*domain.Order, error) {
	existing, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := existing.Cancel(ctx, s.kitchen); err != nil {
		return nil, err
	}
	status := domain.StatusCancelled
	return s.repo.Update(ctx, id, repository.UpdateOrder{Status: &status})
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if _, err := s.GetOrder(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
