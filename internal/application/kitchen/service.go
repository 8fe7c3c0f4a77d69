package kitchen

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status describes the lifecycle of a kitchen schedule.
type Status string

const (
	StatusPending   Status = "pending"
	StatusProgress  Status = "progress"
	StatusCancelled Status = "cancelled"
	StatusFinished  Status = "finished"
)

var ErrEmptyOrder = errors.New("schedule must contain at least one item")

// NotFoundError báo hiệu schedule không tồn tại.
type NotFoundError struct {
	ScheduleID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schedule with id %s not found", e.ScheduleID)
}

// Item is one ordered product as the kitchen sees it.
type Item struct {
	Product  string `json:"product" binding:"required"`
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// Schedule is one preparation slot for an order.
type Schedule struct {
	ID        string    `json:"id"`
	Scheduled time.Time `json:"scheduled"`
	Status    Status    `json:"status"`
	Order     []Item    `json:"order"`
}

// ListQuery narrows a schedule listing. Progress=true keeps only schedules
// being prepared, Progress=false the complement. Nil fields are ignored.
type ListQuery struct {
	Progress *bool
	Since    *time.Time
	Limit    *int
}

// Service giữ schedules trong bộ nhớ; kitchen service không có store riêng.
type Service struct {
	mu        sync.RWMutex
	schedules []*Schedule
}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Create(items []Item) (*Schedule, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := &Schedule{
		ID:        uuid.NewString(),
		Scheduled: time.Now().UTC(),
		Status:    StatusPending,
		Order:     append([]Item(nil), items...),
	}
	s.schedules = append(s.schedules, schedule)
	return copySchedule(schedule), nil
}

func (s *Service) List(q ListQuery) []*Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Schedule, 0, len(s.schedules))
	for _, schedule := range s.schedules {
		if q.Progress != nil {
			inProgress := schedule.Status == StatusProgress
			if inProgress != *q.Progress {
				continue
			}
		}
		if q.Since != nil && schedule.Scheduled.Before(*q.Since) {
			continue
		}
		out = append(out, copySchedule(schedule))
	}

	if q.Limit != nil && len(out) > *q.Limit {
		out = out[:*q.Limit]
	}
	return out
}

func (s *Service) Get(id string) (*Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule := s.find(id)
	if schedule == nil {
		return nil, &NotFoundError{ScheduleID: id}
	}
	return copySchedule(schedule), nil
}

// UpdateItems replaces the full item set of a schedule.
func (s *Service) UpdateItems(id string, items []Item) (*Schedule, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.find(id)
	if schedule == nil {
		return nil, &NotFoundError{ScheduleID: id}
	}
	schedule.Order = append([]Item(nil), items...)
	return copySchedule(schedule), nil
}

func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, schedule := range s.schedules {
		if schedule.ID == id {
			s.schedules = append(s.schedules[:i], s.schedules[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{ScheduleID: id}
}

func (s *Service) Cancel(id string) (*Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedule := s.find(id)
	if schedule == nil {
		return nil, &NotFoundError{ScheduleID: id}
	}
	schedule.Status = StatusCancelled
	return copySchedule(schedule), nil
}

func (s *Service) Status(id string) (Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule := s.find(id)
	if schedule == nil {
		return "", &NotFoundError{ScheduleID: id}
	}
	return schedule.Status, nil
}

// find chỉ được gọi khi đã giữ lock.
func (s *Service) find(id string) *Schedule {
	for _, schedule := range s.schedules {
		if schedule.ID == id {
			return schedule
		}
	}
	return nil
}

func copySchedule(schedule *Schedule) *Schedule {
	cp := *schedule
	cp.Order = append([]Item(nil), schedule.Order...)
	return &cp
}
