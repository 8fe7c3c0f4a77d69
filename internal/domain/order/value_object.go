package order

// Status describes the lifecycle of an order.
type Status string

const (
	StatusCreated    Status = "created"
	StatusPaid       Status = "paid"
	StatusProgress   Status = "progress"
	StatusCancelled  Status = "cancelled"
	StatusDispatched Status = "dispatched"
	StatusDelivered  Status = "delivered"
)

func (s Status) Valid() bool {
	switch s {
	case StatusCreated, StatusPaid, StatusProgress, StatusCancelled, StatusDispatched, StatusDelivered:
		return true
	}
	return false
}

// Size là cỡ đồ uống của một item trong đơn hàng.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeBig    Size = "big"
)

func (s Size) Valid() bool {
	switch s {
	case SizeSmall, SizeMedium, SizeBig:
		return true
	}
	return false
}
