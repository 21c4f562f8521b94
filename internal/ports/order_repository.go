package ports

import (
	"context"
	"time"

	"water-route-service/internal/domain"
)

// OrderFields is a partial update. Nil fields are left untouched.
// When ExpectedStatus is set the update only applies if the stored status still matches.
type OrderFields struct {
	Status                *domain.OrderStatus
	RouteID               *int64
	EstimatedDeliveryTime *time.Time
	DeliverySequence      *int
	ExpectedStatus        *domain.OrderStatus
}

// Port: a boundary for reading and updating orders.
// Missing orders are reported with an error matching domain.ErrNotFound.
type OrderRepository interface {
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]*domain.Order, error)
	UpdateOrderFields(ctx context.Context, id int64, fields OrderFields) (*domain.Order, error)
}
