package ports

import (
	"context"
	"time"

	"water-route-service/internal/domain"
)

// RouteFields is a partial update. Nil fields are left untouched.
// When ExpectedStatus is set the update only applies if the stored status still matches;
// otherwise the repository returns an error matching domain.ErrInvalidTransition.
type RouteFields struct {
	Status          *domain.RouteStatus
	CurrentLocation *string
	StartTime       *time.Time
	EndTime         *time.Time
	LastUpdate      *time.Time
	ExpectedStatus  *domain.RouteStatus
}

// Port: a boundary for persisted routes.
type RouteRepository interface {
	GetRoute(ctx context.Context, id int64) (*domain.Route, error)
	ListRoutes(ctx context.Context) ([]*domain.Route, error)
	CreateRoute(ctx context.Context, route *domain.Route) (*domain.Route, error)
	UpdateRouteFields(ctx context.Context, id int64, fields RouteFields) (*domain.Route, error)
}
