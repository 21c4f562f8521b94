package ports

import (
	"context"
	"time"

	"water-route-service/internal/domain"
)

type PlanRouteRequest struct {
	Name        string
	DriverID    int64
	AssistantID *int64
	TruckID     int64
	Date        time.Time
	OrderIDs    []int64
}

type PlanRouteResult struct {
	Route     *domain.Route
	Optimized *domain.OptimizedRoute
}

type StartRouteResult struct {
	Route  *domain.Route
	Orders []*domain.Order
}

// RouteService exposes route sequencing and tracking use cases to adapters.
type RouteService interface {
	Optimize(ctx context.Context, orderIDs []int64) (*domain.OptimizedRoute, error)
	PlanRoute(ctx context.Context, req PlanRouteRequest) (*PlanRouteResult, error)
	GetRoute(ctx context.Context, routeID int64) (*domain.Route, error)
	ListRoutes(ctx context.Context) ([]*domain.Route, error)
	ListPendingOrders(ctx context.Context) ([]*domain.Order, error)
	StartRoute(ctx context.Context, routeID int64, currentLocation string) (*StartRouteResult, error)
	ReportLocation(ctx context.Context, routeID int64, currentLocation string) (*domain.Route, error)
	CompleteRoute(ctx context.Context, routeID int64, currentLocation string) (*domain.Route, error)
	MarkOrderInTransit(ctx context.Context, orderID int64) (*domain.Order, error)
	MarkOrderDelivered(ctx context.Context, orderID int64) (*domain.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error)
}
