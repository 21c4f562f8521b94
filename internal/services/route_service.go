package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

// RouteService is the entry point used by the HTTP layer. It loads orders and
// routes, runs the builder and the state machine, and writes the results back.
//
// Transitions on the same route (or order) are serialized through the Locker,
// and every status write carries the expected prior status so a concurrent
// writer in another process cannot slip in between the read and the write.
// Multi-step writes are not transactional: if an order update fails after the
// route was saved, the earlier writes stay applied.
type RouteService struct {
	orders  ports.OrderRepository
	routes  ports.RouteRepository
	locker  ports.Locker
	builder *RouteBuilder
	params  domain.RoutingParams
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*RouteService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *RouteService) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for transitions and ETAs.
func WithClock(now func() time.Time) Option {
	return func(s *RouteService) {
		s.now = now
	}
}

func NewRouteService(
	orders ports.OrderRepository,
	routes ports.RouteRepository,
	locker ports.Locker,
	distances ports.DistanceProvider,
	params domain.RoutingParams,
	opts ...Option,
) (*RouteService, error) {
	if orders == nil || routes == nil {
		return nil, errors.New("new route service: repositories must be non-nil")
	}
	if locker == nil {
		return nil, errors.New("new route service: locker must be non-nil")
	}

	builder, err := NewRouteBuilder(params, distances)
	if err != nil {
		return nil, fmt.Errorf("new route service: %w", err)
	}

	s := &RouteService{
		orders:  orders,
		routes:  routes,
		locker:  locker,
		builder: builder,
		params:  params,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s, nil
}

// Optimize computes a visit order for the given orders without persisting anything.
// Orders that are not pending, or whose coordinates are missing or malformed,
// are logged and left out.
func (s *RouteService) Optimize(ctx context.Context, orderIDs []int64) (*domain.OptimizedRoute, error) {
	candidates := make([]StopCandidate, 0, len(orderIDs))
	var notPending []domain.RejectedStop
	seen := make(map[int64]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		order, err := s.orders.GetOrder(ctx, id)
		if err != nil {
			return nil, wrapRepoErr("optimize", "order", id, err)
		}
		if order.Status != domain.OrderStatusPending {
			notPending = append(notPending, domain.RejectedStop{
				OrderID: order.ID,
				Reason:  fmt.Errorf("order %d is %s: %w", order.ID, order.Status, domain.ErrOrderNotRoutable),
			})
			continue
		}
		candidates = append(candidates, StopCandidate{OrderID: order.ID, Coordinates: order.DeliveryCoordinates})
	}

	route, err := s.builder.Build(ctx, candidates)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	if len(notPending) > 0 {
		route.Rejected = append(notPending, route.Rejected...)
	}

	for _, r := range route.Rejected {
		s.logger.WarnContext(ctx, "order excluded from route",
			slog.Int64("order.id", r.OrderID),
			slog.String("reason", r.Reason.Error()),
		)
	}

	return route, nil
}

// PlanRoute optimizes the orders and stores the result as a new pending route.
// Each sequenced order is bound to the route with its position.
func (s *RouteService) PlanRoute(ctx context.Context, req ports.PlanRouteRequest) (*ports.PlanRouteResult, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("plan route: name is required: %w", domain.ErrInvalidInput)
	}
	if req.DriverID <= 0 || req.TruckID <= 0 {
		return nil, fmt.Errorf("plan route: driver and truck ids must be positive: %w", domain.ErrInvalidInput)
	}

	optimized, err := s.Optimize(ctx, req.OrderIDs)
	if err != nil {
		return nil, fmt.Errorf("plan route: %w", err)
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}

	created, err := s.routes.CreateRoute(ctx, &domain.Route{
		Name:             strings.TrimSpace(req.Name),
		DriverID:         req.DriverID,
		AssistantID:      req.AssistantID,
		TruckID:          req.TruckID,
		Status:           domain.RouteStatusPending,
		Date:             date,
		DeliverySequence: optimized.Sequence,
	})
	if err != nil {
		return nil, wrapRepoErr("plan route", "route", 0, err)
	}

	for i, id := range optimized.Sequence {
		pos := i + 1
		if _, err := s.orders.UpdateOrderFields(ctx, id, ports.OrderFields{
			RouteID:          &created.ID,
			DeliverySequence: &pos,
		}); err != nil {
			return nil, wrapRepoErr("plan route: bind order", "order", id, err)
		}
	}

	s.logger.InfoContext(ctx, "route planned",
		slog.Int64("route.id", created.ID),
		slog.Int("route.stops", len(optimized.Sequence)),
		slog.Float64("route.distance_km", optimized.TotalDistanceKm),
	)

	return &ports.PlanRouteResult{Route: created, Optimized: optimized}, nil
}

func (s *RouteService) GetRoute(ctx context.Context, routeID int64) (*domain.Route, error) {
	route, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, wrapRepoErr("get route", "route", routeID, err)
	}
	return route, nil
}

// ListRoutes returns every stored route, newest first.
func (s *RouteService) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	routes, err := s.routes.ListRoutes(ctx)
	if err != nil {
		return nil, wrapRepoErr("list routes", "route", 0, err)
	}
	return routes, nil
}

// ListPendingOrders returns the orders that can still be put on a route.
func (s *RouteService) ListPendingOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, wrapRepoErr("list pending orders", "order", 0, err)
	}

	pending := make([]*domain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == domain.OrderStatusPending {
			pending = append(pending, o)
		}
	}
	return pending, nil
}

// StartRoute puts a pending route in progress and recomputes the ETAs of its
// orders, anchored at the start time.
func (s *RouteService) StartRoute(ctx context.Context, routeID int64, currentLocation string) (*ports.StartRouteResult, error) {
	const op = "start route"

	unlock, err := s.locker.Lock(ctx, routeKey(routeID))
	if err != nil {
		return nil, fmt.Errorf("%s %d: acquire lock: %w", op, routeID, err)
	}
	defer unlock()

	current, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, wrapRepoErr(op, "route", routeID, err)
	}

	now := s.now()
	next := current.Clone()
	if err := next.Start(now, currentLocation); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Load every order before the first write so a missing order leaves the route untouched.
	orders := make([]*domain.Order, 0, len(next.DeliverySequence))
	seen := make(map[int64]struct{}, len(next.DeliverySequence))
	for _, id := range next.DeliverySequence {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		order, err := s.orders.GetOrder(ctx, id)
		if err != nil {
			return nil, wrapRepoErr(op, "order", id, err)
		}
		orders = append(orders, order)
	}

	etas := PropagateETAs(next.DeliverySequence, now, s.params.ServiceMinutes, s.params.InterStopGapMinutes)

	saved, err := s.saveRoute(ctx, op, current.Status, next)
	if err != nil {
		return nil, err
	}

	updated := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		eta, ok := etas[order.ID]
		if !ok || order.Terminal() {
			updated = append(updated, order)
			continue
		}

		u, err := s.orders.UpdateOrderFields(ctx, order.ID, ports.OrderFields{
			EstimatedDeliveryTime: &eta.EstimatedDeliveryTime,
			DeliverySequence:      &eta.Sequence,
		})
		if err != nil {
			return nil, wrapRepoErr(op+": update eta", "order", order.ID, err)
		}
		updated = append(updated, u)
	}

	s.logger.InfoContext(ctx, "route started",
		slog.Int64("route.id", routeID),
		slog.Int("route.orders", len(updated)),
	)

	return &ports.StartRouteResult{Route: saved, Orders: updated}, nil
}

// ReportLocation records the vehicle position of a route in progress.
// ETAs keep the values computed at start.
func (s *RouteService) ReportLocation(ctx context.Context, routeID int64, currentLocation string) (*domain.Route, error) {
	return s.transitionRoute(ctx, "report location", routeID, func(r *domain.Route, now time.Time) error {
		return r.ReportLocation(now, currentLocation)
	})
}

func (s *RouteService) CompleteRoute(ctx context.Context, routeID int64, currentLocation string) (*domain.Route, error) {
	return s.transitionRoute(ctx, "complete route", routeID, func(r *domain.Route, now time.Time) error {
		return r.Complete(now, currentLocation)
	})
}

func (s *RouteService) MarkOrderInTransit(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.transitionOrder(ctx, "mark order in transit", orderID, (*domain.Order).MarkInTransit)
}

func (s *RouteService) MarkOrderDelivered(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.transitionOrder(ctx, "mark order delivered", orderID, (*domain.Order).MarkDelivered)
}

func (s *RouteService) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.transitionOrder(ctx, "cancel order", orderID, (*domain.Order).Cancel)
}

func (s *RouteService) transitionRoute(
	ctx context.Context,
	op string,
	routeID int64,
	apply func(*domain.Route, time.Time) error,
) (*domain.Route, error) {
	unlock, err := s.locker.Lock(ctx, routeKey(routeID))
	if err != nil {
		return nil, fmt.Errorf("%s %d: acquire lock: %w", op, routeID, err)
	}
	defer unlock()

	current, err := s.routes.GetRoute(ctx, routeID)
	if err != nil {
		return nil, wrapRepoErr(op, "route", routeID, err)
	}

	next := current.Clone()
	if err := apply(next, s.now()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.saveRoute(ctx, op, current.Status, next)
}

func (s *RouteService) saveRoute(ctx context.Context, op string, expected domain.RouteStatus, next *domain.Route) (*domain.Route, error) {
	saved, err := s.routes.UpdateRouteFields(ctx, next.ID, ports.RouteFields{
		Status:          &next.Status,
		CurrentLocation: next.CurrentLocation,
		StartTime:       next.StartTime,
		EndTime:         next.EndTime,
		LastUpdate:      next.LastUpdate,
		ExpectedStatus:  &expected,
	})
	if err != nil {
		return nil, wrapRepoErr(op, "route", next.ID, err)
	}
	return saved, nil
}

func (s *RouteService) transitionOrder(
	ctx context.Context,
	op string,
	orderID int64,
	apply func(*domain.Order) error,
) (*domain.Order, error) {
	unlock, err := s.locker.Lock(ctx, orderKey(orderID))
	if err != nil {
		return nil, fmt.Errorf("%s %d: acquire lock: %w", op, orderID, err)
	}
	defer unlock()

	current, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, wrapRepoErr(op, "order", orderID, err)
	}

	next := current.Clone()
	if err := apply(next); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	saved, err := s.orders.UpdateOrderFields(ctx, orderID, ports.OrderFields{
		Status:         &next.Status,
		ExpectedStatus: &current.Status,
	})
	if err != nil {
		return nil, wrapRepoErr(op, "order", orderID, err)
	}
	return saved, nil
}

// wrapRepoErr keeps categorized errors as they are and turns anything else
// into a persistence failure carrying the operation context.
func wrapRepoErr(op, entity string, id int64, err error) error {
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &domain.OperationError{Op: op, Entity: entity, ID: id, Err: err}
}

func routeKey(id int64) string { return "route:" + strconv.FormatInt(id, 10) }

func orderKey(id int64) string { return "order:" + strconv.FormatInt(id, 10) }

var _ ports.RouteService = (*RouteService)(nil)
