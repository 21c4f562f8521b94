package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

const tracerName = "water-route-service/internal/adapters/observability/service"

// Service decorates the route service with tracing, logging, and metrics.
type Service struct {
	inner   ports.RouteService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core route service.
func New(inner ports.RouteService, opts ...Option) ports.RouteService {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Optimize(ctx context.Context, orderIDs []int64) (*domain.OptimizedRoute, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.Optimize",
		trace.WithAttributes(attribute.Int("route.candidates", len(orderIDs))))
	defer span.End()

	result, err := s.inner.Optimize(ctx, orderIDs)
	if err != nil {
		return nil, s.handleError(ctx, span, "optimize", err, "failed to optimize route", slog.Int("route.candidates", len(orderIDs)))
	}

	span.SetAttributes(
		attribute.Int("route.stops", len(result.Sequence)),
		attribute.Int("route.rejected", len(result.Rejected)),
		attribute.Float64("route.distance_km", result.TotalDistanceKm),
	)
	s.metrics.recordOptimized(ctx, result)
	s.logInfo(ctx, "route optimized",
		slog.Int("route.stops", len(result.Sequence)),
		slog.Int("route.rejected", len(result.Rejected)),
		slog.Float64("route.distance_km", result.TotalDistanceKm),
		slog.Int("route.duration_min", result.EstimatedDurationMinutes),
	)
	return result, nil
}

func (s *Service) PlanRoute(ctx context.Context, req ports.PlanRouteRequest) (*ports.PlanRouteResult, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.PlanRoute",
		trace.WithAttributes(attribute.Int("route.candidates", len(req.OrderIDs)), attribute.Int64("route.truck_id", req.TruckID)))
	defer span.End()

	result, err := s.inner.PlanRoute(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, span, "plan", err, "failed to plan route", slog.Int64("route.truck_id", req.TruckID))
	}

	span.SetAttributes(attribute.Int64("route.id", result.Route.ID))
	s.metrics.recordOptimized(ctx, result.Optimized)
	s.metrics.recordTransition(ctx, "plan")
	s.logInfo(ctx, "route planned", slog.Int64("route.id", result.Route.ID), slog.Int("route.stops", len(result.Route.DeliverySequence)))
	return result, nil
}

func (s *Service) GetRoute(ctx context.Context, routeID int64) (*domain.Route, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.GetRoute", trace.WithAttributes(attribute.Int64("route.id", routeID)))
	defer span.End()

	result, err := s.inner.GetRoute(ctx, routeID)
	if err != nil {
		return nil, s.handleError(ctx, span, "get", err, "failed to load route", slog.Int64("route.id", routeID))
	}
	return result, nil
}

func (s *Service) ListRoutes(ctx context.Context) ([]*domain.Route, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.ListRoutes")
	defer span.End()

	result, err := s.inner.ListRoutes(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, "list_routes", err, "failed to list routes")
	}
	span.SetAttributes(attribute.Int("route.count", len(result)))
	return result, nil
}

func (s *Service) ListPendingOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.ListPendingOrders")
	defer span.End()

	result, err := s.inner.ListPendingOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, "list_pending_orders", err, "failed to list pending orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) StartRoute(ctx context.Context, routeID int64, currentLocation string) (*ports.StartRouteResult, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.StartRoute", trace.WithAttributes(attribute.Int64("route.id", routeID)))
	defer span.End()

	result, err := s.inner.StartRoute(ctx, routeID, currentLocation)
	if err != nil {
		return nil, s.handleError(ctx, span, "start", err, "failed to start route", slog.Int64("route.id", routeID))
	}

	span.SetAttributes(attribute.Int("route.orders", len(result.Orders)))
	s.metrics.recordTransition(ctx, "start")
	s.logInfo(ctx, "route started", slog.Int64("route.id", routeID), slog.Int("route.orders", len(result.Orders)))
	return result, nil
}

func (s *Service) ReportLocation(ctx context.Context, routeID int64, currentLocation string) (*domain.Route, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.ReportLocation", trace.WithAttributes(attribute.Int64("route.id", routeID)))
	defer span.End()

	result, err := s.inner.ReportLocation(ctx, routeID, currentLocation)
	if err != nil {
		return nil, s.handleError(ctx, span, "report_location", err, "failed to record location", slog.Int64("route.id", routeID))
	}
	s.metrics.recordTransition(ctx, "report_location")
	return result, nil
}

func (s *Service) CompleteRoute(ctx context.Context, routeID int64, currentLocation string) (*domain.Route, error) {
	ctx, span := s.tracer.Start(ctx, "RouteService.CompleteRoute", trace.WithAttributes(attribute.Int64("route.id", routeID)))
	defer span.End()

	result, err := s.inner.CompleteRoute(ctx, routeID, currentLocation)
	if err != nil {
		return nil, s.handleError(ctx, span, "complete", err, "failed to complete route", slog.Int64("route.id", routeID))
	}
	s.metrics.recordTransition(ctx, "complete")
	s.logInfo(ctx, "route completed", slog.Int64("route.id", routeID))
	return result, nil
}

func (s *Service) MarkOrderInTransit(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orderTransition(ctx, "RouteService.MarkOrderInTransit", "in_transit", orderID, s.inner.MarkOrderInTransit)
}

func (s *Service) MarkOrderDelivered(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orderTransition(ctx, "RouteService.MarkOrderDelivered", "delivered", orderID, s.inner.MarkOrderDelivered)
}

func (s *Service) CancelOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	return s.orderTransition(ctx, "RouteService.CancelOrder", "cancel", orderID, s.inner.CancelOrder)
}

func (s *Service) orderTransition(
	ctx context.Context,
	spanName, action string,
	orderID int64,
	call func(context.Context, int64) (*domain.Order, error),
) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	result, err := call(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, "order_"+action, err, "failed to update order", slog.Int64("order.id", orderID))
	}
	s.metrics.recordOrderTransition(ctx, result.Status)
	s.logInfo(ctx, "order updated", slog.Int64("order.id", orderID), slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// handleError records err on the span. Caller mistakes are logged as warnings;
// anything else is an error.
func (s *Service) handleError(ctx context.Context, span trace.Span, op string, err error, msg string, attrs ...slog.Attr) error {
	kind := errorKind(err)
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", kind))
	}
	s.metrics.recordFailure(ctx, op, kind)

	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()), slog.String("error.kind", kind))
		level := slog.LevelWarn
		if kind == "persistence" || kind == "internal" {
			level = slog.LevelError
		}
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinateFormat):
		return "invalid_coordinates"
	case errors.Is(err, domain.ErrNoValidStops):
		return "no_valid_stops"
	case errors.Is(err, domain.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ports.ErrLockBusy):
		return "busy"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}

type serviceMetrics struct {
	routesOptimized  metric.Int64Counter
	routeDistance    metric.Float64Histogram
	routeTransitions metric.Int64Counter
	orderTransitions metric.Int64Counter
	failures         metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	routesOptimized, _ := m.Int64Counter("routing.service.routes_optimized", metric.WithDescription("Number of routes sequenced"))
	routeDistance, _ := m.Float64Histogram("routing.service.route_distance", metric.WithDescription("Total distance of sequenced routes"), metric.WithUnit("km"))
	routeTransitions, _ := m.Int64Counter("routing.service.route_transitions", metric.WithDescription("Route lifecycle operations applied"))
	orderTransitions, _ := m.Int64Counter("routing.service.order_transitions", metric.WithDescription("Order status changes applied"))
	failures, _ := m.Int64Counter("routing.service.failures", metric.WithDescription("Failed service calls by kind"))
	return serviceMetrics{
		routesOptimized:  routesOptimized,
		routeDistance:    routeDistance,
		routeTransitions: routeTransitions,
		orderTransitions: orderTransitions,
		failures:         failures,
	}
}

func (m serviceMetrics) recordOptimized(ctx context.Context, r *domain.OptimizedRoute) {
	if m.routesOptimized != nil {
		m.routesOptimized.Add(ctx, 1)
	}
	if m.routeDistance != nil && r != nil {
		m.routeDistance.Record(ctx, r.TotalDistanceKm)
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, action string) {
	if m.routeTransitions != nil {
		m.routeTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("route.action", action)))
	}
}

func (m serviceMetrics) recordOrderTransition(ctx context.Context, status domain.OrderStatus) {
	if m.orderTransitions != nil {
		m.orderTransitions.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op, kind string) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op), attribute.String("error.kind", kind)))
	}
}

var _ ports.RouteService = (*Service)(nil)
