package services

import (
	"context"
	"errors"
	"fmt"
	"math"

	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

// StopCandidate is an order offered to the route builder.
type StopCandidate struct {
	OrderID     int64
	Coordinates *string
}

// RouteBuilder sequences delivery stops around a fixed depot.
type RouteBuilder struct {
	params    domain.RoutingParams
	distances ports.DistanceProvider
}

func NewRouteBuilder(params domain.RoutingParams, distances ports.DistanceProvider) (*RouteBuilder, error) {
	if distances == nil {
		return nil, errors.New("new route builder: distance provider is nil")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("new route builder: %w", err)
	}

	return &RouteBuilder{params: params, distances: distances}, nil
}

// Build plans a route using a greedy nearest-neighbor algorithm.
//
// Candidates without parseable coordinates are reported in Rejected instead of
// failing the batch; ErrNoValidStops is returned only when none remain.
// The algorithm always moves to the closest unvisited stop. It does not attempt
// global optimization. Ties go to the stop that appeared first in the input,
// so identical input always yields identical output.
func (b *RouteBuilder) Build(ctx context.Context, candidates []StopCandidate) (*domain.OptimizedRoute, error) {
	stops := make([]domain.DeliveryPoint, 0, len(candidates))
	rejected := []domain.RejectedStop{}
	for _, c := range candidates {
		p, err := domain.NewDeliveryPoint(c.OrderID, c.Coordinates)
		if err != nil {
			rejected = append(rejected, domain.RejectedStop{OrderID: c.OrderID, Reason: err})
			continue
		}
		stops = append(stops, p)
	}

	if len(stops) == 0 {
		return nil, fmt.Errorf("build route: %d candidate(s), none with valid coordinates: %w", len(candidates), domain.ErrNoValidStops)
	}

	// Index 0 is the depot departure, 1..n the stops, n+1 the depot return.
	n := len(stops)
	points := make([]domain.Coordinates, 0, n+2)
	points = append(points, b.params.Depot)
	for _, s := range stops {
		points = append(points, s.Coordinates)
	}
	points = append(points, b.params.Depot)

	dist, err := buildDistanceMatrix(ctx, points, b.distances)
	if err != nil {
		return nil, fmt.Errorf("build route: %w", err)
	}

	visited := make([]bool, n+2)
	visited[0] = true
	current := 0
	totalKm := 0.0

	order := make([]int, 0, n)
	for len(order) < n {
		best := -1
		minKm := math.Inf(1)

		// Select next stop by minimum distance (greedy step).
		// Strict comparison keeps the earliest input on ties.
		for i := 1; i <= n; i++ {
			if visited[i] {
				continue
			}
			if dist[current][i] < minKm {
				minKm = dist[current][i]
				best = i
			}
		}

		if best == -1 {
			return nil, errors.New("build route: failed to select next stop")
		}

		visited[best] = true
		totalKm += minKm
		order = append(order, best)
		current = best
	}

	// Return leg to the depot counts towards the route metrics.
	totalKm += dist[current][n+1]

	result := &domain.OptimizedRoute{
		Sequence: make([]int64, 0, n),
		Stops:    make([]domain.RouteStop, 0, n),
		Rejected: rejected,
	}
	for i, idx := range order {
		stop := stops[idx-1]
		result.Sequence = append(result.Sequence, stop.OrderID)
		result.Stops = append(result.Stops, domain.RouteStop{
			Sequence:       i + 1,
			OrderID:        stop.OrderID,
			Point:          stop,
			ServiceMinutes: b.params.ServiceMinutes,
		})
	}

	travelMinutes := int(math.Ceil(totalKm / b.params.AverageSpeedKmh * 60))
	result.EstimatedDurationMinutes = travelMinutes + n*b.params.ServiceMinutes
	result.TotalDistanceKm = math.Round(totalKm*100) / 100

	return result, nil
}
