package ports

import "water-route-service/internal/domain"

// Contract for measuring the travel distance between two points.
// Implementations must be pure: the same pair always yields the same value,
// and the value must not depend on argument order.
type DistanceProvider interface {
	// Return the distance in kilometers between a and b.
	DistanceKm(a, b domain.Coordinates) float64
}
