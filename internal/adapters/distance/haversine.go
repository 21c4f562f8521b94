package distance

import (
	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

var _ ports.DistanceProvider = Haversine{}

// Haversine measures great-circle distance. It is the production provider.
type Haversine struct{}

func (Haversine) DistanceKm(a, b domain.Coordinates) float64 {
	return domain.DistanceKm(a, b)
}
