package distance

import (
	"fmt"

	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

var _ ports.DistanceProvider = (*MockDistanceProvider)(nil)

type MockPair struct {
	From, To domain.Coordinates
	Km       float64
}

// MockDistanceProvider serves a fixed, symmetric distance table.
// Pairs that were not registered panic so tests fail loudly.
type MockDistanceProvider struct {
	m map[string]float64
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]float64, 2*len(pairs))
	for _, p := range pairs {
		m[key(p.From, p.To)] = p.Km
		m[key(p.To, p.From)] = p.Km
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) DistanceKm(a, b domain.Coordinates) float64 {
	if a == b {
		return 0
	}
	km, ok := p.m[key(a, b)]
	if !ok {
		panic(fmt.Sprintf("missing pair %q -> %q", a, b))
	}
	return km
}

func key(a, b domain.Coordinates) string {
	return a.String() + "|" + b.String()
}
