package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

var (
	_ ports.OrderRepository = (*Store)(nil)
	_ ports.RouteRepository = (*Store)(nil)
)

// Store is an in-memory persistence adapter for orders and routes.
// Values are cloned on the way in and out so callers never share state with the store.
type Store struct {
	mu          sync.RWMutex
	orders      map[int64]*domain.Order
	routes      map[int64]*domain.Route
	nextRouteID int64
}

func NewStore() *Store {
	return &Store{
		orders: map[int64]*domain.Order{},
		routes: map[int64]*domain.Route{},
	}
}

// SeedOrders inserts or replaces orders by id.
func (s *Store) SeedOrders(_ context.Context, orders []*domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		if o == nil {
			return errors.New("seed orders: order is nil")
		}
		s.orders[o.ID] = o.Clone()
	}
	return nil
}

// SeedRoutes inserts or replaces routes by id.
func (s *Store) SeedRoutes(_ context.Context, routes []*domain.Route) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range routes {
		if r == nil {
			return errors.New("seed routes: route is nil")
		}
		s.routes[r.ID] = r.Clone()
		if r.ID > s.nextRouteID {
			s.nextRouteID = r.ID
		}
	}
	return nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.NewNotFound("order", id)
	}
	return o.Clone(), nil
}

func (s *Store) ListOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Order, 0, len(s.orders))
	for _, o := range s.orders {
		list = append(list, o.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// ListRoutes returns routes newest first.
func (s *Store) ListRoutes(_ context.Context) ([]*domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Route, 0, len(s.routes))
	for _, r := range s.routes {
		list = append(list, r.Clone())
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

func (s *Store) UpdateOrderFields(_ context.Context, id int64, f ports.OrderFields) (*domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, domain.NewNotFound("order", id)
	}
	if f.ExpectedStatus != nil && o.Status != *f.ExpectedStatus {
		return nil, &domain.TransitionError{
			Entity:   "order",
			ID:       id,
			Action:   "update",
			Current:  string(o.Status),
			Required: []string{string(*f.ExpectedStatus)},
		}
	}

	next := o.Clone()
	if f.Status != nil {
		next.Status = *f.Status
	}
	if f.RouteID != nil {
		v := *f.RouteID
		next.RouteID = &v
	}
	if f.EstimatedDeliveryTime != nil {
		v := *f.EstimatedDeliveryTime
		next.EstimatedDeliveryTime = &v
	}
	if f.DeliverySequence != nil {
		v := *f.DeliverySequence
		next.DeliverySequence = &v
	}
	s.orders[id] = next
	return next.Clone(), nil
}

func (s *Store) GetRoute(_ context.Context, id int64) (*domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.routes[id]
	if !ok {
		return nil, domain.NewNotFound("route", id)
	}
	return r.Clone(), nil
}

func (s *Store) CreateRoute(_ context.Context, route *domain.Route) (*domain.Route, error) {
	if route == nil {
		return nil, errors.New("route is nil")
	}
	clone := route.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRouteID++
	clone.ID = s.nextRouteID
	s.routes[clone.ID] = clone
	return clone.Clone(), nil
}

func (s *Store) UpdateRouteFields(_ context.Context, id int64, f ports.RouteFields) (*domain.Route, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.routes[id]
	if !ok {
		return nil, domain.NewNotFound("route", id)
	}
	if f.ExpectedStatus != nil && r.Status != *f.ExpectedStatus {
		return nil, &domain.TransitionError{
			Entity:   "route",
			ID:       id,
			Action:   "update",
			Current:  string(r.Status),
			Required: []string{string(*f.ExpectedStatus)},
		}
	}

	next := r.Clone()
	if f.Status != nil {
		next.Status = *f.Status
	}
	if f.CurrentLocation != nil {
		v := *f.CurrentLocation
		next.CurrentLocation = &v
	}
	if f.StartTime != nil {
		v := *f.StartTime
		next.StartTime = &v
	}
	if f.EndTime != nil {
		v := *f.EndTime
		next.EndTime = &v
	}
	if f.LastUpdate != nil {
		v := *f.LastUpdate
		next.LastUpdate = &v
	}
	s.routes[id] = next
	return next.Clone(), nil
}
