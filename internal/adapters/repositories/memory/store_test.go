package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"water-route-service/internal/domain"
	"water-route-service/internal/ports"
)

func TestStoreOrdersAreCloned(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	coords := "18.5,-69.9"
	require.NoError(t, s.SeedOrders(ctx, []*domain.Order{{ID: 7, Status: domain.OrderStatusPending, DeliveryCoordinates: &coords}}))

	got, err := s.GetOrder(ctx, 7)
	require.NoError(t, err)
	*got.DeliveryCoordinates = "0,0"
	got.Status = domain.OrderStatusCancelled

	again, err := s.GetOrder(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "18.5,-69.9", *again.DeliveryCoordinates)
	assert.Equal(t, domain.OrderStatusPending, again.Status)
}

func TestStoreMissingEntities(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	_, err := s.GetOrder(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = s.GetRoute(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	status := domain.RouteStatusInProgress
	_, err = s.UpdateRouteFields(ctx, 1, ports.RouteFields{Status: &status})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreUpdateOrderFields(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SeedOrders(ctx, []*domain.Order{{ID: 1, Status: domain.OrderStatusPending}}))

	eta := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	seq := 2
	routeID := int64(4)
	got, err := s.UpdateOrderFields(ctx, 1, ports.OrderFields{
		RouteID:               &routeID,
		EstimatedDeliveryTime: &eta,
		DeliverySequence:      &seq,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
	assert.Equal(t, eta, *got.EstimatedDeliveryTime)
	assert.Equal(t, 2, *got.DeliverySequence)
	assert.Equal(t, int64(4), *got.RouteID)

	expected := domain.OrderStatusInTransit
	next := domain.OrderStatusDelivered
	_, err = s.UpdateOrderFields(ctx, 1, ports.OrderFields{Status: &next, ExpectedStatus: &expected})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	stored, err := s.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
}

func TestStoreRouteCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	created, err := s.CreateRoute(ctx, &domain.Route{Name: "north", Status: domain.RouteStatusPending, DeliverySequence: []int64{2, 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	pending := domain.RouteStatusPending
	inProgress := domain.RouteStatusInProgress
	loc := "18.5,-69.9"

	updated, err := s.UpdateRouteFields(ctx, created.ID, ports.RouteFields{
		Status:          &inProgress,
		CurrentLocation: &loc,
		ExpectedStatus:  &pending,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteStatusInProgress, updated.Status)
	assert.Equal(t, loc, *updated.CurrentLocation)

	// A second writer that read the route while it was still pending loses.
	_, err = s.UpdateRouteFields(ctx, created.ID, ports.RouteFields{Status: &inProgress, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
