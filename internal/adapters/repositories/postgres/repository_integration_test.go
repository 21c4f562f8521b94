//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"water-route-service/internal/domain"
	"water-route-service/internal/platform/db"
	"water-route-service/internal/ports"
)

func setupRoutePostgresContainer(t *testing.T) (*Repository, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("water_routes_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	sqlDB, err := db.Open(ctx, dsn)
	require.NoError(t, err)

	gdb, err := db.OpenGorm(sqlDB)
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, gdb))

	cleanup := func() {
		_ = sqlDB.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return NewRepository(gdb), cleanup
}

func strp(s string) *string { return &s }

func TestRepository_OrderFields(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo, cleanup := setupRoutePostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SeedOrders(ctx, []*domain.Order{
		{ID: 1, CustomerID: 10, Status: domain.OrderStatusPending, DeliveryCoordinates: strp("18.5,-69.9")},
		{ID: 2, CustomerID: 11, Status: domain.OrderStatusPending},
	}))

	list, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Nil(t, list[1].DeliveryCoordinates)

	eta := time.Date(2026, 5, 4, 8, 25, 0, 0, time.UTC)
	seq := 2
	updated, err := repo.UpdateOrderFields(ctx, 1, ports.OrderFields{EstimatedDeliveryTime: &eta, DeliverySequence: &seq})
	require.NoError(t, err)
	assert.True(t, eta.Equal(*updated.EstimatedDeliveryTime))
	assert.Equal(t, 2, *updated.DeliverySequence)

	pending := domain.OrderStatusPending
	inTransit := domain.OrderStatusInTransit
	_, err = repo.UpdateOrderFields(ctx, 1, ports.OrderFields{Status: &inTransit, ExpectedStatus: &pending})
	require.NoError(t, err)

	_, err = repo.UpdateOrderFields(ctx, 1, ports.OrderFields{Status: &inTransit, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = repo.GetOrder(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRepository_RouteLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	repo, cleanup := setupRoutePostgresContainer(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, repo.SeedRoutes(ctx, []*domain.Route{{
		ID: 5, Name: "seeded", DriverID: 1, TruckID: 1, Status: domain.RouteStatusPending,
		Date: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), DeliverySequence: []int64{3, 1},
	}}))

	created, err := repo.CreateRoute(ctx, &domain.Route{
		Name: "east", DriverID: 2, TruckID: 3, Status: domain.RouteStatusPending,
		Date: time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), DeliverySequence: []int64{7, 8, 9},
	})
	require.NoError(t, err)
	assert.Greater(t, created.ID, int64(5))

	got, err := repo.GetRoute(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{7, 8, 9}, got.DeliverySequence)

	listed, err := repo.ListRoutes(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, int64(5), listed[1].ID)

	pending := domain.RouteStatusPending
	inProgress := domain.RouteStatusInProgress
	now := time.Now().UTC().Truncate(time.Microsecond)
	loc := "18.5,-69.9"
	started, err := repo.UpdateRouteFields(ctx, created.ID, ports.RouteFields{
		Status: &inProgress, CurrentLocation: &loc, StartTime: &now, LastUpdate: &now, ExpectedStatus: &pending,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RouteStatusInProgress, started.Status)
	assert.Equal(t, loc, *started.CurrentLocation)

	_, err = repo.UpdateRouteFields(ctx, created.ID, ports.RouteFields{Status: &inProgress, ExpectedStatus: &pending})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
