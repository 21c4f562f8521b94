package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"water-route-service/internal/adapters/repositories/memory"
	"water-route-service/internal/domain"
)

func writeSeed(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestSeedFromJSON(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := SeedFromJSON(ctx, store, writeSeed(t, `{
		"orders": [
			{"id": 1, "customer_id": 5, "delivery_coordinates": "18.5,-69.9"},
			{"id": 2, "customer_id": 6, "status": "cancelled", "delivery_coordinates": null}
		],
		"routes": [
			{"id": 9, "name": "west", "driver_id": 1, "truck_id": 1, "date": "2026-05-04", "delivery_sequence": [1]}
		]
	}`))
	require.NoError(t, err)

	o, err := store.GetOrder(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.Equal(t, "18.5,-69.9", *o.DeliveryCoordinates)

	o, err = store.GetOrder(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, o.Status)
	assert.Nil(t, o.DeliveryCoordinates)

	r, err := store.GetRoute(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, domain.RouteStatusPending, r.Status)
	assert.Equal(t, []int64{1}, r.DeliverySequence)

	// New routes are numbered after the seeded ones.
	created, err := store.CreateRoute(ctx, &domain.Route{Name: "next"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
}

func TestSeedFromJSONRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"bad json":       `{"orders": [`,
		"bad order id":   `{"orders": [{"id": 0}]}`,
		"unknown status": `{"orders": [{"id": 1, "status": "lost"}]}`,
		"empty name":     `{"routes": [{"id": 1, "name": " ", "date": "2026-05-04"}]}`,
		"bad date":       `{"routes": [{"id": 1, "name": "a", "date": "04/05/2026"}]}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			store := memory.NewStore()
			err := SeedFromJSON(context.Background(), store, writeSeed(t, body))
			assert.Error(t, err)

			list, listErr := store.ListOrders(context.Background())
			require.NoError(t, listErr)
			assert.Empty(t, list)
		})
	}
}

func TestSeedFromJSONMissingFile(t *testing.T) {
	err := SeedFromJSON(context.Background(), memory.NewStore(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestSeedFromJSONBundledFile(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, SeedFromJSON(context.Background(), store, filepath.Join("..", "..", "..", "data", "seeds", "orders.json")))

	list, err := store.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 8)
}
