package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"water-route-service/internal/domain"
)

// SeedTarget is implemented by every repository that can be bulk-loaded.
// Rows are inserted or replaced by id.
type SeedTarget interface {
	SeedOrders(ctx context.Context, orders []*domain.Order) error
	SeedRoutes(ctx context.Context, routes []*domain.Route) error
}

type OrderSeed struct {
	ID                  int64   `json:"id"`
	CustomerID          int64   `json:"customer_id"`
	Status              string  `json:"status"`
	DeliveryCoordinates *string `json:"delivery_coordinates"`
}

type RouteSeed struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	DriverID         int64   `json:"driver_id"`
	AssistantID      *int64  `json:"assistant_id"`
	TruckID          int64   `json:"truck_id"`
	Date             string  `json:"date"`
	DeliverySequence []int64 `json:"delivery_sequence"`
}

type SeedFile struct {
	Orders []OrderSeed `json:"orders"`
	Routes []RouteSeed `json:"routes"`
}

// Populate the store with demo orders and pending routes from a JSON file.
// Order coordinates are stored as given, so malformed values can be used to
// exercise the optimizer's rejection path.
func SeedFromJSON(ctx context.Context, target SeedTarget, jsonPath string) error {
	if target == nil {
		return errors.New("seed: target is nil")
	}

	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed: read %q: %w", jsonPath, err)
	}

	var data SeedFile
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed: parse json: %w", err)
	}

	orders, err := buildOrders(data.Orders)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	routes, err := buildRoutes(data.Routes)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	if err := target.SeedOrders(ctx, orders); err != nil {
		return fmt.Errorf("seed: insert orders: %w", err)
	}
	if err := target.SeedRoutes(ctx, routes); err != nil {
		return fmt.Errorf("seed: insert routes: %w", err)
	}

	return nil
}

func buildOrders(items []OrderSeed) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(items))
	for i, item := range items {
		if item.ID <= 0 {
			return nil, fmt.Errorf("order at index %d: invalid id %d", i+1, item.ID)
		}

		status := domain.OrderStatus(strings.TrimSpace(item.Status))
		switch status {
		case "":
			status = domain.OrderStatusPending
		case domain.OrderStatusPending, domain.OrderStatusInTransit, domain.OrderStatusDelivered, domain.OrderStatusCancelled:
		default:
			return nil, fmt.Errorf("order %d: unknown status %q", item.ID, item.Status)
		}

		orders = append(orders, &domain.Order{
			ID:                  item.ID,
			CustomerID:          item.CustomerID,
			Status:              status,
			DeliveryCoordinates: item.DeliveryCoordinates,
		})
	}
	return orders, nil
}

func buildRoutes(items []RouteSeed) ([]*domain.Route, error) {
	routes := make([]*domain.Route, 0, len(items))
	for i, item := range items {
		if item.ID <= 0 {
			return nil, fmt.Errorf("route at index %d: invalid id %d", i+1, item.ID)
		}

		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("route %d: name cannot be empty", item.ID)
		}

		date, err := time.Parse(time.DateOnly, item.Date)
		if err != nil {
			return nil, fmt.Errorf("route %d: date %q: %w", item.ID, item.Date, err)
		}

		routes = append(routes, &domain.Route{
			ID:               item.ID,
			Name:             name,
			DriverID:         item.DriverID,
			AssistantID:      item.AssistantID,
			TruckID:          item.TruckID,
			Status:           domain.RouteStatusPending,
			Date:             date,
			DeliverySequence: item.DeliverySequence,
		})
	}
	return routes, nil
}
