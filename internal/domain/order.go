package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Represents a customer order as far as routing is concerned.
// EstimatedDeliveryTime and DeliverySequence are proposed by the routing core;
// everything else is owned by the order CRUD.
type Order struct {
	ID                    int64
	CustomerID            int64
	RouteID               *int64
	Status                OrderStatus
	DeliveryCoordinates   *string
	EstimatedDeliveryTime *time.Time
	DeliverySequence      *int
}

// Terminal reports whether no further transitions are possible.
func (o *Order) Terminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

func (o *Order) MarkInTransit() error {
	return o.transition("mark in transit", OrderStatusInTransit, OrderStatusPending)
}

func (o *Order) MarkDelivered() error {
	return o.transition("mark delivered", OrderStatusDelivered, OrderStatusInTransit)
}

func (o *Order) Cancel() error {
	return o.transition("cancel", OrderStatusCancelled, OrderStatusPending, OrderStatusInTransit)
}

func (o *Order) transition(action string, to OrderStatus, from ...OrderStatus) error {
	for _, s := range from {
		if o.Status == s {
			o.Status = to
			return nil
		}
	}

	required := make([]string, 0, len(from))
	for _, s := range from {
		required = append(required, string(s))
	}
	return &TransitionError{
		Entity:   "order",
		ID:       o.ID,
		Action:   action,
		Current:  string(o.Status),
		Required: required,
	}
}

func (o *Order) Clone() *Order {
	c := *o
	c.RouteID = clonePtr(o.RouteID)
	c.DeliveryCoordinates = clonePtr(o.DeliveryCoordinates)
	c.EstimatedDeliveryTime = clonePtr(o.EstimatedDeliveryTime)
	c.DeliverySequence = clonePtr(o.DeliverySequence)
	return &c
}
