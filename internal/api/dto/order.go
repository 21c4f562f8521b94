package dto

import "time"

type OrderResponse struct {
	ID                    int64      `json:"id"`
	CustomerID            int64      `json:"customerId"`
	RouteID               *int64     `json:"routeId"`
	Status                string     `json:"status"`
	DeliveryCoordinates   *string    `json:"deliveryCoordinates"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime"`
	DeliverySequence      *int       `json:"deliverySequence"`
}
