package dto

import "time"

type OptimizeRequest struct {
	OrderIDs []int64 `json:"orderIds" binding:"required"`
}

type StopResponse struct {
	Sequence             int     `json:"sequence"`
	OrderID              int64   `json:"orderId"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	EstimatedTimeMinutes int     `json:"estimatedTimeMinutes"`
}

type RejectedStopResponse struct {
	OrderID int64  `json:"orderId"`
	Reason  string `json:"reason"`
}

type OptimizeResponse struct {
	Sequence                 []int64                `json:"sequence"`
	TotalDistanceKm          float64                `json:"totalDistanceKm"`
	EstimatedDurationMinutes int                    `json:"estimatedDurationMinutes"`
	Stops                    []StopResponse         `json:"stops"`
	Rejected                 []RejectedStopResponse `json:"rejected"`
}

type PlanRouteRequest struct {
	Name        string  `json:"name" binding:"required"`
	DriverID    int64   `json:"driverId" binding:"required"`
	AssistantID *int64  `json:"assistantId"`
	TruckID     int64   `json:"truckId" binding:"required"`
	Date        string  `json:"date"`
	OrderIDs    []int64 `json:"orderIds" binding:"required"`
}

type PlanRouteResponse struct {
	Route        RouteResponse    `json:"route"`
	Optimization OptimizeResponse `json:"optimization"`
}

type LocationRequest struct {
	CurrentLocation string `json:"currentLocation" binding:"required"`
}

type RouteResponse struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	DriverID         int64      `json:"driverId"`
	AssistantID      *int64     `json:"assistantId"`
	TruckID          int64      `json:"truckId"`
	Status           string     `json:"status"`
	Date             string     `json:"date"`
	DeliverySequence []int64    `json:"deliverySequence"`
	CurrentLocation  *string    `json:"currentLocation"`
	StartTime        *time.Time `json:"startTime"`
	EndTime          *time.Time `json:"endTime"`
	LastUpdate       *time.Time `json:"lastUpdate"`
}

type StartRouteResponse struct {
	Route  RouteResponse   `json:"route"`
	Orders []OrderResponse `json:"orders"`
}
