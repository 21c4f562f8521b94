package dto

import (
	"time"

	"water-route-service/internal/domain"
)

func FromOptimizedRoute(r *domain.OptimizedRoute) OptimizeResponse {
	res := OptimizeResponse{
		Sequence:                 append([]int64{}, r.Sequence...),
		TotalDistanceKm:          r.TotalDistanceKm,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		Stops:                    make([]StopResponse, 0, len(r.Stops)),
		Rejected:                 make([]RejectedStopResponse, 0, len(r.Rejected)),
	}
	for _, s := range r.Stops {
		res.Stops = append(res.Stops, StopResponse{
			Sequence:             s.Sequence,
			OrderID:              s.OrderID,
			Latitude:             s.Point.Lat,
			Longitude:            s.Point.Lon,
			EstimatedTimeMinutes: s.ServiceMinutes,
		})
	}
	for _, rj := range r.Rejected {
		res.Rejected = append(res.Rejected, RejectedStopResponse{OrderID: rj.OrderID, Reason: rj.Reason.Error()})
	}
	return res
}

func FromRoute(r *domain.Route) RouteResponse {
	return RouteResponse{
		ID:               r.ID,
		Name:             r.Name,
		DriverID:         r.DriverID,
		AssistantID:      r.AssistantID,
		TruckID:          r.TruckID,
		Status:           string(r.Status),
		Date:             r.Date.Format(time.DateOnly),
		DeliverySequence: append([]int64{}, r.DeliverySequence...),
		CurrentLocation:  r.CurrentLocation,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		LastUpdate:       r.LastUpdate,
	}
}

func FromOrder(o *domain.Order) OrderResponse {
	return OrderResponse{
		ID:                    o.ID,
		CustomerID:            o.CustomerID,
		RouteID:               o.RouteID,
		Status:                string(o.Status),
		DeliveryCoordinates:   o.DeliveryCoordinates,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		DeliverySequence:      o.DeliverySequence,
	}
}

func FromRoutes(routes []*domain.Route) []RouteResponse {
	out := make([]RouteResponse, 0, len(routes))
	for _, r := range routes {
		out = append(out, FromRoute(r))
	}
	return out
}

func FromOrders(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, FromOrder(o))
	}
	return out
}
