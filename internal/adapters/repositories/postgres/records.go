package postgres

import (
	"time"

	"github.com/lib/pq"

	"water-route-service/internal/domain"
)

// orderRecord maps the routing view of an order to the orders table.
type orderRecord struct {
	ID                    int64      `gorm:"primaryKey;column:id"`
	CustomerID            int64      `gorm:"column:customer_id;index"`
	RouteID               *int64     `gorm:"column:route_id;index"`
	Status                string     `gorm:"column:status;type:varchar(32);not null;index"`
	DeliveryCoordinates   *string    `gorm:"column:delivery_coordinates;type:varchar(64)"`
	EstimatedDeliveryTime *time.Time `gorm:"column:estimated_delivery_time"`
	DeliverySequence      *int       `gorm:"column:delivery_sequence"`
	CreatedAt             time.Time  `gorm:"column:created_at"`
	UpdatedAt             time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// routeRecord keeps the visit order in a bigint[] column.
type routeRecord struct {
	ID               int64         `gorm:"primaryKey;column:id"`
	Name             string        `gorm:"column:name;type:varchar(128);not null"`
	DriverID         int64         `gorm:"column:driver_id;index"`
	AssistantID      *int64        `gorm:"column:assistant_id"`
	TruckID          int64         `gorm:"column:truck_id;index"`
	Status           string        `gorm:"column:status;type:varchar(32);not null;index"`
	Date             time.Time     `gorm:"column:date;type:date"`
	DeliverySequence pq.Int64Array `gorm:"column:delivery_sequence;type:bigint[]"`
	CurrentLocation  *string       `gorm:"column:current_location;type:varchar(64)"`
	StartTime        *time.Time    `gorm:"column:start_time"`
	EndTime          *time.Time    `gorm:"column:end_time"`
	LastUpdate       *time.Time    `gorm:"column:last_update"`
	CreatedAt        time.Time     `gorm:"column:created_at"`
	UpdatedAt        time.Time     `gorm:"column:updated_at"`
}

func (routeRecord) TableName() string { return "routes" }

func toOrderRecord(o *domain.Order) orderRecord {
	return orderRecord{
		ID:                    o.ID,
		CustomerID:            o.CustomerID,
		RouteID:               o.RouteID,
		Status:                string(o.Status),
		DeliveryCoordinates:   o.DeliveryCoordinates,
		EstimatedDeliveryTime: o.EstimatedDeliveryTime,
		DeliverySequence:      o.DeliverySequence,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:                    r.ID,
		CustomerID:            r.CustomerID,
		RouteID:               r.RouteID,
		Status:                domain.OrderStatus(r.Status),
		DeliveryCoordinates:   r.DeliveryCoordinates,
		EstimatedDeliveryTime: r.EstimatedDeliveryTime,
		DeliverySequence:      r.DeliverySequence,
	}
}

func toRouteRecord(r *domain.Route) routeRecord {
	return routeRecord{
		ID:               r.ID,
		Name:             r.Name,
		DriverID:         r.DriverID,
		AssistantID:      r.AssistantID,
		TruckID:          r.TruckID,
		Status:           string(r.Status),
		Date:             r.Date,
		DeliverySequence: pq.Int64Array(append([]int64(nil), r.DeliverySequence...)),
		CurrentLocation:  r.CurrentLocation,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		LastUpdate:       r.LastUpdate,
	}
}

func (r routeRecord) toDomain() *domain.Route {
	return &domain.Route{
		ID:               r.ID,
		Name:             r.Name,
		DriverID:         r.DriverID,
		AssistantID:      r.AssistantID,
		TruckID:          r.TruckID,
		Status:           domain.RouteStatus(r.Status),
		Date:             r.Date,
		DeliverySequence: []int64(r.DeliverySequence),
		CurrentLocation:  r.CurrentLocation,
		StartTime:        r.StartTime,
		EndTime:          r.EndTime,
		LastUpdate:       r.LastUpdate,
	}
}
