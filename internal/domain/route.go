package domain

import (
	"fmt"
	"math"
	"time"
)

// RoutingParams are the process-wide planning constants.
// They are fixed at start-up and never mutated afterwards.
type RoutingParams struct {
	Depot               Coordinates
	AverageSpeedKmh     float64
	ServiceMinutes      int
	InterStopGapMinutes int
}

// DefaultDepot is the Santo Domingo dispatch origin.
var DefaultDepot = Coordinates{Lat: 18.4955, Lon: -69.8734}

func DefaultRoutingParams() RoutingParams {
	return RoutingParams{
		Depot:               DefaultDepot,
		AverageSpeedKmh:     30,
		ServiceMinutes:      10,
		InterStopGapMinutes: 15,
	}
}

// Validate rejects parameters that would make durations or ETAs meaningless.
// Consecutive stops must be at least one minute apart so ETAs strictly increase.
func (p RoutingParams) Validate() error {
	if p.AverageSpeedKmh <= 0 || math.IsNaN(p.AverageSpeedKmh) || math.IsInf(p.AverageSpeedKmh, 0) {
		return fmt.Errorf("average speed must be positive, got %v", p.AverageSpeedKmh)
	}
	if p.ServiceMinutes < 0 {
		return fmt.Errorf("service minutes must not be negative, got %d", p.ServiceMinutes)
	}
	if p.InterStopGapMinutes < 0 {
		return fmt.Errorf("inter-stop gap minutes must not be negative, got %d", p.InterStopGapMinutes)
	}
	if p.ServiceMinutes+p.InterStopGapMinutes <= 0 {
		return fmt.Errorf("service minutes plus inter-stop gap must be positive, got %d+%d",
			p.ServiceMinutes, p.InterStopGapMinutes)
	}
	if err := p.Depot.Validate(); err != nil {
		return fmt.Errorf("depot: %w", err)
	}
	return nil
}

// Represents a single stop in a computed route.
// Sequence starts at 1; position 0 is the depot departure and is never materialized.
type RouteStop struct {
	Sequence       int
	OrderID        int64
	Point          DeliveryPoint
	ServiceMinutes int
}

// RejectedStop is an order that could not be placed on the route.
type RejectedStop struct {
	OrderID int64
	Reason  error
}

// Represents the output of the route builder.
// It is immutable planning data and contains no side effects.
type OptimizedRoute struct {
	Sequence                 []int64
	TotalDistanceKm          float64
	EstimatedDurationMinutes int
	Stops                    []RouteStop
	Rejected                 []RejectedStop
}

type RouteStatus string

const (
	RouteStatusPending    RouteStatus = "pending"
	RouteStatusInProgress RouteStatus = "in_progress"
	RouteStatusCompleted  RouteStatus = "completed"
)

// Route is the persisted delivery route for one truck and crew.
// DeliverySequence is written once when the route is planned.
type Route struct {
	ID               int64
	Name             string
	DriverID         int64
	AssistantID      *int64
	TruckID          int64
	Status           RouteStatus
	Date             time.Time
	DeliverySequence []int64
	CurrentLocation  *string
	StartTime        *time.Time
	EndTime          *time.Time
	LastUpdate       *time.Time
}

// Clone returns a deep copy so transitions can be attempted without touching the original.
func (r *Route) Clone() *Route {
	c := *r
	c.DeliverySequence = append([]int64(nil), r.DeliverySequence...)
	c.AssistantID = clonePtr(r.AssistantID)
	c.CurrentLocation = clonePtr(r.CurrentLocation)
	c.StartTime = clonePtr(r.StartTime)
	c.EndTime = clonePtr(r.EndTime)
	c.LastUpdate = clonePtr(r.LastUpdate)
	return &c
}

// Start moves a pending route into progress.
func (r *Route) Start(now time.Time, location string) error {
	if err := r.require("start", RouteStatusPending); err != nil {
		return err
	}
	c, err := ParseCoordinates(location)
	if err != nil {
		return err
	}

	r.Status = RouteStatusInProgress
	if r.StartTime == nil {
		r.StartTime = &now
	}
	r.track(now, c)
	return nil
}

// ReportLocation records a progress update. ETAs are not recomputed here.
func (r *Route) ReportLocation(now time.Time, location string) error {
	if err := r.require("report location", RouteStatusInProgress); err != nil {
		return err
	}
	c, err := ParseCoordinates(location)
	if err != nil {
		return err
	}

	r.track(now, c)
	return nil
}

// Complete closes a route that is in progress.
func (r *Route) Complete(now time.Time, location string) error {
	if err := r.require("complete", RouteStatusInProgress); err != nil {
		return err
	}
	c, err := ParseCoordinates(location)
	if err != nil {
		return err
	}

	r.Status = RouteStatusCompleted
	r.EndTime = &now
	r.track(now, c)
	return nil
}

// track stores the location in its canonical "<lat>,<lng>" form.
func (r *Route) track(now time.Time, c Coordinates) {
	location := c.String()
	r.CurrentLocation = &location
	r.LastUpdate = &now
}

func (r *Route) require(action string, status RouteStatus) error {
	if r.Status != status {
		return &TransitionError{
			Entity:   "route",
			ID:       r.ID,
			Action:   action,
			Current:  string(r.Status),
			Required: []string{string(status)},
		}
	}
	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
