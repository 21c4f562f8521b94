package domain

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestRouteLifecycle(t *testing.T) {
	route := &Route{ID: 7, Status: RouteStatusPending, DeliverySequence: []int64{1, 2}}
	startAt := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	if err := route.Start(startAt, "18.5,-69.9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Status != RouteStatusInProgress {
		t.Fatalf("status = %q, want %q", route.Status, RouteStatusInProgress)
	}
	if route.StartTime == nil || !route.StartTime.Equal(startAt) {
		t.Fatalf("start time = %v, want %v", route.StartTime, startAt)
	}

	moveAt := startAt.Add(20 * time.Minute)
	if err := route.ReportLocation(moveAt, "18.45,-69.88"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *route.CurrentLocation != "18.45,-69.88" || !route.LastUpdate.Equal(moveAt) {
		t.Fatalf("location not tracked: %v at %v", *route.CurrentLocation, route.LastUpdate)
	}
	if !route.StartTime.Equal(startAt) {
		t.Fatalf("start time changed by location report: %v", route.StartTime)
	}

	endAt := moveAt.Add(time.Hour)
	if err := route.Complete(endAt, "18.4955,-69.8734"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if route.Status != RouteStatusCompleted || route.EndTime == nil || !route.EndTime.Equal(endAt) {
		t.Fatalf("route not completed: status=%q end=%v", route.Status, route.EndTime)
	}
}

func TestRouteStoresCanonicalLocation(t *testing.T) {
	route := &Route{ID: 3, Status: RouteStatusPending}
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	if err := route.Start(now, " 18.50 , -69.90 "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *route.CurrentLocation; got != "18.5,-69.9" {
		t.Fatalf("location = %q, want %q", got, "18.5,-69.9")
	}

	if err := route.Complete(now.Add(time.Hour), "18.4955 ,-69.8734"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := *route.CurrentLocation; got != "18.4955,-69.8734" {
		t.Fatalf("location = %q, want %q", got, "18.4955,-69.8734")
	}
}

func TestRouteStartTwice(t *testing.T) {
	route := &Route{ID: 1, Status: RouteStatusPending}
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	if err := route.Start(now, "18.5,-69.9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before := route.Clone()
	err := route.Start(now.Add(time.Minute), "18.6,-69.9")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	var te *TransitionError
	if !errors.As(err, &te) || te.Current != string(RouteStatusInProgress) || te.Action != "start" {
		t.Fatalf("unexpected transition error: %#v", err)
	}
	if !reflect.DeepEqual(before, route) {
		t.Fatalf("route mutated by rejected start: %+v", route)
	}
}

func TestRouteRejectedTransitionsLeaveStateUnchanged(t *testing.T) {
	now := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	pending := &Route{ID: 2, Status: RouteStatusPending}
	before := pending.Clone()
	if err := pending.ReportLocation(now, "18.5,-69.9"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("report on pending: err = %v", err)
	}
	if err := pending.Complete(now, "18.5,-69.9"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete on pending: err = %v", err)
	}
	if !reflect.DeepEqual(before, pending) {
		t.Fatalf("pending route mutated: %+v", pending)
	}

	if err := pending.Start(now, "not,a,point"); !errors.Is(err, ErrInvalidCoordinateFormat) {
		t.Fatalf("start with bad location: err = %v", err)
	}
	if !reflect.DeepEqual(before, pending) {
		t.Fatalf("pending route mutated by bad location: %+v", pending)
	}

	completed := &Route{ID: 3, Status: RouteStatusCompleted}
	if err := completed.Complete(now, "18.5,-69.9"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("complete on completed: err = %v", err)
	}
	if err := completed.Start(now, "18.5,-69.9"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("start on completed: err = %v", err)
	}
}

func TestOrderTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		apply   func(*Order) error
		want    OrderStatus
		allowed bool
	}{
		{"pending to in transit", OrderStatusPending, (*Order).MarkInTransit, OrderStatusInTransit, true},
		{"in transit to delivered", OrderStatusInTransit, (*Order).MarkDelivered, OrderStatusDelivered, true},
		{"pending cancel", OrderStatusPending, (*Order).Cancel, OrderStatusCancelled, true},
		{"in transit cancel", OrderStatusInTransit, (*Order).Cancel, OrderStatusCancelled, true},
		{"pending to delivered", OrderStatusPending, (*Order).MarkDelivered, OrderStatusPending, false},
		{"delivered cancel", OrderStatusDelivered, (*Order).Cancel, OrderStatusDelivered, false},
		{"cancelled to in transit", OrderStatusCancelled, (*Order).MarkInTransit, OrderStatusCancelled, false},
		{"in transit twice", OrderStatusInTransit, (*Order).MarkInTransit, OrderStatusInTransit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{ID: 9, Status: tt.from}
			err := tt.apply(order)
			if tt.allowed && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.allowed && !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("err = %v, want ErrInvalidTransition", err)
			}
			if order.Status != tt.want {
				t.Fatalf("status = %q, want %q", order.Status, tt.want)
			}
		})
	}
}
