package services

import "time"

// StopETA is the proposed schedule entry for one order on a route.
type StopETA struct {
	EstimatedDeliveryTime time.Time
	Sequence              int
}

// PropagateETAs assigns each order its estimated delivery time from its position.
//
// The stop at position i (0-based) is due at start + i*(serviceMinutes+gapMinutes).
// The gap stands in for inter-stop travel and does not use the computed leg
// distances. Orders absent from sequence get no entry; a repeated id keeps its
// first position.
func PropagateETAs(sequence []int64, start time.Time, serviceMinutes, gapMinutes int) map[int64]StopETA {
	step := time.Duration(serviceMinutes+gapMinutes) * time.Minute

	out := make(map[int64]StopETA, len(sequence))
	for i, id := range sequence {
		if _, ok := out[id]; ok {
			continue
		}
		out[id] = StopETA{
			EstimatedDeliveryTime: start.Add(time.Duration(i) * step),
			Sequence:              i + 1,
		}
	}

	return out
}
