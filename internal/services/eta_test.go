package services

import (
	"testing"
	"time"
)

func TestPropagateETAs(t *testing.T) {
	start := time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

	got := PropagateETAs([]int64{5, 3, 9, 3}, start, 10, 15)

	if len(got) != 3 {
		t.Fatalf("entries = %d, want 3", len(got))
	}

	cases := []struct {
		id  int64
		at  string
		seq int
	}{
		{5, "08:00", 1},
		{3, "08:25", 2},
		{9, "08:50", 3},
	}
	for _, c := range cases {
		eta, ok := got[c.id]
		if !ok {
			t.Fatalf("order %d missing", c.id)
		}
		if eta.EstimatedDeliveryTime.Format("15:04") != c.at {
			t.Fatalf("order %d eta = %s, want %s", c.id, eta.EstimatedDeliveryTime.Format("15:04"), c.at)
		}
		if eta.Sequence != c.seq {
			t.Fatalf("order %d sequence = %d, want %d", c.id, eta.Sequence, c.seq)
		}
	}
}

func TestPropagateETAsEmpty(t *testing.T) {
	if got := PropagateETAs(nil, time.Now(), 10, 15); len(got) != 0 {
		t.Fatalf("expected no entries, got %v", got)
	}
}
