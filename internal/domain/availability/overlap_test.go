package availability

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, 3, 14, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", at(10, 0), at(12, 0), at(10, 0), at(12, 0), true},
		{"partial overlap", at(10, 0), at(12, 0), at(11, 0), at(13, 0), true},
		{"contained", at(10, 0), at(14, 0), at(11, 0), at(12, 0), true},
		{"containing", at(11, 0), at(12, 0), at(10, 0), at(14, 0), true},
		{"one minute shared", at(10, 0), at(12, 1), at(12, 0), at(13, 0), true},
		{"back to back", at(10, 0), at(12, 0), at(12, 0), at(14, 0), false},
		{"back to back reversed", at(12, 0), at(14, 0), at(10, 0), at(12, 0), false},
		{"disjoint", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.s1, tt.e1, tt.s2, tt.e2); got != tt.want {
				t.Fatalf("Overlaps(%v, %v, %v, %v) = %v, want %v", tt.s1, tt.e1, tt.s2, tt.e2, got, tt.want)
			}
			// Overlap is symmetric
			if got := Overlaps(tt.s2, tt.e2, tt.s1, tt.e1); got != tt.want {
				t.Fatalf("Overlaps is not symmetric for %s", tt.name)
			}
		})
	}
}

func TestOverlapsSlot(t *testing.T) {
	slot := &Slot{StartTime: at(10, 0), EndTime: at(12, 0)}

	if !OverlapsSlot(slot, at(11, 0), at(13, 0)) {
		t.Fatal("expected overlap with intersecting window")
	}
	if OverlapsSlot(slot, at(12, 0), at(13, 0)) {
		t.Fatal("adjacent window must not overlap")
	}
}
