package availability

import "time"

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2)
// intersect. A slot ending exactly when another begins does not conflict.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// OverlapsSlot reports whether the window [start,end) intersects the slot's interval
func OverlapsSlot(s *Slot, start, end time.Time) bool {
	return Overlaps(s.StartTime, s.EndTime, start, end)
}
