package availability

import "errors"

var (
	ErrSlotNotFound   = errors.New("availability slot not found")
	ErrInvalidRange   = errors.New("slot end time must be after start time")
	ErrOverlap        = errors.New("slot overlaps an existing booked or blocked slot")
	ErrSlotInUse      = errors.New("slot is booked by an active booking")
	ErrNoAvailability = errors.New("no matching free slot for the requested window")
	ErrInvalidWeekday = errors.New("recurring day of week must be between 0 and 6")
)
