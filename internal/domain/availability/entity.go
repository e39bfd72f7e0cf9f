package availability

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Slot represents a photographer availability slot (matches availability_slots table)
type Slot struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	PhotographerID uuid.UUID `db:"photographer_id"`

	StartTime time.Time `db:"start_time"`
	EndTime   time.Time `db:"end_time"`

	// Recurring template slots carry a weekday (0=Sunday..6=Saturday) and are
	// never matched directly against booking windows.
	IsRecurring        bool          `db:"is_recurring"`
	RecurringDayOfWeek sql.NullInt32 `db:"recurring_day_of_week"`

	IsBooked  bool `db:"is_booked"`
	IsBlocked bool `db:"is_blocked"`

	// Set while a booking holds this slot; cleared on decline/cancel.
	BookingRequestID uuid.NullUUID `db:"booking_request_id"`

	Notes sql.NullString `db:"notes"`
}

// IsFree returns true if the slot can be offered to clients
func (s *Slot) IsFree() bool {
	return !s.IsBooked && !s.IsBlocked
}

// IsCommitted returns true if the slot occupies the photographer's calendar
func (s *Slot) IsCommitted() bool {
	return s.IsBooked || s.IsBlocked
}

// Contains reports whether the slot fully contains the half-open window [start, end)
func (s *Slot) Contains(start, end time.Time) bool {
	return !s.StartTime.After(start) && !s.EndTime.Before(end)
}
