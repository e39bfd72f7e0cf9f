package availability

import (
	"time"

	"github.com/google/uuid"
)

// CreateSlotRequest for POST /availability
type CreateSlotRequest struct {
	PhotographerID     uuid.UUID `json:"photographer_id" validate:"required"`
	StartTime          time.Time `json:"start_time" validate:"required"`
	EndTime            time.Time `json:"end_time" validate:"required"`
	RecurringDayOfWeek *int      `json:"recurring_day_of_week" validate:"omitempty,gte=0,lte=6"`
}

// BlockSlotRequest for POST /availability/block
type BlockSlotRequest struct {
	PhotographerID uuid.UUID `json:"photographer_id" validate:"required"`
	StartTime      time.Time `json:"start_time" validate:"required"`
	EndTime        time.Time `json:"end_time" validate:"required"`
	Notes          string    `json:"notes" validate:"omitempty,max=500"`
}

// UpdateNotesRequest for PUT /availability/{id}/notes
type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=500"`
}

// SlotResponse represents a slot in API responses
type SlotResponse struct {
	ID                 uuid.UUID  `json:"id"`
	PhotographerID     uuid.UUID  `json:"photographer_id"`
	StartTime          time.Time  `json:"start_time"`
	EndTime            time.Time  `json:"end_time"`
	IsRecurring        bool       `json:"is_recurring"`
	RecurringDayOfWeek *int       `json:"recurring_day_of_week,omitempty"`
	IsBooked           bool       `json:"is_booked"`
	IsBlocked          bool       `json:"is_blocked"`
	BookingRequestID   *uuid.UUID `json:"booking_request_id,omitempty"`
	Notes              string     `json:"notes,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// SlotResponseFromEntity converts a slot entity to API response
func SlotResponseFromEntity(s *Slot) *SlotResponse {
	resp := &SlotResponse{
		ID:             s.ID,
		PhotographerID: s.PhotographerID,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		IsRecurring:    s.IsRecurring,
		IsBooked:       s.IsBooked,
		IsBlocked:      s.IsBlocked,
		CreatedAt:      s.CreatedAt,
	}

	if s.RecurringDayOfWeek.Valid {
		day := int(s.RecurringDayOfWeek.Int32)
		resp.RecurringDayOfWeek = &day
	}
	if s.BookingRequestID.Valid {
		id := s.BookingRequestID.UUID
		resp.BookingRequestID = &id
	}
	if s.Notes.Valid {
		resp.Notes = s.Notes.String
	}

	return resp
}
