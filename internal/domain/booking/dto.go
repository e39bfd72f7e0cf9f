package booking

import (
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest represents booking intake payload. client_id is only
// honored for staff callers; authenticated clients book as themselves.
type CreateBookingRequest struct {
	ClientID            *uuid.UUID `json:"client_id" validate:"omitempty"`
	PhotographerID      *uuid.UUID `json:"photographer_id" validate:"omitempty"`
	ServicePackageID    *uuid.UUID `json:"service_package_id" validate:"omitempty"`
	EventType           string     `json:"event_type" validate:"required,event_type"`
	PreferredDate       string     `json:"preferred_date" validate:"required"`
	AlternativeDate     *string    `json:"alternative_date" validate:"omitempty"`
	PreferredStartTime  string     `json:"preferred_start_time" validate:"required"`
	DurationHours       *float64   `json:"duration_hours" validate:"omitempty,gt=0"`
	Location            string     `json:"location" validate:"omitempty,max=500"`
	SpecialRequirements string     `json:"special_requirements" validate:"omitempty,max=2000"`
	ContactName         string     `json:"contact_name" validate:"omitempty,max=200"`
	ContactEmail        string     `json:"contact_email" validate:"omitempty,email"`
	ContactPhone        string     `json:"contact_phone" validate:"omitempty,max=50"`
}

// ConfirmRequest represents staff confirmation payload. Date, when present,
// must match the booking's preferred or alternative date.
type ConfirmRequest struct {
	PhotographerID *uuid.UUID `json:"photographer_id" validate:"omitempty"`
	Date           *string    `json:"date" validate:"omitempty"`
	AdminNotes     string     `json:"admin_notes" validate:"omitempty,max=2000"`
}

// DeclineRequest represents staff decline payload
type DeclineRequest struct {
	Reason string `json:"reason" validate:"required,max=2000"`
}

// UpdateNotesRequest represents admin notes update payload
type UpdateNotesRequest struct {
	AdminNotes string `json:"admin_notes" validate:"max=2000"`
}

// BookingResponse represents a booking request in API responses
type BookingResponse struct {
	ID                  uuid.UUID  `json:"id"`
	BookingReference    string     `json:"booking_reference"`
	ClientID            uuid.UUID  `json:"client_id"`
	PhotographerID      *uuid.UUID `json:"photographer_id,omitempty"`
	ServicePackageID    *uuid.UUID `json:"service_package_id,omitempty"`
	EventType           EventType  `json:"event_type"`
	PreferredDate       string     `json:"preferred_date"`
	AlternativeDate     *string    `json:"alternative_date,omitempty"`
	PreferredStartTime  string     `json:"preferred_start_time"`
	DurationHours       float64    `json:"duration_hours"`
	Location            string     `json:"location,omitempty"`
	SpecialRequirements string     `json:"special_requirements,omitempty"`
	ContactName         string     `json:"contact_name,omitempty"`
	ContactEmail        string     `json:"contact_email,omitempty"`
	ContactPhone        string     `json:"contact_phone,omitempty"`
	EstimatedPrice      *float64   `json:"estimated_price,omitempty"`
	Status              Status     `json:"status"`
	AdminNotes          string     `json:"admin_notes,omitempty"`
	DeclineReason       string     `json:"decline_reason,omitempty"`
	ConfirmedDate       *time.Time `json:"confirmed_date,omitempty"`
	DeclinedDate        *time.Time `json:"declined_date,omitempty"`
	CancelledDate       *time.Time `json:"cancelled_date,omitempty"`
	ShootID             *uuid.UUID `json:"shoot_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// BookingResponseFromEntity converts booking entity to response DTO
func BookingResponseFromEntity(b *BookingRequest) *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		BookingReference:   b.BookingReference,
		ClientID:           b.ClientID,
		EventType:          b.EventType,
		PreferredDate:      b.PreferredDate.Format("2006-01-02"),
		PreferredStartTime: b.PreferredStartTime,
		DurationHours:      b.DurationHours,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.PhotographerID.Valid {
		resp.PhotographerID = &b.PhotographerID.UUID
	}
	if b.ServicePackageID.Valid {
		resp.ServicePackageID = &b.ServicePackageID.UUID
	}
	if b.AlternativeDate.Valid {
		alt := b.AlternativeDate.Time.Format("2006-01-02")
		resp.AlternativeDate = &alt
	}
	if b.Location.Valid {
		resp.Location = b.Location.String
	}
	if b.SpecialRequirements.Valid {
		resp.SpecialRequirements = b.SpecialRequirements.String
	}
	if b.ContactName.Valid {
		resp.ContactName = b.ContactName.String
	}
	if b.ContactEmail.Valid {
		resp.ContactEmail = b.ContactEmail.String
	}
	if b.ContactPhone.Valid {
		resp.ContactPhone = b.ContactPhone.String
	}
	if b.EstimatedPrice.Valid {
		resp.EstimatedPrice = &b.EstimatedPrice.Float64
	}
	if b.AdminNotes.Valid {
		resp.AdminNotes = b.AdminNotes.String
	}
	if b.DeclineReason.Valid {
		resp.DeclineReason = b.DeclineReason.String
	}
	if b.ConfirmedDate.Valid {
		resp.ConfirmedDate = &b.ConfirmedDate.Time
	}
	if b.DeclinedDate.Valid {
		resp.DeclinedDate = &b.DeclinedDate.Time
	}
	if b.CancelledDate.Valid {
		resp.CancelledDate = &b.CancelledDate.Time
	}
	if b.ShootID.Valid {
		resp.ShootID = &b.ShootID.UUID
	}

	return resp
}

// BookingListResponse converts a slice of entities to response DTOs
func BookingListResponse(bookings []*BookingRequest) []*BookingResponse {
	items := make([]*BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = BookingResponseFromEntity(b)
	}
	return items
}
