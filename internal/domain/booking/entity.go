package booking

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Status represents booking request status (matches booking_status enum)
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// IsTerminal returns true if no further transition is permitted from the status
func (s Status) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCancelled || s == StatusCompleted
}

// EventType represents the kind of shoot requested
type EventType string

const (
	EventWedding   EventType = "wedding"
	EventPortrait  EventType = "portrait"
	EventFamily    EventType = "family"
	EventCorporate EventType = "corporate"
	EventProduct   EventType = "product"
	EventGeneric   EventType = "event"
	EventOther     EventType = "other"
)

// BookingRequest represents a client booking request (matches booking_requests table)
type BookingRequest struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	// Unique, human-readable, immutable once assigned
	BookingReference string `db:"booking_reference"`

	// Parties
	ClientID         uuid.UUID     `db:"client_id"`
	PhotographerID   uuid.NullUUID `db:"photographer_id"`
	ServicePackageID uuid.NullUUID `db:"service_package_id"`

	// Scheduling intent. The preferred date/time is not a commitment; a slot
	// is bound only at confirmation.
	EventType          EventType    `db:"event_type"`
	PreferredDate      time.Time    `db:"preferred_date"`
	AlternativeDate    sql.NullTime `db:"alternative_date"`
	PreferredStartTime string       `db:"preferred_start_time"` // "15:04"
	DurationHours      float64      `db:"duration_hours"`

	// Descriptive
	Location            sql.NullString `db:"location"`
	SpecialRequirements sql.NullString `db:"special_requirements"`
	ContactName         sql.NullString `db:"contact_name"`
	ContactEmail        sql.NullString `db:"contact_email"`
	ContactPhone        sql.NullString `db:"contact_phone"`

	// Price snapshot taken from the package at creation time
	EstimatedPrice sql.NullFloat64 `db:"estimated_price"`

	// Workflow
	Status        Status         `db:"status"`
	AdminNotes    sql.NullString `db:"admin_notes"`
	DeclineReason sql.NullString `db:"decline_reason"`
	ConfirmedDate sql.NullTime   `db:"confirmed_date"`
	DeclinedDate  sql.NullTime   `db:"declined_date"`
	CancelledDate sql.NullTime   `db:"cancelled_date"`

	// Set once conversion to a shoot succeeds
	ShootID uuid.NullUUID `db:"shoot_id"`
}

// IsOwnedBy checks whether the booking belongs to the given client
func (b *BookingRequest) IsOwnedBy(clientID uuid.UUID) bool {
	return b.ClientID == clientID
}

// validateTransition enforces the booking state machine:
// pending -> confirmed | declined | cancelled
// confirmed -> completed | cancelled
func validateTransition(current, next Status) error {
	switch current {
	case StatusPending:
		if next == StatusConfirmed || next == StatusDeclined || next == StatusCancelled {
			return nil
		}
	case StatusConfirmed:
		if next == StatusCompleted || next == StatusCancelled {
			return nil
		}
	}
	return ErrInvalidTransition
}
