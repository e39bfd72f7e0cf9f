package servicepackage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ServicePackage represents a bookable service offering. The booking engine
// reads packages only; pricing administration lives elsewhere.
type ServicePackage struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	Name        string         `db:"name"`
	Description sql.NullString `db:"description"`

	Price float64 `db:"price"`

	// Suggested shoot length used when a booking request omits a duration
	DefaultDurationHours float64 `db:"default_duration_hours"`

	IsActive bool `db:"is_active"`
}
