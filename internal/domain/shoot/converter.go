package shoot

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lenswork/lenswork-api/internal/domain/booking"
	"github.com/lenswork/lenswork-api/internal/pkg/shootmgmt"
)

// CreateClient is the slice of the shoot-management client the converter needs
type CreateClient interface {
	CreateShoot(ctx context.Context, p shootmgmt.CreateShootRequest) (uuid.UUID, error)
}

// Converter materializes confirmed bookings as shoot records in the
// shoot-management subsystem
type Converter struct {
	client CreateClient
}

// NewConverter creates a shoot converter
func NewConverter(client CreateClient) *Converter {
	return &Converter{client: client}
}

// Convert carries the booking's snapshot data over to shoot management.
// The price sent is the estimate captured at booking time, never recomputed.
func (c *Converter) Convert(ctx context.Context, b *booking.BookingRequest) (uuid.UUID, error) {
	start, err := shootStart(b)
	if err != nil {
		return uuid.Nil, err
	}

	req := shootmgmt.CreateShootRequest{
		BookingReference: b.BookingReference,
		ClientID:         b.ClientID,
		EventType:        string(b.EventType),
		StartTime:        start,
		DurationHours:    b.DurationHours,
	}

	if b.PhotographerID.Valid {
		req.PhotographerID = b.PhotographerID.UUID
	}
	if b.Location.Valid {
		req.Location = b.Location.String
	}
	if b.EstimatedPrice.Valid {
		price := b.EstimatedPrice.Float64
		req.Price = &price
	}
	if b.SpecialRequirements.Valid {
		req.Notes = b.SpecialRequirements.String
	}

	shootID, err := c.client.CreateShoot(ctx, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("booking_id", b.ID.String()).
			Str("booking_reference", b.BookingReference).
			Msg("shoot creation failed")
		return uuid.Nil, err
	}

	return shootID, nil
}

// shootStart returns the confirmed window start. confirmed_date carries it for
// bookings confirmed by the lifecycle service; older rows fall back to the
// preferred date and clock.
func shootStart(b *booking.BookingRequest) (time.Time, error) {
	if b.ConfirmedDate.Valid {
		return b.ConfirmedDate.Time, nil
	}

	clock, err := time.Parse("15:04", b.PreferredStartTime)
	if err != nil {
		return time.Time{}, err
	}

	date := b.PreferredDate
	return time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}
