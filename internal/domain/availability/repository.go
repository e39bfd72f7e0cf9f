package availability

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Repository defines availability slot data access interface
type Repository interface {
	Create(ctx context.Context, slot *Slot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Slot, error)
	Delete(ctx context.Context, id uuid.UUID) error
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error
	ListFree(ctx context.Context, photographerID *uuid.UUID, dayStart, dayEnd time.Time) ([]*Slot, error)
	ListRange(ctx context.Context, photographerID uuid.UUID, from, to time.Time) ([]*Slot, error)
	Reserve(ctx context.Context, photographerID uuid.UUID, start, end time.Time, bookingID uuid.UUID) (*Slot, error)
	ReleaseSlot(ctx context.Context, slotID uuid.UUID) (*Slot, error)
	ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) (*Slot, error)
}

type repository struct {
	db *sqlx.DB
}

const slotSelectColumns = `
	id, photographer_id, start_time, end_time,
	is_recurring, recurring_day_of_week,
	is_booked, is_blocked, booking_request_id, notes,
	created_at, updated_at
`

// NewRepository creates new availability repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// lockPhotographer serializes check-and-write sequences for one photographer's
// slot set. The lock is transaction scoped and released on commit/rollback.
func lockPhotographer(ctx context.Context, tx *sqlx.Tx, photographerID uuid.UUID) error {
	_, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, photographerID)
	return err
}

func (r *repository) Create(ctx context.Context, slot *Slot) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := lockPhotographer(ctx, tx, slot.PhotographerID); err != nil {
		return err
	}

	// Recurring templates live outside the calendar and never conflict.
	if !slot.IsRecurring {
		var conflict bool
		err = tx.GetContext(ctx, &conflict, `
			SELECT EXISTS(
				SELECT 1 FROM availability_slots
				WHERE photographer_id = $1
				  AND is_recurring = false
				  AND (is_booked = true OR is_blocked = true)
				  AND start_time < $3 AND end_time > $2
			)
		`, slot.PhotographerID, slot.StartTime, slot.EndTime)
		if err != nil {
			return err
		}
		if conflict {
			return ErrOverlap
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO availability_slots (
			id, photographer_id, start_time, end_time,
			is_recurring, recurring_day_of_week,
			is_booked, is_blocked, booking_request_id, notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6,
			$7, $8, $9, $10,
			$11, $12
		)
	`,
		slot.ID, slot.PhotographerID, slot.StartTime, slot.EndTime,
		slot.IsRecurring, slot.RecurringDayOfWeek,
		slot.IsBooked, slot.IsBlocked, slot.BookingRequestID, slot.Notes,
		slot.CreatedAt, slot.UpdatedAt,
	)
	if err != nil {
		log.Error().
			Str("query", "availability_slots.create").
			Str("slot_id", slot.ID.String()).
			Str("photographer_id", slot.PhotographerID.String()).
			Err(err).
			Msg("slot insert failed")
		return mapSlotDBError(err)
	}

	return tx.Commit()
}

// mapSlotDBError maps pg constraint failures to domain errors. The schema
// carries an exclusion constraint over committed slot ranges as a backstop for
// the advisory-lock discipline.
func mapSlotDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case "23P01":
		return fmt.Errorf("%w: %w", ErrOverlap, err)
	case "23514":
		return fmt.Errorf("%w: %w", ErrInvalidRange, err)
	default:
		return err
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	query := `SELECT ` + slotSelectColumns + ` FROM availability_slots WHERE id = $1`

	var slot Slot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &slot, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM availability_slots WHERE id = $1 AND is_booked = false
	`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows > 0 {
		return nil
	}

	slot, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot == nil {
		return ErrSlotNotFound
	}
	return ErrSlotInUse
}

func (r *repository) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE availability_slots SET notes = $2, updated_at = NOW() WHERE id = $1
	`, id, sql.NullString{String: notes, Valid: notes != ""})
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrSlotNotFound
	}
	return nil
}

func (r *repository) ListFree(ctx context.Context, photographerID *uuid.UUID, dayStart, dayEnd time.Time) ([]*Slot, error) {
	query := `
		SELECT ` + slotSelectColumns + ` FROM availability_slots
		WHERE is_booked = false AND is_blocked = false AND is_recurring = false
		  AND start_time >= $1 AND start_time < $2
	`
	args := []interface{}{dayStart, dayEnd}

	if photographerID != nil {
		query += ` AND photographer_id = $3`
		args = append(args, *photographerID)
	}
	query += ` ORDER BY start_time`

	slots := []*Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, args...); err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *repository) ListRange(ctx context.Context, photographerID uuid.UUID, from, to time.Time) ([]*Slot, error) {
	query := `
		SELECT ` + slotSelectColumns + ` FROM availability_slots
		WHERE photographer_id = $1 AND is_recurring = false
		  AND start_time >= $2 AND start_time < $3
		ORDER BY start_time
	`

	slots := []*Slot{}
	if err := r.db.SelectContext(ctx, &slots, query, photographerID, from, to); err != nil {
		return nil, err
	}
	return slots, nil
}

// Reserve finds a free slot fully containing [start, end) and marks it booked,
// all under the photographer's advisory lock so two concurrent confirmations
// cannot claim the same slot.
func (r *repository) Reserve(ctx context.Context, photographerID uuid.UUID, start, end time.Time, bookingID uuid.UUID) (*Slot, error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockPhotographer(ctx, tx, photographerID); err != nil {
		return nil, err
	}

	// Free slots may overlap each other; only booked/blocked ranges are kept
	// disjoint. Booking a candidate commits its whole range, so any candidate
	// overlapping an already committed slot would trip the exclusion
	// constraint. Skip those here so the caller gets ErrNoAvailability
	// instead of a constraint violation.
	var slot Slot
	err = tx.GetContext(ctx, &slot, `
		SELECT `+slotSelectColumns+` FROM availability_slots s
		WHERE s.photographer_id = $1
		  AND s.is_booked = false AND s.is_blocked = false AND s.is_recurring = false
		  AND s.start_time <= $2 AND s.end_time >= $3
		  AND NOT EXISTS (
			SELECT 1 FROM availability_slots c
			WHERE c.photographer_id = s.photographer_id
			  AND c.is_recurring = false
			  AND (c.is_booked = true OR c.is_blocked = true)
			  AND c.start_time < s.end_time AND c.end_time > s.start_time
		  )
		ORDER BY s.start_time
		LIMIT 1
	`, photographerID, start, end)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAvailability
		}
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE availability_slots
		SET is_booked = true, booking_request_id = $2, updated_at = NOW()
		WHERE id = $1
	`, slot.ID, bookingID)
	if err != nil {
		return nil, mapSlotDBError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slot.IsBooked = true
	slot.BookingRequestID = uuid.NullUUID{UUID: bookingID, Valid: true}
	return &slot, nil
}

// ReleaseSlot frees one specific slot. Returns nil without error when the slot
// does not exist or is not booked. Used to undo a reservation without touching
// any other slot the same booking may hold.
func (r *repository) ReleaseSlot(ctx context.Context, slotID uuid.UUID) (*Slot, error) {
	var slot Slot
	err := r.db.GetContext(ctx, &slot, `
		UPDATE availability_slots
		SET is_booked = false, booking_request_id = NULL, updated_at = NOW()
		WHERE id = $1 AND is_booked = true
		RETURNING `+slotSelectColumns+`
	`, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &slot, nil
}

// ReleaseByBooking frees the slot held by a booking. Returns nil without error
// when the booking holds no slot.
func (r *repository) ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) (*Slot, error) {
	var slot Slot
	err := r.db.GetContext(ctx, &slot, `
		UPDATE availability_slots
		SET is_booked = false, booking_request_id = NULL, updated_at = NOW()
		WHERE booking_request_id = $1
		RETURNING `+slotSelectColumns+`
	`, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &slot, nil
}
