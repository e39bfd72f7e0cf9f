package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Repository defines booking request data access interface
type Repository interface {
	Create(ctx context.Context, b *BookingRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error)
	GetByReference(ctx context.Context, reference string) (*BookingRequest, error)
	List(ctx context.Context, status *Status) ([]*BookingRequest, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingRequest, error)
	CountByStatus(ctx context.Context, status Status) (int, error)
	MarkConfirmed(ctx context.Context, id, photographerID uuid.UUID, adminNotes string, at time.Time) (bool, error)
	MarkDeclined(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkCompleted(ctx context.Context, id, shootID uuid.UUID) (bool, error)
	UpdateAdminNotes(ctx context.Context, id uuid.UUID, notes string) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

const bookingSelectColumns = `
	id, booking_reference, client_id, photographer_id, service_package_id,
	event_type, preferred_date, alternative_date, preferred_start_time, duration_hours,
	location, special_requirements, contact_name, contact_email, contact_phone,
	estimated_price, status, admin_notes, decline_reason,
	confirmed_date, declined_date, cancelled_date, shoot_id,
	created_at, updated_at
`

// NewRepository creates new booking repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, b *BookingRequest) error {
	query := `
		INSERT INTO booking_requests (
			id, booking_reference, client_id, photographer_id, service_package_id,
			event_type, preferred_date, alternative_date, preferred_start_time, duration_hours,
			location, special_requirements, contact_name, contact_email, contact_phone,
			estimated_price, status, admin_notes,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			$16, $17, $18,
			$19, $20
		)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.BookingReference, b.ClientID, b.PhotographerID, b.ServicePackageID,
		b.EventType, b.PreferredDate, b.AlternativeDate, b.PreferredStartTime, b.DurationHours,
		b.Location, b.SpecialRequirements, b.ContactName, b.ContactEmail, b.ContactPhone,
		b.EstimatedPrice, b.Status, b.AdminNotes,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		evt := log.Error().
			Str("query", "booking_requests.create").
			Str("booking_id", b.ID.String()).
			Str("booking_reference", b.BookingReference).
			Str("client_id", b.ClientID.String()).
			Err(err)

		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			evt = evt.
				Str("pg_code", string(pqErr.Code)).
				Str("pg_constraint", pqErr.Constraint)
		}

		evt.Msg("booking insert failed")
		return mapCreateDBError(err)
	}

	return nil
}

func mapCreateDBError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	constraint := strings.ToLower(pqErr.Constraint)
	switch pqErr.Code {
	case "23505":
		if strings.Contains(constraint, "reference") {
			return fmt.Errorf("%w: %w", ErrDuplicateReference, err)
		}
		return err
	case "23503":
		if strings.Contains(constraint, "package") {
			return fmt.Errorf("%w: %w", ErrPackageNotFound, err)
		}
		return err
	default:
		return err
	}
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM booking_requests WHERE id = $1`

	var b BookingRequest
	err := r.db.GetContext(ctx, &b, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*BookingRequest, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM booking_requests WHERE booking_reference = $1`

	var b BookingRequest
	err := r.db.GetContext(ctx, &b, query, reference)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) List(ctx context.Context, status *Status) ([]*BookingRequest, error) {
	query := `SELECT ` + bookingSelectColumns + ` FROM booking_requests`
	args := []interface{}{}

	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC`

	bookings := []*BookingRequest{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingRequest, error) {
	query := `
		SELECT ` + bookingSelectColumns + ` FROM booking_requests
		WHERE client_id = $1
		ORDER BY created_at DESC
	`

	bookings := []*BookingRequest{}
	if err := r.db.SelectContext(ctx, &bookings, query, clientID); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) CountByStatus(ctx context.Context, status Status) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM booking_requests WHERE status = $1`, status)
	return count, err
}

// MarkConfirmed transitions pending -> confirmed. Returns false when the
// booking was not pending (or does not exist), leaving it untouched.
func (r *repository) MarkConfirmed(ctx context.Context, id, photographerID uuid.UUID, adminNotes string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE booking_requests
		SET status = $2, photographer_id = $3,
		    admin_notes = COALESCE(NULLIF($4, ''), admin_notes),
		    confirmed_date = $5, updated_at = NOW()
		WHERE id = $1 AND status = $6
	`, id, StatusConfirmed, photographerID, adminNotes, at, StatusPending)
	if err != nil {
		return false, err
	}
	return oneRowAffected(result)
}

func (r *repository) MarkDeclined(ctx context.Context, id uuid.UUID, reason string, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE booking_requests
		SET status = $2, decline_reason = $3, declined_date = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
	`, id, StatusDeclined, reason, at, StatusPending)
	if err != nil {
		return false, err
	}
	return oneRowAffected(result)
}

func (r *repository) MarkCancelled(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE booking_requests
		SET status = $2, cancelled_date = $3, updated_at = NOW()
		WHERE id = $1 AND status IN ($4, $5)
	`, id, StatusCancelled, at, StatusPending, StatusConfirmed)
	if err != nil {
		return false, err
	}
	return oneRowAffected(result)
}

// MarkCompleted transitions confirmed -> completed and stores the shoot id.
// The shoot_id IS NULL guard makes double conversion impossible at the store.
func (r *repository) MarkCompleted(ctx context.Context, id, shootID uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE booking_requests
		SET status = $2, shoot_id = $3, updated_at = NOW()
		WHERE id = $1 AND status = $4 AND shoot_id IS NULL
	`, id, StatusCompleted, shootID, StatusConfirmed)
	if err != nil {
		return false, err
	}
	return oneRowAffected(result)
}

func (r *repository) UpdateAdminNotes(ctx context.Context, id uuid.UUID, notes string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE booking_requests
		SET admin_notes = $2, updated_at = NOW()
		WHERE id = $1
	`, id, sql.NullString{String: notes, Valid: notes != ""})
	if err != nil {
		return false, err
	}
	return oneRowAffected(result)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM booking_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func oneRowAffected(result sql.Result) (bool, error) {
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
