package booking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lenswork/lenswork-api/internal/domain/servicepackage"
)

const maxReferenceAttempts = 5

// Scheduler reserves and releases availability slots for bookings.
// Reserve returns the ID of the reserved slot so a failed confirmation can
// undo exactly its own reservation; implementations must return
// ErrNoAvailability when no free slot fully contains the requested window.
type Scheduler interface {
	Reserve(ctx context.Context, photographerID uuid.UUID, start, end time.Time, bookingID uuid.UUID) (uuid.UUID, error)
	ReleaseSlot(ctx context.Context, slotID uuid.UUID) error
	Release(ctx context.Context, bookingID uuid.UUID) error
}

// ShootConverter materializes a confirmed booking into a shoot record owned
// by the shoot-management subsystem and returns its identity.
type ShootConverter interface {
	Convert(ctx context.Context, b *BookingRequest) (uuid.UUID, error)
}

// Service drives the booking request lifecycle
type Service struct {
	repo      Repository
	pkgRepo   servicepackage.Repository
	scheduler Scheduler
	converter ShootConverter
}

// NewService creates booking service
func NewService(repo Repository, pkgRepo servicepackage.Repository, scheduler Scheduler, converter ShootConverter) *Service {
	return &Service{
		repo:      repo,
		pkgRepo:   pkgRepo,
		scheduler: scheduler,
		converter: converter,
	}
}

func parseDateField(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

// combineDateTime builds the window start from a calendar date and a "15:04" clock value
func combineDateTime(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

func durationHoursToWindow(start time.Time, hours float64) time.Time {
	return start.Add(time.Duration(hours * float64(time.Hour)))
}

// Create registers a new booking request in Pending state. No slot is
// reserved; the preferred date/time is an intent, not a commitment.
func (s *Service) Create(ctx context.Context, authClientID uuid.UUID, req *CreateBookingRequest) (*BookingRequest, error) {
	clientID := authClientID
	if clientID == uuid.Nil {
		if req.ClientID == nil {
			return nil, ValidationErrors{"client_id": "client_id is required when the requester is not an authenticated client"}
		}
		clientID = *req.ClientID
	}

	preferredDate, err := parseDateField(req.PreferredDate)
	if err != nil {
		return nil, ValidationErrors{"preferred_date": "must be a date in YYYY-MM-DD format"}
	}

	var alternativeDate sql.NullTime
	if req.AlternativeDate != nil {
		alt, err := parseDateField(*req.AlternativeDate)
		if err != nil {
			return nil, ValidationErrors{"alternative_date": "must be a date in YYYY-MM-DD format"}
		}
		if alt.Equal(preferredDate) {
			return nil, ValidationErrors{"alternative_date": "must differ from preferred_date"}
		}
		alternativeDate = sql.NullTime{Time: alt, Valid: true}
	}

	if _, err := time.Parse("15:04", req.PreferredStartTime); err != nil {
		return nil, ValidationErrors{"preferred_start_time": "must be a time in HH:MM format"}
	}

	// Price and default duration are snapshots taken now; later package
	// changes never touch this booking.
	var estimatedPrice sql.NullFloat64
	var packageID uuid.NullUUID
	var defaultDuration float64
	if req.ServicePackageID != nil {
		pkg, err := s.pkgRepo.GetByID(ctx, *req.ServicePackageID)
		if err != nil {
			return nil, err
		}
		if pkg == nil {
			return nil, ErrPackageNotFound
		}
		packageID = uuid.NullUUID{UUID: pkg.ID, Valid: true}
		estimatedPrice = sql.NullFloat64{Float64: pkg.Price, Valid: true}
		defaultDuration = pkg.DefaultDurationHours
	}

	duration := defaultDuration
	if req.DurationHours != nil {
		duration = *req.DurationHours
	}
	if duration <= 0 {
		return nil, ValidationErrors{"duration_hours": "must be greater than 0"}
	}

	var photographerID uuid.NullUUID
	if req.PhotographerID != nil {
		photographerID = uuid.NullUUID{UUID: *req.PhotographerID, Valid: true}
	}

	now := time.Now()
	b := &BookingRequest{
		ID:                 uuid.New(),
		ClientID:           clientID,
		PhotographerID:     photographerID,
		ServicePackageID:   packageID,
		EventType:          EventType(req.EventType),
		PreferredDate:      preferredDate,
		AlternativeDate:    alternativeDate,
		PreferredStartTime: req.PreferredStartTime,
		DurationHours:      duration,
		EstimatedPrice:     estimatedPrice,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if req.Location != "" {
		b.Location = sql.NullString{String: req.Location, Valid: true}
	}
	if req.SpecialRequirements != "" {
		b.SpecialRequirements = sql.NullString{String: req.SpecialRequirements, Valid: true}
	}
	if req.ContactName != "" {
		b.ContactName = sql.NullString{String: req.ContactName, Valid: true}
	}
	if req.ContactEmail != "" {
		b.ContactEmail = sql.NullString{String: req.ContactEmail, Valid: true}
	}
	if req.ContactPhone != "" {
		b.ContactPhone = sql.NullString{String: req.ContactPhone, Valid: true}
	}

	// The store's unique index on booking_reference is the hard guarantee;
	// regenerate on collision.
	for attempt := 0; ; attempt++ {
		b.BookingReference = newReference(now)
		err := s.repo.Create(ctx, b)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrDuplicateReference) || attempt == maxReferenceAttempts-1 {
			return nil, err
		}
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("booking_reference", b.BookingReference).
		Str("client_id", clientID.String()).
		Msg("booking request created")

	return b, nil
}

// Confirm transitions a pending booking to confirmed, reserving a slot for
// the requested window. The engine never substitutes the alternative date on
// its own; callers re-request with an explicit date instead.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID, req *ConfirmRequest) (*BookingRequest, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if b.Status != StatusPending {
		return nil, ErrAlreadyTerminal
	}

	photographerID := uuid.Nil
	if req.PhotographerID != nil {
		photographerID = *req.PhotographerID
	} else if b.PhotographerID.Valid {
		photographerID = b.PhotographerID.UUID
	}
	if photographerID == uuid.Nil {
		return nil, ErrPhotographerRequired
	}

	date := b.PreferredDate
	if req.Date != nil {
		explicit, err := parseDateField(*req.Date)
		if err != nil {
			return nil, ValidationErrors{"date": "must be a date in YYYY-MM-DD format"}
		}
		if !explicit.Equal(b.PreferredDate) && !(b.AlternativeDate.Valid && explicit.Equal(b.AlternativeDate.Time)) {
			return nil, ValidationErrors{"date": "must be the booking's preferred or alternative date"}
		}
		date = explicit
	}

	start, err := combineDateTime(date, b.PreferredStartTime)
	if err != nil {
		return nil, ValidationErrors{"preferred_start_time": "must be a time in HH:MM format"}
	}
	end := durationHoursToWindow(start, b.DurationHours)

	slotID, err := s.scheduler.Reserve(ctx, photographerID, start, end, b.ID)
	if err != nil {
		return nil, err
	}

	// confirmed_date records the start of the reserved window, which may be
	// the alternative date rather than the preferred one.
	ok, err := s.repo.MarkConfirmed(ctx, b.ID, photographerID, req.AdminNotes, start)
	if err != nil || !ok {
		// The booking left Pending between read and write; give back the slot
		// this attempt reserved and nothing else.
		if releaseErr := s.scheduler.ReleaseSlot(ctx, slotID); releaseErr != nil {
			log.Error().Err(releaseErr).Str("booking_id", b.ID.String()).Msg("failed to release slot after confirm conflict")
		}
		if err != nil {
			return nil, err
		}
		return nil, ErrAlreadyTerminal
	}

	b.Status = StatusConfirmed
	b.PhotographerID = uuid.NullUUID{UUID: photographerID, Valid: true}
	b.ConfirmedDate = sql.NullTime{Time: start, Valid: true}
	if req.AdminNotes != "" {
		b.AdminNotes = sql.NullString{String: req.AdminNotes, Valid: true}
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("booking_reference", b.BookingReference).
		Str("photographer_id", photographerID.String()).
		Time("start", start).
		Time("end", end).
		Msg("booking confirmed")

	return b, nil
}

// Decline rejects a pending booking with a mandatory reason. No slot was
// reserved for a pending booking, so there is no slot side effect.
func (s *Service) Decline(ctx context.Context, id uuid.UUID, reason string) (*BookingRequest, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ValidationErrors{"reason": "decline reason is required"}
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if err := validateTransition(b.Status, StatusDeclined); err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.repo.MarkDeclined(ctx, b.ID, reason, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	b.Status = StatusDeclined
	b.DeclineReason = sql.NullString{String: reason, Valid: true}
	b.DeclinedDate = sql.NullTime{Time: now, Valid: true}
	return b, nil
}

// Cancel terminates a pending or confirmed booking, releasing any reserved slot
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerIsStaff bool) (*BookingRequest, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}

	if !callerIsStaff && !b.IsOwnedBy(callerID) {
		return nil, ErrNotBookingOwner
	}

	if err := validateTransition(b.Status, StatusCancelled); err != nil {
		return nil, err
	}

	// Release before the status write so a failure here leaves the booking
	// untouched instead of cancelled while still holding its slot. The
	// status write is the commit point, same as in Confirm.
	if err := s.scheduler.Release(ctx, b.ID); err != nil {
		log.Error().Err(err).Str("booking_id", b.ID.String()).Msg("failed to release slot on cancel")
		return nil, err
	}

	now := time.Now()
	ok, err := s.repo.MarkCancelled(ctx, b.ID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidTransition
	}

	b.Status = StatusCancelled
	b.CancelledDate = sql.NullTime{Time: now, Valid: true}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("booking_reference", b.BookingReference).
		Msg("booking cancelled")

	return b, nil
}

// ConvertToShoot turns a confirmed booking into a shoot record and completes it
func (s *Service) ConvertToShoot(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return uuid.Nil, err
	}
	if b == nil {
		return uuid.Nil, ErrBookingNotFound
	}

	if b.ShootID.Valid {
		return uuid.Nil, ErrAlreadyConverted
	}
	if b.Status != StatusConfirmed {
		return uuid.Nil, ErrNotConfirmed
	}

	shootID, err := s.converter.Convert(ctx, b)
	if err != nil {
		return uuid.Nil, err
	}

	ok, err := s.repo.MarkCompleted(ctx, b.ID, shootID)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, ErrAlreadyConverted
	}

	log.Info().
		Str("booking_id", b.ID.String()).
		Str("booking_reference", b.BookingReference).
		Str("shoot_id", shootID.String()).
		Msg("booking converted to shoot")

	return shootID, nil
}

// UpdateAdminNotes replaces staff notes on a booking
func (s *Service) UpdateAdminNotes(ctx context.Context, id uuid.UUID, notes string) error {
	ok, err := s.repo.UpdateAdminNotes(ctx, id, notes)
	if err != nil {
		return err
	}
	if !ok {
		return ErrBookingNotFound
	}
	return nil
}

// Delete removes a booking entirely, releasing any bound slot first.
// Administrative operation, permitted from any state.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrBookingNotFound
	}

	if err := s.scheduler.Release(ctx, b.ID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, b.ID)
}

// GetByID returns booking by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*BookingRequest, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// GetByReference returns booking by its customer-facing reference
func (s *Service) GetByReference(ctx context.Context, reference string) (*BookingRequest, error) {
	b, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// List returns bookings, optionally filtered by status
func (s *Service) List(ctx context.Context, status *Status) ([]*BookingRequest, error) {
	return s.repo.List(ctx, status)
}

// ListByClient returns bookings submitted by a client
func (s *Service) ListByClient(ctx context.Context, clientID uuid.UUID) ([]*BookingRequest, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// CountPending returns the number of bookings awaiting staff action
func (s *Service) CountPending(ctx context.Context) (int, error) {
	return s.repo.CountByStatus(ctx, StatusPending)
}
