package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultCacheTTL = 30 * time.Second

// Service handles availability business logic
type Service struct {
	repo     Repository
	cache    *redis.Client
	cacheTTL time.Duration
}

// NewService creates availability service. The redis client may be nil, in
// which case listings always hit the database.
func NewService(repo Repository, cache *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func validateSlotWindow(start, end time.Time) error {
	if !end.After(start) {
		return ErrInvalidRange
	}
	return nil
}

// CreateSlot creates an open availability slot for a photographer
func (s *Service) CreateSlot(ctx context.Context, photographerID uuid.UUID, start, end time.Time, recurringDayOfWeek *int) (*Slot, error) {
	if err := validateSlotWindow(start, end); err != nil {
		return nil, err
	}

	now := time.Now()
	slot := &Slot{
		ID:             uuid.New(),
		PhotographerID: photographerID,
		StartTime:      start,
		EndTime:        end,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if recurringDayOfWeek != nil {
		if *recurringDayOfWeek < 0 || *recurringDayOfWeek > 6 {
			return nil, ErrInvalidWeekday
		}
		slot.IsRecurring = true
		slot.RecurringDayOfWeek = sql.NullInt32{Int32: int32(*recurringDayOfWeek), Valid: true}
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.invalidate(ctx, photographerID, start)
	return slot, nil
}

// BlockSlot marks a time window as unavailable (vacation, maintenance, ...)
func (s *Service) BlockSlot(ctx context.Context, photographerID uuid.UUID, start, end time.Time, notes string) (*Slot, error) {
	if err := validateSlotWindow(start, end); err != nil {
		return nil, err
	}

	now := time.Now()
	slot := &Slot{
		ID:             uuid.New(),
		PhotographerID: photographerID,
		StartTime:      start,
		EndTime:        end,
		IsBlocked:      true,
		Notes:          sql.NullString{String: notes, Valid: notes != ""},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.invalidate(ctx, photographerID, start)
	return slot, nil
}

// DeleteSlot removes a slot; booked slots are refused
func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if slot == nil {
		return ErrSlotNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, slot.PhotographerID, slot.StartTime)
	return nil
}

// UpdateNotes replaces the free-text notes on a slot
func (s *Service) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return s.repo.UpdateNotes(ctx, id, notes)
}

// GetByID returns a slot by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Slot, error) {
	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}

// ListAvailable returns free slots on the given calendar day, all
// photographers when photographerID is nil, ordered by start time.
func (s *Service) ListAvailable(ctx context.Context, photographerID *uuid.UUID, date time.Time) ([]*Slot, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	key := listCacheKey(photographerID, dayStart)
	if cached := s.cacheGet(ctx, key); cached != nil {
		return cached, nil
	}

	slots, err := s.repo.ListFree(ctx, photographerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, key, slots)
	return slots, nil
}

// ListRange returns all concrete slots for a photographer in [from, to),
// including booked and blocked ones. Staff calendar view.
func (s *Service) ListRange(ctx context.Context, photographerID uuid.UUID, from, to time.Time) ([]*Slot, error) {
	if !to.After(from) {
		return nil, ErrInvalidRange
	}
	return s.repo.ListRange(ctx, photographerID, from, to)
}

// ReserveWindow books a free slot fully containing [start, end) for a booking
// and returns the reserved slot
func (s *Service) ReserveWindow(ctx context.Context, photographerID uuid.UUID, start, end time.Time, bookingID uuid.UUID) (*Slot, error) {
	if err := validateSlotWindow(start, end); err != nil {
		return nil, err
	}

	slot, err := s.repo.Reserve(ctx, photographerID, start, end, bookingID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("slot_id", slot.ID.String()).
		Str("photographer_id", photographerID.String()).
		Str("booking_id", bookingID.String()).
		Time("start", start).
		Time("end", end).
		Msg("slot reserved")

	s.invalidate(ctx, photographerID, slot.StartTime)
	return slot, nil
}

// ReleaseSlot frees one specific slot. No-op when it is not booked.
func (s *Service) ReleaseSlot(ctx context.Context, slotID uuid.UUID) error {
	slot, err := s.repo.ReleaseSlot(ctx, slotID)
	if err != nil {
		return err
	}
	if slot == nil {
		return nil
	}

	log.Info().
		Str("slot_id", slot.ID.String()).
		Msg("slot released")

	s.invalidate(ctx, slot.PhotographerID, slot.StartTime)
	return nil
}

// ReleaseBooking frees whatever slot the booking holds. No-op when none is held.
func (s *Service) ReleaseBooking(ctx context.Context, bookingID uuid.UUID) error {
	slot, err := s.repo.ReleaseByBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if slot == nil {
		return nil
	}

	log.Info().
		Str("slot_id", slot.ID.String()).
		Str("booking_id", bookingID.String()).
		Msg("slot released")

	s.invalidate(ctx, slot.PhotographerID, slot.StartTime)
	return nil
}

// ---------- listing cache ----------

func listCacheKey(photographerID *uuid.UUID, dayStart time.Time) string {
	who := "all"
	if photographerID != nil {
		who = photographerID.String()
	}
	return fmt.Sprintf("availability:%s:%s", who, dayStart.Format("2006-01-02"))
}

func (s *Service) cacheGet(ctx context.Context, key string) []*Slot {
	if s.cache == nil {
		return nil
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}

	var slots []*Slot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil
	}
	return slots
}

func (s *Service) cacheSet(ctx context.Context, key string, slots []*Slot) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(slots)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, data, s.cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("availability cache set failed")
	}
}

// invalidate drops the cached listings touched by a slot write: the
// photographer's day and the all-photographers day.
func (s *Service) invalidate(ctx context.Context, photographerID uuid.UUID, at time.Time) {
	if s.cache == nil {
		return
	}

	dayStart := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, at.Location())
	keys := []string{
		listCacheKey(&photographerID, dayStart),
		listCacheKey(nil, dayStart),
	}
	if err := s.cache.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Str("photographer_id", photographerID.String()).Msg("availability cache invalidation failed")
	}
}
