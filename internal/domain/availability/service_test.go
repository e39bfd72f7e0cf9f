package availability

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeSlotRepo struct {
	slots map[uuid.UUID]*Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: map[uuid.UUID]*Slot{}}
}

func (r *fakeSlotRepo) Create(_ context.Context, slot *Slot) error {
	for _, existing := range r.slots {
		if existing.PhotographerID == slot.PhotographerID &&
			existing.IsCommitted() && !existing.IsRecurring &&
			OverlapsSlot(existing, slot.StartTime, slot.EndTime) {
			return ErrOverlap
		}
	}
	copied := *slot
	r.slots[slot.ID] = &copied
	return nil
}

func (r *fakeSlotRepo) GetByID(_ context.Context, id uuid.UUID) (*Slot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, nil
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeSlotRepo) Delete(_ context.Context, id uuid.UUID) error {
	slot, ok := r.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	if slot.IsBooked {
		return ErrSlotInUse
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeSlotRepo) UpdateNotes(_ context.Context, id uuid.UUID, notes string) error {
	slot, ok := r.slots[id]
	if !ok {
		return ErrSlotNotFound
	}
	slot.Notes.String = notes
	slot.Notes.Valid = notes != ""
	return nil
}

func (r *fakeSlotRepo) ListFree(_ context.Context, photographerID *uuid.UUID, dayStart, dayEnd time.Time) ([]*Slot, error) {
	var out []*Slot
	for _, slot := range r.slots {
		if !slot.IsFree() || slot.IsRecurring {
			continue
		}
		if photographerID != nil && slot.PhotographerID != *photographerID {
			continue
		}
		if slot.StartTime.Before(dayStart) || !slot.StartTime.Before(dayEnd) {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeSlotRepo) ListRange(_ context.Context, photographerID uuid.UUID, from, to time.Time) ([]*Slot, error) {
	var out []*Slot
	for _, slot := range r.slots {
		if slot.PhotographerID != photographerID {
			continue
		}
		if slot.StartTime.Before(from) || !slot.StartTime.Before(to) {
			continue
		}
		copied := *slot
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeSlotRepo) Reserve(_ context.Context, photographerID uuid.UUID, start, end time.Time, bookingID uuid.UUID) (*Slot, error) {
	var candidates []*Slot
	for _, slot := range r.slots {
		if slot.PhotographerID != photographerID || !slot.IsFree() || slot.IsRecurring || !slot.Contains(start, end) {
			continue
		}
		shadowed := false
		for _, other := range r.slots {
			if other.PhotographerID == photographerID && other.IsCommitted() && !other.IsRecurring &&
				OverlapsSlot(other, slot.StartTime, slot.EndTime) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			candidates = append(candidates, slot)
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoAvailability
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].StartTime.Before(candidates[j].StartTime) })

	chosen := candidates[0]
	chosen.IsBooked = true
	chosen.BookingRequestID = uuid.NullUUID{UUID: bookingID, Valid: true}
	copied := *chosen
	return &copied, nil
}

func (r *fakeSlotRepo) ReleaseSlot(_ context.Context, slotID uuid.UUID) (*Slot, error) {
	slot, ok := r.slots[slotID]
	if !ok || !slot.IsBooked {
		return nil, nil
	}
	slot.IsBooked = false
	slot.BookingRequestID = uuid.NullUUID{}
	copied := *slot
	return &copied, nil
}

func (r *fakeSlotRepo) ReleaseByBooking(_ context.Context, bookingID uuid.UUID) (*Slot, error) {
	for _, slot := range r.slots {
		if slot.BookingRequestID.Valid && slot.BookingRequestID.UUID == bookingID {
			slot.IsBooked = false
			slot.BookingRequestID = uuid.NullUUID{}
			copied := *slot
			return &copied, nil
		}
	}
	return nil, nil
}

func TestCreateSlotInvalidRange(t *testing.T) {
	svc := NewService(newFakeSlotRepo(), nil, 0)

	_, err := svc.CreateSlot(context.Background(), uuid.New(), at(12, 0), at(10, 0), nil)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	_, err = svc.CreateSlot(context.Background(), uuid.New(), at(12, 0), at(12, 0), nil)
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for zero-length slot, got %v", err)
	}
}

func TestCreateSlotInvalidWeekday(t *testing.T) {
	svc := NewService(newFakeSlotRepo(), nil, 0)

	day := 7
	_, err := svc.CreateSlot(context.Background(), uuid.New(), at(10, 0), at(12, 0), &day)
	if !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestBlockedSlotRejectsOverlappingCreate(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := NewService(repo, nil, 0)
	photographer := uuid.New()

	if _, err := svc.BlockSlot(context.Background(), photographer, at(10, 0), at(14, 0), "vacation"); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	_, err := svc.CreateSlot(context.Background(), photographer, at(12, 0), at(16, 0), nil)
	if !errors.Is(err, ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}

	// Adjacent window is fine
	if _, err := svc.CreateSlot(context.Background(), photographer, at(14, 0), at(16, 0), nil); err != nil {
		t.Fatalf("adjacent slot should be accepted, got %v", err)
	}
}

func TestDeleteBookedSlotRefused(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := NewService(repo, nil, 0)
	photographer := uuid.New()

	slot, err := svc.CreateSlot(context.Background(), photographer, at(10, 0), at(12, 0), nil)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.ReserveWindow(context.Background(), photographer, at(10, 0), at(11, 0), uuid.New()); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	if err := svc.DeleteSlot(context.Background(), slot.ID); !errors.Is(err, ErrSlotInUse) {
		t.Fatalf("expected ErrSlotInUse, got %v", err)
	}
}

func TestReserveRequiresFullContainment(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := NewService(repo, nil, 0)
	photographer := uuid.New()

	if _, err := svc.CreateSlot(context.Background(), photographer, at(10, 0), at(12, 0), nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Window sticks out past the slot end
	_, err := svc.ReserveWindow(context.Background(), photographer, at(11, 0), at(13, 0), uuid.New())
	if !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability, got %v", err)
	}

	// Exact fit works
	if _, err := svc.ReserveWindow(context.Background(), photographer, at(10, 0), at(12, 0), uuid.New()); err != nil {
		t.Fatalf("exact-fit reserve failed: %v", err)
	}
}

func TestReserveSkipsSlotOverlappingCommittedSlot(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := NewService(repo, nil, 0)
	photographer := uuid.New()

	// Two free slots may overlap; only committed ranges are kept disjoint.
	if _, err := svc.CreateSlot(context.Background(), photographer, at(10, 0), at(12, 0), nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateSlot(context.Background(), photographer, at(11, 0), at(13, 0), nil); err != nil {
		t.Fatalf("overlapping free slot should be accepted, got %v", err)
	}

	if _, err := svc.ReserveWindow(context.Background(), photographer, at(10, 0), at(12, 0), uuid.New()); err != nil {
		t.Fatalf("first reserve failed: %v", err)
	}

	// The 11-13 slot still looks free but booking it would collide with the
	// committed 10-12 range, so the window must be refused.
	_, err := svc.ReserveWindow(context.Background(), photographer, at(11, 0), at(13, 0), uuid.New())
	if !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability for window behind a booked slot, got %v", err)
	}
}

func TestReserveAndReleaseRoundTrip(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := NewService(repo, nil, 0)
	photographer := uuid.New()
	bookingID := uuid.New()

	if _, err := svc.CreateSlot(context.Background(), photographer, at(10, 0), at(12, 0), nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.ReserveWindow(context.Background(), photographer, at(10, 0), at(12, 0), bookingID); err != nil {
		t.Fatalf("reserve failed: %v", err)
	}

	// Slot is no longer free
	_, err := svc.ReserveWindow(context.Background(), photographer, at(10, 0), at(11, 0), uuid.New())
	if !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("expected ErrNoAvailability on double reserve, got %v", err)
	}

	if err := svc.ReleaseBooking(context.Background(), bookingID); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	// Releasing an already-free slot is a no-op
	slots, err := svc.ListAvailable(context.Background(), &photographer, at(0, 0))
	if err != nil || len(slots) != 1 {
		t.Fatalf("expected the slot to be free again, got %d slots, err %v", len(slots), err)
	}
	if err := svc.ReleaseSlot(context.Background(), slots[0].ID); err != nil {
		t.Fatalf("release of free slot should be a no-op, got %v", err)
	}

	// Releasing an unknown booking is a no-op
	if err := svc.ReleaseBooking(context.Background(), uuid.New()); err != nil {
		t.Fatalf("release of unknown booking should be a no-op, got %v", err)
	}

	// Free again
	if _, err := svc.ReserveWindow(context.Background(), photographer, at(10, 0), at(12, 0), uuid.New()); err != nil {
		t.Fatalf("reserve after release failed: %v", err)
	}
}

func TestListAvailableOrdersByStartTime(t *testing.T) {
	repo := newFakeSlotRepo()
	svc := NewService(repo, nil, 0)
	photographer := uuid.New()

	if _, err := svc.CreateSlot(context.Background(), photographer, at(14, 0), at(16, 0), nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.CreateSlot(context.Background(), photographer, at(9, 0), at(11, 0), nil); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	slots, err := svc.ListAvailable(context.Background(), &photographer, at(0, 0))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	if !slots[0].StartTime.Before(slots[1].StartTime) {
		t.Fatal("slots not ordered by start time")
	}
}
