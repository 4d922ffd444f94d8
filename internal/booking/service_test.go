package booking

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

var seedBase = time.Date(2026, 1, 27, 12, 0, 0, 0, time.UTC)

const seedDay = "2026-01-28"

func newSeededService() (*Service, *Store) {
	store := NewStore()
	store.Seed(seedBase, 1)
	return NewService(store), store
}

func TestSeedInventory(t *testing.T) {
	svc, _ := newSeededService()

	slots := svc.ListSlots("", "")
	if len(slots) != 12 {
		t.Fatalf("expected 12 seeded slots, got %d", len(slots))
	}

	lee := svc.ListSlots("", "Dr. Lee")
	if len(lee) != 6 {
		t.Fatalf("expected 6 Dr. Lee slots, got %d", len(lee))
	}

	first := slots[0]
	if first.Start != seedDay+"T09:00:00" || first.End != seedDay+"T09:40:00" || first.Provider != "Dr. Lee" {
		t.Fatalf("unexpected first slot: %+v", first)
	}
}

func TestListSlotsFilters(t *testing.T) {
	svc, _ := newSeededService()

	if got := svc.ListSlots(seedDay, ""); len(got) != 12 {
		t.Fatalf("date filter should match all seeded slots, got %d", len(got))
	}
	if got := svc.ListSlots("1999-01-01", ""); len(got) != 0 {
		t.Fatalf("stale date should match nothing, got %d", len(got))
	}

	// provider match is case-insensitive and exact
	if got := svc.ListSlots("", "np garcia"); len(got) != 6 {
		t.Fatalf("case-insensitive provider match failed, got %d", len(got))
	}
	if got := svc.ListSlots("", "np"); len(got) != 0 {
		t.Fatalf("partial provider should match nothing, got %d", len(got))
	}

	// combined filters intersect
	if got := svc.ListSlots(seedDay, "Dr. Lee"); len(got) != 6 {
		t.Fatalf("combined filters should yield 6, got %d", len(got))
	}
	if got := svc.ListSlots("1999-01-01", "Dr. Lee"); len(got) != 0 {
		t.Fatalf("combined filters should intersect, got %d", len(got))
	}
}

func TestListSlotsCap(t *testing.T) {
	// The seed never exceeds the cap, so build an oversized pool directly.
	store := NewStore()
	for i := 0; i < 30; i++ {
		store.slots = append(store.slots, Slot{
			Start:    fmt.Sprintf("%sT%02d:00:00", seedDay, i%24),
			End:      fmt.Sprintf("%sT%02d:30:00", seedDay, i%24),
			Provider: "Dr. Lee",
		})
	}
	svc := NewService(store)

	if got := svc.ListSlots("", ""); len(got) != 20 {
		t.Fatalf("expected listing capped at 20, got %d", len(got))
	}
}

func TestBookRemovesSlot(t *testing.T) {
	svc, _ := newSeededService()

	req := Booking{
		PatientRef: "patient-1",
		Start:      seedDay + "T09:00:00",
		End:        seedDay + "T09:40:00",
		Provider:   "Dr. Lee",
		VisitType:  "screening",
	}

	id, b, err := svc.Book(req)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}
	if len(id) != 8 {
		t.Fatalf("expected 8-character booking id, got %q", id)
	}
	if b != req {
		t.Fatalf("stored booking differs from request: %+v", b)
	}

	if got := svc.ListSlots("", ""); len(got) != 11 {
		t.Fatalf("expected 11 slots after booking, got %d", len(got))
	}
	for _, s := range svc.ListSlots("", "") {
		if s.Start == req.Start && s.End == req.End && s.Provider == req.Provider {
			t.Fatal("booked slot still listed")
		}
	}

	// the same slot cannot be booked twice
	if _, _, err := svc.Book(req); !errors.Is(err, ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable on double book, got %v", err)
	}
}

func TestBookUnknownSlot(t *testing.T) {
	svc, _ := newSeededService()

	_, _, err := svc.Book(Booking{
		PatientRef: "patient-1",
		Start:      seedDay + "T09:00:00",
		End:        seedDay + "T09:40:00",
		Provider:   "Dr. Nobody",
		VisitType:  "consult",
	})
	if !errors.Is(err, ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
	}
	if got := svc.ListSlots("", ""); len(got) != 12 {
		t.Fatalf("failed book must not mutate the pool, got %d slots", len(got))
	}
}

func TestCancelRestoresSlot(t *testing.T) {
	svc, _ := newSeededService()

	req := Booking{
		PatientRef: "patient-1",
		Start:      seedDay + "T10:00:00",
		End:        seedDay + "T10:20:00",
		Provider:   "NP Garcia",
		VisitType:  "screening",
	}
	id, _, err := svc.Book(req)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	reason, err := svc.Cancel(id, "")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if reason != "unspecified" {
		t.Fatalf("expected default reason %q, got %q", "unspecified", reason)
	}

	slots := svc.ListSlots("", "")
	if len(slots) != 12 {
		t.Fatalf("expected 12 slots after cancel, got %d", len(slots))
	}
	// the freed slot is appended at the end of the pool
	last := slots[len(slots)-1]
	if last.Start != req.Start || last.End != req.End || last.Provider != req.Provider {
		t.Fatalf("freed slot not appended last: %+v", last)
	}

	// the id is gone for good
	if _, err := svc.Cancel(id, "again"); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound on second cancel, got %v", err)
	}
	if _, err := svc.Reschedule(id, req.Start, req.End); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound on reschedule after cancel, got %v", err)
	}
}

func TestCancelKeepsCallerReason(t *testing.T) {
	svc, _ := newSeededService()

	id, _, err := svc.Book(Booking{
		PatientRef: "patient-1",
		Start:      seedDay + "T11:00:00",
		End:        seedDay + "T11:40:00",
		Provider:   "Dr. Lee",
		VisitType:  "consult",
	})
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	reason, err := svc.Cancel(id, "patient request")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if reason != "patient request" {
		t.Fatalf("expected caller reason preserved, got %q", reason)
	}
}

func TestRescheduleUnknownBooking(t *testing.T) {
	svc, _ := newSeededService()

	_, err := svc.Reschedule("deadbeef", seedDay+"T09:00:00", seedDay+"T09:40:00")
	if !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestRescheduleNoMatchingSlot(t *testing.T) {
	svc, _ := newSeededService()

	orig := Booking{
		PatientRef: "patient-1",
		Start:      seedDay + "T09:00:00",
		End:        seedDay + "T09:40:00",
		Provider:   "Dr. Lee",
		VisitType:  "screening",
	}
	id, _, err := svc.Book(orig)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	_, err = svc.Reschedule(id, seedDay+"T23:00:00", seedDay+"T23:40:00")
	if !errors.Is(err, ErrSlotNotAvailable) {
		t.Fatalf("expected ErrSlotNotAvailable, got %v", err)
	}

	// the booking must be untouched
	b, err := svc.Get(id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if b.Start != orig.Start || b.End != orig.End {
		t.Fatalf("failed reschedule mutated booking: %+v", b)
	}
	if got := svc.ListSlots("", ""); len(got) != 11 {
		t.Fatalf("failed reschedule mutated pool, got %d slots", len(got))
	}
}

func TestRescheduleSwapsSlots(t *testing.T) {
	svc, _ := newSeededService()

	orig := Booking{
		PatientRef: "patient-1",
		Start:      seedDay + "T09:00:00",
		End:        seedDay + "T09:40:00",
		Provider:   "Dr. Lee",
		VisitType:  "screening",
	}
	id, _, err := svc.Book(orig)
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	// The target interval belongs to NP Garcia. The match ignores the
	// provider and the booking keeps Dr. Lee; the reference behaves the
	// same way and this pins it.
	newStart, newEnd := seedDay+"T10:00:00", seedDay+"T10:20:00"
	b, err := svc.Reschedule(id, newStart, newEnd)
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}
	if b.Start != newStart || b.End != newEnd {
		t.Fatalf("booking not moved: %+v", b)
	}
	if b.Provider != "Dr. Lee" {
		t.Fatalf("booking provider changed to %q", b.Provider)
	}

	slots := svc.ListSlots("", "")
	if len(slots) != 11 {
		t.Fatalf("expected 11 slots after reschedule, got %d", len(slots))
	}

	// NP Garcia's 10:00 slot was consumed even though the booking is Dr. Lee's.
	for _, s := range slots {
		if s.Start == newStart && s.End == newEnd && s.Provider == "NP Garcia" {
			t.Fatal("matched new slot still in pool")
		}
	}

	// the original interval returned to the pool, appended last
	last := slots[len(slots)-1]
	if last.Start != orig.Start || last.End != orig.End || last.Provider != orig.Provider {
		t.Fatalf("original slot not freed: %+v", last)
	}
}

func TestResetClearsBookings(t *testing.T) {
	svc, store := newSeededService()

	id, _, err := svc.Book(Booking{
		PatientRef: "patient-1",
		Start:      seedDay + "T09:00:00",
		End:        seedDay + "T09:40:00",
		Provider:   "Dr. Lee",
		VisitType:  "screening",
	})
	if err != nil {
		t.Fatalf("book failed: %v", err)
	}

	if n := store.Reset(seedBase, 1); n != 12 {
		t.Fatalf("expected 12 slots after reset, got %d", n)
	}
	if _, err := svc.Get(id); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected booking gone after reset, got %v", err)
	}
}

func TestBookingIDsUnique(t *testing.T) {
	svc, _ := newSeededService()

	seen := make(map[string]bool)
	for _, slot := range svc.ListSlots("", "") {
		id, _, err := svc.Book(Booking{
			PatientRef: "patient",
			Start:      slot.Start,
			End:        slot.End,
			Provider:   slot.Provider,
			VisitType:  "screening",
		})
		if err != nil {
			t.Fatalf("book failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate booking id %q", id)
		}
		seen[id] = true
	}
}
