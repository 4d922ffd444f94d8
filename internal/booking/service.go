package booking

import (
	"github.com/google/uuid"
)

// maxSlotResults caps a single listing, regardless of filters.
const maxSlotResults = 20

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ListSlots returns up to 20 slots in pool order, optionally filtered by
// date prefix and provider.
func (s *Service) ListSlots(date, provider string) []Slot {
	return s.store.ListSlots(date, provider, maxSlotResults)
}

// Book claims the slot matching the request's start/end/provider. On
// success the slot leaves the pool and the booking is stored under a fresh
// 8-character identifier.
func (s *Service) Book(req Booking) (string, Booking, error) {
	id := newID()
	if err := s.store.Book(id, req); err != nil {
		return "", Booking{}, err
	}
	return id, req, nil
}

// Reschedule moves an existing booking to a new start/end, returning the
// updated record.
func (s *Service) Reschedule(id, newStart, newEnd string) (Booking, error) {
	return s.store.Reschedule(id, newStart, newEnd)
}

// Cancel removes a booking and returns the normalized cancellation reason.
func (s *Service) Cancel(id, reason string) (string, error) {
	if _, err := s.store.Cancel(id); err != nil {
		return "", err
	}
	if reason == "" {
		reason = "unspecified"
	}
	return reason, nil
}

// Get returns the active booking for id.
func (s *Service) Get(id string) (Booking, error) {
	return s.store.GetBooking(id)
}

// newID mints a short booking identifier. Eight hex characters give enough
// space that collisions within a demo process are not worth checking for.
func newID() string {
	return uuid.NewString()[:8]
}
