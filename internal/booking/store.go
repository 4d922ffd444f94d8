package booking

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	ErrSlotNotAvailable = errors.New("slot not available")
	ErrBookingNotFound  = errors.New("booking not found")
)

// seedHours are the start hours filled on the demo day.
var seedHours = [...]int{9, 10, 11, 13, 14, 15}

// Store holds the slot pool and the active bookings. All state lives in
// process memory; a restart (or Reset) reseeds it. Every exported method
// takes the mutex, so each operation is a single atomic mutation even under
// concurrent handlers.
type Store struct {
	mu       sync.Mutex
	slots    []Slot
	bookings map[string]Booking
}

func NewStore() *Store {
	return &Store{bookings: make(map[string]Booking)}
}

// Seed replaces the slot pool with the fixed demo inventory: six start
// hours on the day `days` after base, for Dr. Lee (40-minute visits) and
// NP Garcia (20-minute visits). Bookings are untouched.
func (s *Store) Seed(base time.Time, days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seedLocked(base, days)
}

// Reset drops bookings as well and reseeds the pool. Restart-equivalent.
// Returns the new pool size.
func (s *Store) Reset(base time.Time, days int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = make(map[string]Booking)
	s.seedLocked(base, days)
	return len(s.slots)
}

func (s *Store) seedLocked(base time.Time, days int) {
	day := base.AddDate(0, 0, days).Format("2006-01-02")
	s.slots = s.slots[:0]
	for _, hour := range seedHours {
		s.slots = append(s.slots,
			Slot{
				Start:    fmt.Sprintf("%sT%02d:00:00", day, hour),
				End:      fmt.Sprintf("%sT%02d:40:00", day, hour),
				Provider: "Dr. Lee",
			},
			Slot{
				Start:    fmt.Sprintf("%sT%02d:00:00", day, hour),
				End:      fmt.Sprintf("%sT%02d:20:00", day, hour),
				Provider: "NP Garcia",
			},
		)
	}
}

// ListSlots returns up to limit slots in pool order. date filters by prefix
// of the start timestamp, provider by case-insensitive exact match; either
// may be empty.
func (s *Store) ListSlots(date, provider string, limit int) []Slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Slot, 0, limit)
	for _, sl := range s.slots {
		if date != "" && !strings.HasPrefix(sl.Start, date) {
			continue
		}
		if provider != "" && !strings.EqualFold(sl.Provider, provider) {
			continue
		}
		out = append(out, sl)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Book removes the slot matching the booking's start/end/provider triple
// and stores the booking under id. ErrSlotNotAvailable when no slot matches.
func (s *Store) Book(id string, b Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findSlotLocked(b.Start, b.End, b.Provider)
	if idx < 0 {
		return ErrSlotNotAvailable
	}
	s.slots = append(s.slots[:idx], s.slots[idx+1:]...)
	s.bookings[id] = b
	return nil
}

// Reschedule moves a booking to a pool slot matching newStart/newEnd. The
// match deliberately ignores the slot's provider and the booking keeps its
// original one, mirroring the reference behavior. On a miss the booking is
// left untouched.
func (s *Store) Reschedule(id, newStart, newEnd string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	idx := s.findSlotLocked(newStart, newEnd, "")
	if idx < 0 {
		return Booking{}, ErrSlotNotAvailable
	}

	// Free the old interval, then take the new one. The append does not
	// disturb idx because the match was found before it.
	s.slots = append(s.slots, b.slot())
	s.slots = append(s.slots[:idx], s.slots[idx+1:]...)

	b.Start, b.End = newStart, newEnd
	s.bookings[id] = b
	return b, nil
}

// Cancel removes the booking and appends its slot back to the pool.
func (s *Store) Cancel(id string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	delete(s.bookings, id)
	s.slots = append(s.slots, b.slot())
	return b, nil
}

// GetBooking returns the active booking for id.
func (s *Store) GetBooking(id string) (Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return b, nil
}

// findSlotLocked returns the pool index of the first slot matching start
// and end. An empty provider matches any provider.
func (s *Store) findSlotLocked(start, end, provider string) int {
	for i, sl := range s.slots {
		if sl.Start == start && sl.End == end && (provider == "" || sl.Provider == provider) {
			return i
		}
	}
	return -1
}
