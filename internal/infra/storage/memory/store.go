// Package memory is an in-process persistence backend for local runs and tests.
// It honours the same contracts as the database backends, including the
// one-active-booking-per-slot guarantee.
package memory

import (
	"sync"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// Store holds configs and bookings behind a single lock
type Store struct {
	mu       sync.RWMutex
	configs  map[string]*domain.AvailabilityConfig
	bookings map[string]*domain.Booking // keyed by BookingID
}

func NewStore() *Store {
	return &Store{
		configs:  make(map[string]*domain.AvailabilityConfig),
		bookings: make(map[string]*domain.Booking),
	}
}

// Bookings returns the booking repository view
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Configs returns the configuration repository view
func (s *Store) Configs() *ConfigRepository {
	return &ConfigRepository{store: s}
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	out := *b
	out.SelectedServices = append([]string(nil), b.SelectedServices...)
	out.Timeline = append([]domain.TimelineEntry(nil), b.Timeline...)
	return &out
}
