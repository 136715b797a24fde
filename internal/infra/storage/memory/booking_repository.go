package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
)

// BookingRepository stores bookings in memory
type BookingRepository struct {
	store *Store
}

// Create inserts the booking unless an active booking already overlaps its slot
func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, exists := r.store.bookings[b.BookingID]; exists {
		return nil, storage.ErrSlotTaken
	}
	for _, other := range r.store.bookings {
		if other.VendorID != b.VendorID || !other.IsActive() || !domain.SameDate(other.EventDate, b.EventDate) {
			continue
		}
		if other.SlotStart == b.SlotStart || (other.SlotStart.IsBefore(b.SlotEnd) && other.SlotEnd.IsAfter(b.SlotStart)) {
			return nil, storage.ErrSlotTaken
		}
	}

	now := time.Now().UTC()
	created := cloneBooking(b)
	if created.ID == "" {
		created.ID = uuid.NewString()
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = created.CreatedAt
	r.store.bookings[created.BookingID] = created

	return cloneBooking(created), nil
}

// GetByBookingID returns a copy of the booking
func (r *BookingRepository) GetByBookingID(_ context.Context, bookingID string) (*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	b, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// GetByCustomer lists a customer's bookings, newest first
func (r *BookingRepository) GetByCustomer(_ context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.store.bookings {
		if b.CustomerID != customerID || (status != nil && b.Status != *status) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].BookingID > out[j].BookingID
	})
	return out, nil
}

// GetByVendor lists a vendor's bookings ordered by date and slot
func (r *BookingRepository) GetByVendor(_ context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*domain.Booking, 0)
	for _, b := range r.store.bookings {
		if b.VendorID != filter.VendorID {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		date := domain.DateOf(b.EventDate)
		if filter.StartDate != nil && date.Before(domain.DateOf(*filter.StartDate)) {
			continue
		}
		if filter.EndDate != nil && date.After(domain.DateOf(*filter.EndDate)) {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EventDate.Equal(out[j].EventDate) {
			return out[i].EventDate.Before(out[j].EventDate)
		}
		return out[i].SlotStart.IsBefore(out[j].SlotStart)
	})
	return out, nil
}

// UpdateStatus applies change only while the booking is still in expected
func (r *BookingRepository) UpdateStatus(_ context.Context, bookingID string, expected domain.BookingStatus, change domain.StatusChange) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	if b.Status != expected {
		return nil, storage.ErrStatusMismatch
	}
	if change.ExpectedPayment != nil && b.PaymentStatus != *change.ExpectedPayment {
		return nil, storage.ErrStatusMismatch
	}

	b.Apply(change)
	return cloneBooking(b), nil
}

// SetRating stores a review on a completed, unrated booking
func (r *BookingRepository) SetRating(_ context.Context, bookingID string, rating int, review *string, at time.Time) (*domain.Booking, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	b, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, storage.ErrBookingNotFound
	}
	if b.Status != domain.StatusCompleted {
		return nil, storage.ErrStatusMismatch
	}
	if b.Rating != nil {
		return nil, storage.ErrAlreadyRated
	}

	b.Rating = &rating
	b.Review = review
	b.UpdatedAt = at.UTC()
	return cloneBooking(b), nil
}
