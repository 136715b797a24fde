package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// BookingRepository is the part of the booking gateway used while placing an order
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByVendor(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, expected domain.BookingStatus, change domain.StatusChange) (*domain.Booking, error)
}

// ConfigRepository reads a vendor's availability configuration
type ConfigRepository interface {
	Get(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error)
}

// TransactionManager runs fn in a serializable transaction
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher announces committed changes
type Dispatcher interface {
	BookingChanged(ctx context.Context, key string, b *domain.Booking)
}

// Metrics counts booking outcomes
type Metrics interface {
	RecordBookingCreated()
	RecordBookingConflict()
	RecordRejection(reason string)
	RecordTransition(status string)
}

// TimeProvider supplies the current time (replaced in tests)
type TimeProvider interface {
	Now() time.Time
}

// Logger is the printf-style logger of the service
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider returns the wall clock
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
