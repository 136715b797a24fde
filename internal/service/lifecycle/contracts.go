package lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// BookingRepository is the booking gateway
type BookingRepository interface {
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Booking, error)
	GetByCustomer(ctx context.Context, customerID string, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByVendor(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, expected domain.BookingStatus, change domain.StatusChange) (*domain.Booking, error)
	SetRating(ctx context.Context, bookingID string, rating int, review *string, at time.Time) (*domain.Booking, error)
}

// ConfigRepository reads the vendor's declared event types
type ConfigRepository interface {
	Get(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error)
}

// TransactionManager runs fn in a transaction
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher announces committed changes
type Dispatcher interface {
	BookingChanged(ctx context.Context, key string, b *domain.Booking)
}

// Metrics counts transitions
type Metrics interface {
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

type realTimeProvider struct{}

func (realTimeProvider) Now() time.Time {
	return time.Now()
}
