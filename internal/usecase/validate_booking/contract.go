package validate_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// BookingRepository reads the bookings of one vendor day
type BookingRepository interface {
	GetByVendor(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error)
}

// ConfigRepository reads a vendor's availability configuration
type ConfigRepository interface {
	Get(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error)
}

// Metrics counts rejections by reason
type Metrics interface {
	RecordRejection(reason string)
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
