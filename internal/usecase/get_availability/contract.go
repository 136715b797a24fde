package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// BookingRepository reads a vendor's bookings
type BookingRepository interface {
	GetByVendor(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error)
}

// ConfigRepository reads a vendor's availability configuration
type ConfigRepository interface {
	Get(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error)
}

// MonthCache stores rendered months; see cache.AvailabilityCache
type MonthCache interface {
	GetMonth(ctx context.Context, vendorID string, year int, month time.Month) ([]domain.DayAvailability, int64, bool, error)
	SetMonth(ctx context.Context, vendorID string, version int64, year int, month time.Month, days []domain.DayAvailability) error
}

// Metrics records cache efficiency
type Metrics interface {
	RecordCacheLookup(hit bool)
}

// Logger is the printf-style logger of the service
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
