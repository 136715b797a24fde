package get_vendor_bookings

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

type BookingService interface {
	ListVendorBookings(ctx context.Context, actor domain.Actor, req *models.ListVendorBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
