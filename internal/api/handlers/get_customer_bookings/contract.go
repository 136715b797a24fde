package get_customer_bookings

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

type BookingService interface {
	ListCustomerBookings(ctx context.Context, actor domain.Actor, status *string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
