package create_booking

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	createBooking "github.com/m04kA/SMC-EventScheduling/internal/usecase/create_booking"
)

// CreateBookingUseCase places an order for the authenticated customer
type CreateBookingUseCase interface {
	Execute(ctx context.Context, actor domain.Actor, req *createBooking.Request) (*domain.Booking, error)
}

// Logger is the printf-style logger of the service
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
