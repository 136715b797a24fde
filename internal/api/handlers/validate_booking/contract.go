package validate_booking

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/scheduling"
	validateBooking "github.com/m04kA/SMC-EventScheduling/internal/usecase/validate_booking"
)

// ValidateBookingUseCase checks a booking request without reserving the slot
type ValidateBookingUseCase interface {
	Execute(ctx context.Context, req *validateBooking.Request) (*scheduling.Acceptance, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
