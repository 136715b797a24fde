package get_availability

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	getAvailability "github.com/m04kA/SMC-EventScheduling/internal/usecase/get_availability"
)

// AvailabilityUseCase computes vendor availability
type AvailabilityUseCase interface {
	Day(ctx context.Context, req *getAvailability.DayRequest) (*domain.DayAvailability, error)
	Month(ctx context.Context, req *getAvailability.MonthRequest) ([]domain.DayAvailability, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
