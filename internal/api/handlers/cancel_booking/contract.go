package cancel_booking

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

type BookingService interface {
	Cancel(ctx context.Context, actor domain.Actor, bookingID, reason string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
