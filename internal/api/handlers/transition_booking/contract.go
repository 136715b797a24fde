package transition_booking

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

// LifecycleService moves bookings forward on behalf of the caller
type LifecycleService interface {
	Accept(ctx context.Context, actor domain.Actor, bookingID string, quote *float64) (*models.BookingResponse, error)
	RequestPayment(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error)
	MarkPaid(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error)
	MarkPaymentFailed(ctx context.Context, actor domain.Actor, bookingID, reason string) (*models.BookingResponse, error)
	Complete(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
