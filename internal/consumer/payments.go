// Package consumer drives booking payments from the payment collaborator's events.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

// Routing keys consumed from the payment collaborator
const (
	KeyPaymentPaid   = "payment.paid"
	KeyPaymentFailed = "payment.failed"
)

// PaymentActorID identifies the payment collaborator in booking timelines
const PaymentActorID = "payment-service"

// Outcome tells the loop how to settle a delivery
type Outcome int

const (
	Ack Outcome = iota
	Requeue
)

// PaymentEvent is the message body published by the payment collaborator
type PaymentEvent struct {
	EventID   string `json:"eventId"`
	BookingID string `json:"bookingId"`
	Reason    string `json:"reason,omitempty"`
}

// Lifecycle is the part of the booking lifecycle driven by payments
type Lifecycle interface {
	MarkPaid(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error)
	MarkPaymentFailed(ctx context.Context, actor domain.Actor, bookingID, reason string) (*models.BookingResponse, error)
}

// Logger is the printf-style logger of the service
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// PaymentConsumer applies payment outcomes to bookings
type PaymentConsumer struct {
	lifecycle Lifecycle
	actor     domain.Actor
	logger    Logger
}

func NewPaymentConsumer(lifecycle Lifecycle, logger Logger) *PaymentConsumer {
	return &PaymentConsumer{
		lifecycle: lifecycle,
		actor:     domain.SystemActor(PaymentActorID),
		logger:    logger,
	}
}

// Run settles deliveries until ctx is done or the channel closes
func (c *PaymentConsumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("PaymentConsumer: delivery channel closed")
				return
			}
			switch c.Handle(ctx, d.RoutingKey, d.Body) {
			case Requeue:
				if err := d.Nack(false, true); err != nil {
					c.logger.Error("PaymentConsumer: nack failed: %v", err)
				}
			default:
				if err := d.Ack(false); err != nil {
					c.logger.Error("PaymentConsumer: ack failed: %v", err)
				}
			}
		}
	}
}

// Handle applies one message. Only storage outages are requeued; bad or stale messages are dropped.
func (c *PaymentConsumer) Handle(ctx context.Context, key string, body []byte) Outcome {
	var event PaymentEvent
	if err := json.Unmarshal(body, &event); err != nil || strings.TrimSpace(event.BookingID) == "" {
		c.logger.Warn("PaymentConsumer: dropping malformed %s message: %v", key, err)
		return Ack
	}

	var err error
	switch key {
	case KeyPaymentPaid:
		_, err = c.lifecycle.MarkPaid(ctx, c.actor, event.BookingID)
	case KeyPaymentFailed:
		_, err = c.lifecycle.MarkPaymentFailed(ctx, c.actor, event.BookingID, event.Reason)
	default:
		c.logger.Warn("PaymentConsumer: unexpected routing key %s", key)
		return Ack
	}

	switch {
	case err == nil:
		c.logger.Info("PaymentConsumer: applied %s to booking=%s", key, event.BookingID)
		return Ack
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		c.logger.Error("PaymentConsumer: %s for booking=%s will be retried: %v", key, event.BookingID, err)
		return Requeue
	default:
		c.logger.Warn("PaymentConsumer: dropping %s for booking=%s: %v", key, event.BookingID, err)
		return Ack
	}
}
