// Package events announces booking and configuration changes to the rest of the platform.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// Routing keys
const (
	KeyBookingCreated = "booking.created"
	KeyConfigUpdated  = "availability.config_updated"
	KeyPaymentFailed  = "booking.payment_failed"
	KeyBookingRated   = "booking.rated"
	bookingKeyPrefix  = "booking."
)

// BookingKey is the routing key of a lifecycle status change
func BookingKey(status domain.BookingStatus) string {
	return bookingKeyPrefix + string(status)
}

// BookingEvent is the message body published for every booking change
type BookingEvent struct {
	EventID       string    `json:"eventId"`
	Type          string    `json:"type"`
	BookingID     string    `json:"bookingId"`
	VendorID      string    `json:"vendorId"`
	CustomerID    string    `json:"customerId"`
	EventDate     string    `json:"eventDate"`
	TimeSlot      string    `json:"timeSlot"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`
	TotalAmount   *float64  `json:"totalAmount,omitempty"`
	ActorID       string    `json:"actorId,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// ConfigEvent is published after a vendor changed its calendar
type ConfigEvent struct {
	EventID    string    `json:"eventId"`
	Type       string    `json:"type"`
	VendorID   string    `json:"vendorId"`
	Fields     []string  `json:"fields"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher sends JSON messages; implemented by mq.Publisher
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Invalidator drops cached availability of a vendor
type Invalidator interface {
	Invalidate(ctx context.Context, vendorID string) error
}

// Logger receives delivery failures
type Logger interface {
	Warn(format string, v ...interface{})
}

// Dispatcher fans a committed change out to the cache and the message bus.
// Failures are logged and never undo the change.
type Dispatcher struct {
	publisher Publisher
	cache     Invalidator
	logger    Logger
	now       func() time.Time
}

// NewDispatcher creates a dispatcher; publisher and cache may be nil
func NewDispatcher(publisher Publisher, cache Invalidator, logger Logger) *Dispatcher {
	return &Dispatcher{publisher: publisher, cache: cache, logger: logger, now: time.Now}
}

// BookingChanged invalidates the vendor's cached months and publishes the event under key
func (d *Dispatcher) BookingChanged(ctx context.Context, key string, b *domain.Booking) {
	if d == nil {
		return
	}
	d.invalidate(ctx, b.VendorID)

	if d.publisher == nil {
		return
	}
	var actorID string
	if n := len(b.Timeline); n > 0 {
		actorID = b.Timeline[n-1].ActorID
	}
	event := BookingEvent{
		EventID:       uuid.NewString(),
		Type:          key,
		BookingID:     b.BookingID,
		VendorID:      b.VendorID,
		CustomerID:    b.CustomerID,
		EventDate:     b.EventDate.Format(domain.DateFormat),
		TimeSlot:      b.TimeSlot(),
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		TotalAmount:   b.TotalAmount,
		ActorID:       actorID,
		OccurredAt:    d.now().UTC(),
	}
	if err := d.publisher.PublishJSON(ctx, key, event); err != nil {
		d.logger.Warn("events: publish %s for booking %s failed: %v", key, b.BookingID, err)
	}
}

// ConfigChanged invalidates the vendor's cached months and publishes the changed field names
func (d *Dispatcher) ConfigChanged(ctx context.Context, vendorID string, fields []string) {
	if d == nil {
		return
	}
	d.invalidate(ctx, vendorID)

	if d.publisher == nil {
		return
	}
	event := ConfigEvent{
		EventID:    uuid.NewString(),
		Type:       KeyConfigUpdated,
		VendorID:   vendorID,
		Fields:     fields,
		OccurredAt: d.now().UTC(),
	}
	if err := d.publisher.PublishJSON(ctx, KeyConfigUpdated, event); err != nil {
		d.logger.Warn("events: publish %s for vendor %s failed: %v", KeyConfigUpdated, vendorID, err)
	}
}

func (d *Dispatcher) invalidate(ctx context.Context, vendorID string) {
	if d.cache == nil {
		return
	}
	if err := d.cache.Invalidate(ctx, vendorID); err != nil {
		d.logger.Warn("events: invalidate availability cache of vendor %s failed: %v", vendorID, err)
	}
}
