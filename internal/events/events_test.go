package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
)

type recordingPublisher struct {
	keys   []string
	bodies []any
	err    error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.keys = append(p.keys, key)
	p.bodies = append(p.bodies, v)
	return p.err
}

type recordingCache struct {
	vendors []string
}

func (c *recordingCache) Invalidate(_ context.Context, vendorID string) error {
	c.vendors = append(c.vendors, vendorID)
	return nil
}

func TestDispatcher_BookingChanged(t *testing.T) {
	pub := &recordingPublisher{}
	cache := &recordingCache{}
	d := NewDispatcher(pub, cache, logger.NewNop())
	d.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }

	b := &domain.Booking{
		BookingID:     "VB-1",
		VendorID:      "v1",
		CustomerID:    "c1",
		EventDate:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		SlotStart:     "09:00",
		SlotEnd:       "10:00",
		Status:        domain.StatusVendorAccepted,
		PaymentStatus: domain.PaymentPending,
		Timeline: []domain.TimelineEntry{
			{Status: domain.StatusVendorAccepted, ActorID: "v1"},
		},
	}
	d.BookingChanged(context.Background(), BookingKey(b.Status), b)

	assert.Equal(t, []string{"v1"}, cache.vendors)
	require.Equal(t, []string{"booking.vendor_accepted"}, pub.keys)
	event := pub.bodies[0].(BookingEvent)
	assert.Equal(t, "VB-1", event.BookingID)
	assert.Equal(t, "2025-06-02", event.EventDate)
	assert.Equal(t, "09:00-10:00", event.TimeSlot)
	assert.Equal(t, "v1", event.ActorID)
	assert.NotEmpty(t, event.EventID)
}

func TestDispatcher_PublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	d := NewDispatcher(pub, nil, logger.NewNop())

	assert.NotPanics(t, func() {
		d.ConfigChanged(context.Background(), "v1", []string{domain.FieldHolidays})
	})
	assert.Equal(t, []string{KeyConfigUpdated}, pub.keys)
}

func TestDispatcher_NilIsNoop(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.BookingChanged(context.Background(), KeyBookingCreated, &domain.Booking{})
	})
}
