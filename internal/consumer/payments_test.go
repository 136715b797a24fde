package consumer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
)

type fakeLifecycle struct {
	err    error
	calls  []string
	actors []domain.Actor
}

func (f *fakeLifecycle) MarkPaid(_ context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error) {
	f.calls = append(f.calls, "paid:"+bookingID)
	f.actors = append(f.actors, actor)
	return &models.BookingResponse{BookingID: bookingID}, f.err
}

func (f *fakeLifecycle) MarkPaymentFailed(_ context.Context, actor domain.Actor, bookingID, reason string) (*models.BookingResponse, error) {
	f.calls = append(f.calls, "failed:"+bookingID+":"+reason)
	f.actors = append(f.actors, actor)
	return &models.BookingResponse{BookingID: bookingID}, f.err
}

func TestPaymentConsumer_Handle(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		body      string
		err       error
		want      Outcome
		wantCalls []string
	}{
		{name: "paid", key: KeyPaymentPaid, body: `{"bookingId":"VB-1"}`, want: Ack, wantCalls: []string{"paid:VB-1"}},
		{name: "failed", key: KeyPaymentFailed, body: `{"bookingId":"VB-1","reason":"card declined"}`, want: Ack, wantCalls: []string{"failed:VB-1:card declined"}},
		{name: "malformed", key: KeyPaymentPaid, body: `{`, want: Ack},
		{name: "no booking", key: KeyPaymentPaid, body: `{}`, want: Ack},
		{name: "unknown key", key: "payment.refunded", body: `{"bookingId":"VB-1"}`, want: Ack},
		{
			name: "stale transition", key: KeyPaymentPaid, body: `{"bookingId":"VB-1"}`,
			err:  &domain.TransitionError{BookingID: "VB-1", Current: domain.StatusCancelled, Attempted: domain.StatusInProgress},
			want: Ack, wantCalls: []string{"paid:VB-1"},
		},
		{
			name: "storage outage", key: KeyPaymentPaid, body: `{"bookingId":"VB-1"}`,
			err:  fmt.Errorf("lifecycle: %w", domain.ErrPersistenceUnavailable),
			want: Requeue, wantCalls: []string{"paid:VB-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := &fakeLifecycle{err: tt.err}
			c := NewPaymentConsumer(lc, logger.NewNop())

			got := c.Handle(context.Background(), tt.key, []byte(tt.body))

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCalls, lc.calls)
			for _, a := range lc.actors {
				assert.True(t, a.IsSystem())
				assert.Equal(t, PaymentActorID, a.ID)
			}
		})
	}
}
