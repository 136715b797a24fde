package validate_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage/memory"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type rejections []string

func (r *rejections) RecordRejection(reason string) { *r = append(*r, reason) }

func newUseCase(store *memory.Store, m Metrics) *UseCase {
	// Sunday 2025-06-01 10:00 UTC
	return NewUseCase(store.Bookings(), store.Configs(), m, time.UTC, logger.NewNop()).
		WithTimeProvider(fixedTime{time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)})
}

func TestUseCase_AcceptsFreeSlot(t *testing.T) {
	acceptance, err := newUseCase(memory.NewStore(), nil).Execute(context.Background(), &Request{
		VendorID:   "vendor-1",
		Date:       time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		SlotStart:  "10:30",
		EventType:  "birthday",
		GuestCount: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "10:30-11:30", acceptance.Slot.Label())
	assert.Nil(t, acceptance.Declared)
}

func TestUseCase_DoesNotReserve(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store, nil)
	req := &Request{VendorID: "vendor-1", Date: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), SlotStart: "09:00", EventType: "birthday"}

	_, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	_, err = uc.Execute(context.Background(), req)
	require.NoError(t, err)
}

func TestUseCase_Rejections(t *testing.T) {
	store := memory.NewStore()
	cfg := domain.DefaultAvailabilityConfig("vendor-1")
	cfg.Holidays = []domain.Holiday{{Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Reason: "Inventory"}}
	_, err := store.Configs().Save(context.Background(), "vendor-1", domain.ConfigPatch{}, cfg)
	require.NoError(t, err)

	tests := []struct {
		name   string
		date   time.Time
		start  types.TimeString
		reason domain.RejectionReason
	}{
		{name: "past", date: time.Date(2025, 5, 31, 0, 0, 0, 0, time.UTC), start: "09:00", reason: domain.RejectPastDate},
		{name: "too far", date: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), start: "09:00", reason: domain.RejectTooFar},
		{name: "too soon", date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), start: "09:00", reason: domain.RejectTooSoon},
		{name: "holiday", date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), start: "09:00", reason: domain.RejectHoliday},
		{name: "closed sunday", date: time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), start: "10:00", reason: domain.RejectClosed},
		{name: "off grid", date: time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC), start: "09:15", reason: domain.RejectInvalidSlot},
	}

	var recorded rejections
	uc := newUseCase(store, &recorded)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), &Request{
				VendorID:  "vendor-1",
				Date:      tt.date,
				SlotStart: tt.start,
				EventType: "birthday",
			})
			var rejection *domain.RejectionError
			require.ErrorAs(t, err, &rejection)
			assert.Equal(t, tt.reason, rejection.Reason)
		})
	}
	assert.Len(t, recorded, len(tests))
}

func TestUseCase_InvalidInput(t *testing.T) {
	_, err := newUseCase(memory.NewStore(), nil).Execute(context.Background(), &Request{VendorID: "vendor-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
