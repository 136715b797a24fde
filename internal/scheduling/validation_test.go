package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

func weekConfig() *domain.AvailabilityConfig {
	hours := domain.WorkingHours{Start: "09:00", End: "18:00", IsWorking: true}
	cfg := &domain.AvailabilityConfig{
		VendorID:            "vendor-1",
		WorkingHours:        map[time.Weekday]domain.WorkingHours{},
		SlotDurationMinutes: 60,
		MaxEventsPerDay:     3,
		AdvanceBookingDays:  30,
		MinNoticeHours:      24,
	}
	for _, d := range domain.Weekdays {
		cfg.WorkingHours[d] = hours
	}
	return cfg
}

func validate(t *testing.T, cfg *domain.AvailabilityConfig, req Request, bookings ...*domain.Booking) (*Acceptance, error) {
	t.Helper()
	day := GenerateSlots(cfg, req.Date, bookings)
	return ValidateBooking(cfg, day, req)
}

func requireReason(t *testing.T, err error, reason domain.RejectionReason) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidationRejected)
	var rej *domain.RejectionError
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, reason, rej.Reason)
}

var requestedAt = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC) // Monday 10:00

func TestValidateBooking_NoticePeriod(t *testing.T) {
	cfg := weekConfig()

	acc, err := validate(t, cfg, Request{
		VendorID:    "vendor-1",
		Date:        requestedAt.AddDate(0, 0, 2),
		SlotStart:   "10:00",
		SlotEnd:     "11:00",
		RequestedAt: requestedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "10:00-11:00", acc.Slot.Label())
	assert.Equal(t, requestedAt, acc.ValidatedAt)

	_, err = validate(t, cfg, Request{Date: requestedAt, SlotStart: "15:00", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectTooSoon)
}

func TestValidateBooking_NoticeUsesWallClock(t *testing.T) {
	cfg := weekConfig()
	cfg.MinNoticeHours = 2

	// next day 09:00 is 23h away, allowed with 2h notice
	_, err := validate(t, cfg, Request{Date: requestedAt.AddDate(0, 0, 1), SlotStart: "09:00", RequestedAt: requestedAt})
	require.NoError(t, err)

	// same day 11:00 is 1h away
	_, err = validate(t, cfg, Request{Date: requestedAt, SlotStart: "11:00", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectTooSoon)

	// same day 12:00 is exactly 2h away
	_, err = validate(t, cfg, Request{Date: requestedAt, SlotStart: "12:00", RequestedAt: requestedAt})
	require.NoError(t, err)
}

func TestValidateBooking_PastDate(t *testing.T) {
	_, err := validate(t, weekConfig(), Request{Date: requestedAt.AddDate(0, 0, -1), SlotStart: "10:00", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectPastDate)
}

func TestValidateBooking_AdvanceWindow(t *testing.T) {
	cfg := weekConfig()

	_, err := validate(t, cfg, Request{Date: requestedAt.AddDate(0, 0, 30), SlotStart: "10:00", RequestedAt: requestedAt})
	require.NoError(t, err)

	_, err = validate(t, cfg, Request{Date: requestedAt.AddDate(0, 0, 31), SlotStart: "10:00", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectTooFar)

	cfg.AdvanceBookingDays = 0
	_, err = validate(t, cfg, Request{Date: requestedAt.AddDate(1, 0, 0), SlotStart: "10:00", RequestedAt: requestedAt})
	require.NoError(t, err, "0 means no limit")
}

func TestValidateBooking_DayBlocks(t *testing.T) {
	date := requestedAt.AddDate(0, 0, 3)

	holidayCfg := weekConfig()
	holidayCfg.Holidays = []domain.Holiday{{Date: domain.DateOf(date), Reason: "Diwali"}}
	_, err := validate(t, holidayCfg, Request{Date: date, SlotStart: "10:00", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectHoliday)

	closedCfg := weekConfig()
	delete(closedCfg.WorkingHours, date.Weekday())
	_, err = validate(t, closedCfg, Request{Date: date, SlotStart: "10:00", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectClosed)

	fullCfg := weekConfig()
	fullCfg.MaxEventsPerDay = 1
	_, err = validate(t, fullCfg, Request{Date: date, SlotStart: "10:00", RequestedAt: requestedAt},
		booking("VB-1", date, "14:00", "15:00", domain.StatusPending))
	requireReason(t, err, domain.RejectFullyBooked)
}

func TestValidateBooking_SlotChecks(t *testing.T) {
	date := requestedAt.AddDate(0, 0, 3)
	existing := booking("VB-1", date, "10:00", "11:00", domain.StatusPaymentPending)

	_, err := validate(t, weekConfig(), Request{Date: date, SlotStart: "10:00", RequestedAt: requestedAt}, existing)
	requireReason(t, err, domain.RejectSlotTaken)

	_, err = validate(t, weekConfig(), Request{Date: date, SlotStart: "10:30", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectInvalidSlot)

	_, err = validate(t, weekConfig(), Request{Date: date, SlotStart: "10:00", SlotEnd: "12:00", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectInvalidSlot)

	existing.Status = domain.StatusCancelled
	_, err = validate(t, weekConfig(), Request{Date: date, SlotStart: "10:00", RequestedAt: requestedAt}, existing)
	require.NoError(t, err, "cancelled bookings free the slot")
}

func TestValidateBooking_FirstFailureWins(t *testing.T) {
	cfg := weekConfig()
	past := requestedAt.AddDate(0, 0, -7)
	cfg.Holidays = []domain.Holiday{{Date: domain.DateOf(past), Reason: "closed for renovation"}}

	_, err := validate(t, cfg, Request{Date: past, SlotStart: "10:30", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectPastDate)
}

func TestValidateBooking_GuestCapacity(t *testing.T) {
	cfg := weekConfig()
	cfg.EventTypes = []domain.EventType{
		{Type: "wedding", DurationMinutes: 480, Price: 50000, MinGuests: 50, MaxGuests: 300},
		{Type: "birthday", DurationMinutes: 180, Price: 25000},
	}
	date := requestedAt.AddDate(0, 0, 3)

	_, err := validate(t, cfg, Request{Date: date, SlotStart: "10:00", EventType: "wedding", GuestCount: 10, RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectOutsideCapacity)

	acc, err := validate(t, cfg, Request{Date: date, SlotStart: "10:00", EventType: "Wedding", GuestCount: 120, RequestedAt: requestedAt})
	require.NoError(t, err)
	require.NotNil(t, acc.Declared)
	assert.Equal(t, "wedding", acc.EventType)
	assert.Equal(t, 50000.0, acc.Declared.Price)

	_, err = validate(t, cfg, Request{Date: date, SlotStart: "10:00", EventType: "birthday", GuestCount: 1000, RequestedAt: requestedAt})
	require.NoError(t, err, "no declared range means no limit")

	_, err = validate(t, cfg, Request{Date: date, SlotStart: "10:00", EventType: "concert", RequestedAt: requestedAt})
	requireReason(t, err, domain.RejectUnknownEventType)
}

func TestValidateBooking_RespectsVendorZone(t *testing.T) {
	cfg := weekConfig()
	cfg.MinNoticeHours = 0
	ist := time.FixedZone("IST", 5*3600+1800)

	// 20:00 UTC Monday is 01:30 Tuesday in IST, so Monday is already past for the vendor
	now := time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC).In(ist)
	_, err := validate(t, cfg, Request{Date: monday, SlotStart: "17:00", RequestedAt: now})
	requireReason(t, err, domain.RejectPastDate)
}
