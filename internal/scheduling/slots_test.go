package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

var (
	monday  = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
)

func mondayConfig() *domain.AvailabilityConfig {
	return &domain.AvailabilityConfig{
		VendorID: "vendor-1",
		WorkingHours: map[time.Weekday]domain.WorkingHours{
			time.Monday: {Start: "09:00", End: "12:00", IsWorking: true},
		},
		SlotDurationMinutes: 60,
		BufferMinutes:       0,
		MaxEventsPerDay:     3,
	}
}

func booking(id string, date time.Time, start, end types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		BookingID: id,
		EventDate: date,
		SlotStart: start,
		SlotEnd:   end,
		EventType: "birthday",
		Status:    status,
	}
}

func slotLabels(day domain.DayAvailability) []string {
	labels := make([]string, 0, len(day.Slots))
	for _, s := range day.Slots {
		labels = append(labels, s.Label())
	}
	return labels
}

func TestGenerateSlots_PartitionsWorkingWindow(t *testing.T) {
	day := GenerateSlots(mondayConfig(), monday, nil)

	assert.True(t, day.IsAvailable)
	assert.Empty(t, day.Reason)
	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}, slotLabels(day))
	assert.Equal(t, 3, day.MaxEvents)
	assert.Equal(t, 0, day.BookedEvents)
}

func TestGenerateSlots_BufferSeparatesSlots(t *testing.T) {
	cfg := mondayConfig()
	cfg.WorkingHours[time.Monday] = domain.WorkingHours{Start: "09:00", End: "18:00", IsWorking: true}
	cfg.BufferMinutes = 30

	day := GenerateSlots(cfg, monday, nil)

	assert.Equal(t, []string{
		"09:00-10:00", "10:30-11:30", "12:00-13:00", "13:30-14:30", "15:00-16:00", "16:30-17:30",
	}, slotLabels(day))
}

func TestGenerateSlots_WindowShorterThanSlotPlusBuffer(t *testing.T) {
	cfg := mondayConfig()
	cfg.WorkingHours[time.Monday] = domain.WorkingHours{Start: "09:00", End: "10:00", IsWorking: true}
	cfg.BufferMinutes = 30

	day := GenerateSlots(cfg, monday, nil)

	assert.False(t, day.IsAvailable)
	assert.Equal(t, domain.DayNoSlots, day.Block)
	assert.Empty(t, day.Slots)
}

func TestGenerateSlots_FullyBookedOverridesFreeSlots(t *testing.T) {
	cfg := mondayConfig()
	cfg.MaxEventsPerDay = 1

	day := GenerateSlots(cfg, monday, []*domain.Booking{
		booking("VB-1", monday, "09:00", "10:00", domain.StatusVendorAccepted),
	})

	assert.False(t, day.IsAvailable)
	assert.Equal(t, domain.ReasonFullyBooked, day.Reason)
	assert.Equal(t, domain.DayFullyBooked, day.Block)
	assert.Equal(t, 1, day.BookedEvents)
	assert.Equal(t, 2, day.FreeSlots())
}

func TestGenerateSlots_Holiday(t *testing.T) {
	cfg := mondayConfig()
	cfg.Holidays = []domain.Holiday{{Date: monday, Reason: "Holi"}}

	day := GenerateSlots(cfg, monday, nil)

	assert.False(t, day.IsAvailable)
	assert.Equal(t, "Holi", day.Reason)
	assert.Equal(t, domain.DayHoliday, day.Block)
	assert.Empty(t, day.Slots)
}

func TestGenerateSlots_ClosedWeekday(t *testing.T) {
	day := GenerateSlots(mondayConfig(), tuesday, nil)

	assert.False(t, day.IsAvailable)
	assert.Equal(t, domain.ReasonClosed, day.Reason)
	assert.Empty(t, day.Slots)
}

func TestGenerateSlots_MarksOverlappingBookings(t *testing.T) {
	day := GenerateSlots(mondayConfig(), monday, []*domain.Booking{
		booking("VB-1", monday, "09:30", "10:30", domain.StatusPending),
		booking("VB-2", monday, "11:00", "12:00", domain.StatusCancelled),
		booking("VB-3", tuesday, "11:00", "12:00", domain.StatusPending),
	})

	require.Len(t, day.Slots, 3)
	assert.True(t, day.Slots[0].IsBooked)
	assert.True(t, day.Slots[1].IsBooked)
	assert.False(t, day.Slots[2].IsBooked, "cancelled and other-date bookings are ignored")
	require.NotNil(t, day.Slots[0].BookedBy)
	assert.Equal(t, "VB-1", *day.Slots[0].BookedBy)
	assert.Equal(t, "birthday", day.Slots[0].EventType)
	assert.Equal(t, 1, day.BookedEvents)
}

func TestGenerateSlots_Deterministic(t *testing.T) {
	cfg := mondayConfig()
	a := booking("VB-A", monday, "10:00", "11:00", domain.StatusPending)
	b := booking("VB-B", monday, "10:00", "11:00", domain.StatusPending)

	first := GenerateSlots(cfg, monday, []*domain.Booking{a, b})
	second := GenerateSlots(cfg, monday, []*domain.Booking{b, a})

	assert.Equal(t, first, second)
	assert.Equal(t, first, GenerateSlots(cfg, monday, []*domain.Booking{a, b}))
}

func TestGenerateSlots_CapacityPropertyAcrossLoads(t *testing.T) {
	cfg := mondayConfig()
	cfg.WorkingHours[time.Monday] = domain.WorkingHours{Start: "08:00", End: "20:00", IsWorking: true}

	for limit := 1; limit <= 4; limit++ {
		cfg.MaxEventsPerDay = limit
		var bookings []*domain.Booking
		for i := 0; i < 6; i++ {
			start, _ := types.NewTimeStringFromMinutes(8*60 + i*60)
			end, _ := start.AddMinutes(60)
			bookings = append(bookings, booking(start.String(), monday, start, end, domain.StatusPending))

			day := GenerateSlots(cfg, monday, bookings)
			if day.BookedEvents >= limit {
				assert.False(t, day.IsAvailable, "limit=%d booked=%d", limit, day.BookedEvents)
			} else {
				assert.True(t, day.IsAvailable, "limit=%d booked=%d", limit, day.BookedEvents)
			}
		}
	}
}
