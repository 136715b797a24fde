// Package scheduling holds the pure availability computations shared by the
// query and booking paths. Nothing here performs I/O.
package scheduling

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// GenerateSlots computes the bookability of one vendor day.
// bookings may contain other dates or cancelled rows; they are ignored.
func GenerateSlots(cfg *domain.AvailabilityConfig, date time.Time, bookings []*domain.Booking) domain.DayAvailability {
	day := domain.DayAvailability{
		Date:      domain.DateOf(date),
		MaxEvents: cfg.MaxEventsPerDay,
		Slots:     []domain.Slot{},
	}

	active := activeBookingsOn(date, bookings)
	day.BookedEvents = len(active)

	// 1. Holidays block the whole day
	if holiday, ok := cfg.HolidayOn(date); ok {
		day.Block = domain.DayHoliday
		day.Reason = holiday.Reason
		if day.Reason == "" {
			day.Reason = string(domain.DayHoliday)
		}
		return day
	}

	// 2. Non-working weekday
	hours := cfg.HoursFor(date)
	if !hours.IsWorking {
		day.Block = domain.DayClosed
		day.Reason = domain.ReasonClosed
		return day
	}

	// 3. Partition the working window
	starts := slotStarts(hours, cfg.SlotDurationMinutes, cfg.BufferMinutes)
	if len(starts) == 0 {
		day.Block = domain.DayNoSlots
		day.Reason = domain.ReasonNoSlots
		return day
	}

	for _, start := range starts {
		// slotStarts only yields starts whose end stays inside the window
		end, _ := start.AddMinutes(cfg.SlotDurationMinutes)
		slot := domain.Slot{StartTime: start, EndTime: end}

		for _, b := range active {
			if (b.SlotStart == start && b.SlotEnd == end) || slot.Overlaps(b.SlotStart, b.SlotEnd) {
				bookedBy := b.BookingID
				slot.IsBooked = true
				slot.BookedBy = &bookedBy
				slot.EventType = b.EventType
				break
			}
		}
		day.Slots = append(day.Slots, slot)
	}

	// 4. Daily capacity is a ceiling independent of free slots
	if day.BookedEvents >= cfg.MaxEventsPerDay {
		day.Block = domain.DayFullyBooked
		day.Reason = domain.ReasonFullyBooked
		return day
	}

	day.IsAvailable = true
	return day
}

// slotStarts returns the start of every slot of the window: each slot begins at the
// previous slot's end plus buffer, and slots running past the end are dropped.
// A window shorter than slot+buffer yields nothing.
func slotStarts(hours domain.WorkingHours, slotMinutes, bufferMinutes int) []types.TimeString {
	if slotMinutes <= 0 || bufferMinutes < 0 {
		return nil
	}
	window := hours.WindowMinutes()
	if window == 0 || slotMinutes+bufferMinutes > window {
		return nil
	}

	open, _ := hours.Start.Minutes()
	closeAt := open + window

	var starts []types.TimeString
	for start := open; start+slotMinutes <= closeAt; start += slotMinutes + bufferMinutes {
		ts, err := types.NewTimeStringFromMinutes(start)
		if err != nil {
			break
		}
		starts = append(starts, ts)
	}
	return starts
}

// activeBookingsOn filters non-cancelled bookings of date, ordered by slot start
// so BookedBy is stable regardless of input order
func activeBookingsOn(date time.Time, bookings []*domain.Booking) []*domain.Booking {
	out := make([]*domain.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.IsActive() || !domain.SameDate(b.EventDate, date) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SlotStart != out[j].SlotStart {
			return out[i].SlotStart.IsBefore(out[j].SlotStart)
		}
		return out[i].BookingID < out[j].BookingID
	})
	return out
}
