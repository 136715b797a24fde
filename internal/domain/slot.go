package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// DayBlock says why a day is not bookable
type DayBlock string

const (
	DayOpen        DayBlock = ""
	DayHoliday     DayBlock = "holiday"
	DayClosed      DayBlock = "closed"
	DayFullyBooked DayBlock = "fully_booked"
	DayNoSlots     DayBlock = "no_slots"
)

// Slot is one bookable window of a day
type Slot struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	EventType string
	IsBooked  bool
	BookedBy  *string // bookingId of the occupying booking
}

// Label formats the slot as "HH:MM-HH:MM"
func (s Slot) Label() string {
	return FormatTimeSlot(s.StartTime, s.EndTime)
}

// Overlaps reports whether [start,end) intersects the slot; touching edges do not overlap
func (s Slot) Overlaps(start, end types.TimeString) bool {
	return start.IsBefore(s.EndTime) && end.IsAfter(s.StartTime)
}

// DayAvailability is the derived bookability of one vendor day
type DayAvailability struct {
	Date         time.Time
	IsAvailable  bool
	Reason       string
	Block        DayBlock
	Slots        []Slot
	MaxEvents    int
	BookedEvents int
}

// FindSlot looks a slot up by its start time
func (d DayAvailability) FindSlot(start types.TimeString) (Slot, bool) {
	for _, s := range d.Slots {
		if s.StartTime == start {
			return s, true
		}
	}
	return Slot{}, false
}

// FreeSlots counts unbooked slots
func (d DayAvailability) FreeSlots() int {
	free := 0
	for _, s := range d.Slots {
		if !s.IsBooked {
			free++
		}
	}
	return free
}

// FormatTimeSlot renders "HH:MM-HH:MM"
func FormatTimeSlot(start, end types.TimeString) string {
	return start.String() + "-" + end.String()
}

// ParseTimeSlot parses "HH:MM-HH:MM"
func ParseTimeSlot(s string) (types.TimeString, types.TimeString, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: time slot %q", types.ErrInvalidTimeString, s)
	}
	start, err := types.NewTimeStringFromString(parts[0])
	if err != nil {
		return "", "", err
	}
	end, err := types.NewTimeStringFromString(parts[1])
	if err != nil {
		return "", "", err
	}
	if !start.IsBefore(end) {
		return "", "", fmt.Errorf("%w: time slot %q ends before it starts", types.ErrInvalidTimeString, s)
	}
	return start, end, nil
}
