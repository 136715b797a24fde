package scheduling

import (
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// Request is a concrete booking attempt to check against availability
type Request struct {
	VendorID    string
	Date        time.Time
	SlotStart   types.TimeString
	SlotEnd     types.TimeString // optional; must match the generated slot when set
	EventType   string
	GuestCount  int
	RequestedAt time.Time // carries the vendor's location
}

// Acceptance is proof that a request passed validation at ValidatedAt.
// It does not reserve the slot; the create path validates again at commit time.
type Acceptance struct {
	VendorID    string
	Date        time.Time
	Slot        domain.Slot
	EventType   string
	Declared    *domain.EventType
	GuestCount  int
	ValidatedAt time.Time
}

// ValidateBooking runs the ordered booking checks; the first failure wins.
// day must be GenerateSlots output for req.Date.
func ValidateBooking(cfg *domain.AvailabilityConfig, day domain.DayAvailability, req Request) (*Acceptance, error) {
	now := req.RequestedAt
	date := domain.DateOf(req.Date)
	today := domain.DateOf(now)

	// 1. Not in the past
	if date.Before(today) {
		return nil, domain.Reject(domain.RejectPastDate, "%s is before %s", date.Format(domain.DateFormat), today.Format(domain.DateFormat))
	}

	// 2. Advance-booking window
	if cfg.HasAdvanceBookingLimit() {
		lastDate := today.AddDate(0, 0, cfg.AdvanceBookingDays)
		if date.After(lastDate) {
			return nil, domain.Reject(domain.RejectTooFar, "bookings open until %s", lastDate.Format(domain.DateFormat))
		}
	}

	// 3. Notice period against wall-clock time
	slotStart, err := req.SlotStart.On(date, now.Location())
	if err != nil {
		return nil, domain.Reject(domain.RejectInvalidSlot, "slot start %q", req.SlotStart)
	}
	earliest := now.Add(time.Duration(cfg.MinNoticeHours) * time.Hour)
	if slotStart.Before(earliest) {
		return nil, domain.Reject(domain.RejectTooSoon, "requires %d hours notice", cfg.MinNoticeHours)
	}

	// 4. Day-level availability
	if !day.IsAvailable {
		return nil, domain.Reject(blockReason(day.Block), "%s", day.Reason)
	}

	// 5. Slot exists and is free
	slot, ok := day.FindSlot(req.SlotStart)
	if !ok || (!req.SlotEnd.IsZero() && req.SlotEnd != slot.EndTime) {
		return nil, domain.Reject(domain.RejectInvalidSlot, "no slot starts at %s", req.SlotStart)
	}
	if slot.IsBooked {
		return nil, domain.Reject(domain.RejectSlotTaken, "%s is already booked", slot.Label())
	}

	// 6. Event type and guest capacity
	acceptance := &Acceptance{
		VendorID:    req.VendorID,
		Date:        date,
		Slot:        slot,
		EventType:   req.EventType,
		GuestCount:  req.GuestCount,
		ValidatedAt: now,
	}
	if req.EventType != "" && len(cfg.EventTypes) > 0 {
		declared, found := cfg.FindEventType(req.EventType)
		if !found {
			return nil, domain.Reject(domain.RejectUnknownEventType, "%q is not offered", req.EventType)
		}
		if declared.HasCapacityRange() && (req.GuestCount < declared.MinGuests || req.GuestCount > declared.MaxGuests) {
			return nil, domain.Reject(domain.RejectOutsideCapacity, "%s accepts %d-%d guests",
				declared.Type, declared.MinGuests, declared.MaxGuests)
		}
		acceptance.Declared = &declared
		acceptance.EventType = declared.Type
	}

	return acceptance, nil
}

func blockReason(block domain.DayBlock) domain.RejectionReason {
	switch block {
	case domain.DayHoliday:
		return domain.RejectHoliday
	case domain.DayFullyBooked:
		return domain.RejectFullyBooked
	default:
		return domain.RejectClosed
	}
}
