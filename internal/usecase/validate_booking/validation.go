package validate_booking

import (
	"fmt"
	"strings"
)

// validateRequest checks the shape of the request; business rules live in scheduling.ValidateBooking
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.VendorID) == "" {
		return fmt.Errorf("%w: vendorId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.SlotStart.IsZero() {
		return fmt.Errorf("%w: slotStart is required", ErrInvalidInput)
	}
	if err := req.SlotStart.Validate(); err != nil {
		return fmt.Errorf("%w: slotStart: %v", ErrInvalidInput, err)
	}
	if !req.SlotEnd.IsZero() {
		if err := req.SlotEnd.Validate(); err != nil {
			return fmt.Errorf("%w: slotEnd: %v", ErrInvalidInput, err)
		}
	}
	if strings.TrimSpace(req.EventType) == "" {
		return fmt.Errorf("%w: eventType is required", ErrInvalidInput)
	}
	if req.GuestCount < 0 {
		return fmt.Errorf("%w: guestCount must not be negative", ErrInvalidInput)
	}
	return nil
}
