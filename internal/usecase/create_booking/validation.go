package create_booking

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// validateRequest checks the shape of the order; availability rules live in scheduling.ValidateBooking
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.VendorID) == "" {
		return fmt.Errorf("%w: vendorId is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if req.CustomerEmail == "" {
		return fmt.Errorf("%w: customerEmail is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		return fmt.Errorf("%w: customerEmail is not a valid address", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: eventDate is required", ErrInvalidInput)
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
	if strings.TrimSpace(req.EventLocation) == "" {
		return fmt.Errorf("%w: eventLocation is required", ErrInvalidInput)
	}
	if req.GuestCount <= 0 {
		return fmt.Errorf("%w: guestCount must be positive", ErrInvalidInput)
	}
	if req.Budget != nil && *req.Budget < 0 {
		return fmt.Errorf("%w: budget must not be negative", ErrInvalidInput)
	}
	for _, text := range []*string{req.EventDescription, req.SpecificRequirements, req.CustomerNotes} {
		if text != nil && len(*text) > domain.MaxNotesLength {
			return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
		}
	}
	return nil
}
