package validate_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/scheduling"
	validateBooking "github.com/m04kA/SMC-EventScheduling/internal/usecase/validate_booking"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	VendorID   string `json:"vendorId"`
	Date       string `json:"date"`      // "2025-06-04"
	SlotStart  string `json:"slotStart"` // "10:30"
	SlotEnd    string `json:"slotEnd,omitempty"`
	EventType  string `json:"eventType"`
	GuestCount int    `json:"guestCount"`
}

// ValidateBookingResponse reports whether the request would be accepted right now
type ValidateBookingResponse struct {
	Valid       bool       `json:"valid"`
	Reason      string     `json:"reason,omitempty"`
	Message     string     `json:"message,omitempty"`
	TimeSlot    string     `json:"timeSlot,omitempty"`
	Price       *float64   `json:"price,omitempty"` // price of the declared event type
	ValidatedAt *time.Time `json:"validatedAt,omitempty"`
}

// ToUseCaseRequest parses the date and normalizes times to HH:MM
func (r *ValidateBookingRequest) ToUseCaseRequest() (*validateBooking.Request, error) {
	date, err := domain.ParseDate(strings.TrimSpace(r.Date))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	start, err := types.NewTimeStringFromString(strings.TrimSpace(r.SlotStart))
	if err != nil {
		return nil, fmt.Errorf("slotStart: %w", err)
	}

	var end types.TimeString
	if s := strings.TrimSpace(r.SlotEnd); s != "" {
		if end, err = types.NewTimeStringFromString(s); err != nil {
			return nil, fmt.Errorf("slotEnd: %w", err)
		}
	}

	return &validateBooking.Request{
		VendorID:   strings.TrimSpace(r.VendorID),
		Date:       date,
		SlotStart:  start,
		SlotEnd:    end,
		EventType:  strings.TrimSpace(r.EventType),
		GuestCount: r.GuestCount,
	}, nil
}

// FromAcceptance builds the positive answer
func FromAcceptance(a *scheduling.Acceptance) *ValidateBookingResponse {
	validatedAt := a.ValidatedAt
	resp := &ValidateBookingResponse{
		Valid:       true,
		TimeSlot:    a.Slot.Label(),
		ValidatedAt: &validatedAt,
	}
	if a.Declared != nil {
		price := a.Declared.Price
		resp.Price = &price
	}
	return resp
}

// FromRejection builds the negative answer
func FromRejection(e *domain.RejectionError) *ValidateBookingResponse {
	return &ValidateBookingResponse{
		Valid:   false,
		Reason:  string(e.Reason),
		Message: e.Detail,
	}
}
