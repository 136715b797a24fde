package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	createBooking "github.com/m04kA/SMC-EventScheduling/internal/usecase/create_booking"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// CreateBookingRequest HTTP request model; the customer id comes from the token
type CreateBookingRequest struct {
	VendorID   string `json:"vendorId"`
	VendorName string `json:"vendorName,omitempty"`

	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`

	EventDate     string `json:"eventDate"` // "2025-06-04"
	SlotStart     string `json:"slotStart"` // "10:30"
	SlotEnd       string `json:"slotEnd,omitempty"`
	EventType     string `json:"eventType"`
	EventLocation string `json:"eventLocation"`
	GuestCount    int    `json:"guestCount"`

	Budget           *float64 `json:"budget,omitempty"`
	SelectedServices []string `json:"selectedServices,omitempty"`

	EventDescription     *string `json:"eventDescription,omitempty"`
	SpecificRequirements *string `json:"specificRequirements,omitempty"`
	CustomerNotes        *string `json:"customerNotes,omitempty"`
}

// ToUseCaseRequest parses date and times
func (r *CreateBookingRequest) ToUseCaseRequest() (*createBooking.Request, error) {
	date, err := domain.ParseDate(strings.TrimSpace(r.EventDate))
	if err != nil {
		return nil, err
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

	return &createBooking.Request{
		VendorID:             strings.TrimSpace(r.VendorID),
		VendorName:           strings.TrimSpace(r.VendorName),
		CustomerName:         r.CustomerName,
		CustomerEmail:        r.CustomerEmail,
		CustomerPhone:        r.CustomerPhone,
		Date:                 date,
		SlotStart:            start,
		SlotEnd:              end,
		EventType:            strings.TrimSpace(r.EventType),
		EventLocation:        r.EventLocation,
		GuestCount:           r.GuestCount,
		Budget:               r.Budget,
		SelectedServices:     r.SelectedServices,
		EventDescription:     r.EventDescription,
		SpecificRequirements: r.SpecificRequirements,
		CustomerNotes:        r.CustomerNotes,
	}, nil
}
