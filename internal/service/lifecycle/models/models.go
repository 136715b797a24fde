package models

import (
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// ListVendorBookingsRequest filters a vendor's bookings
type ListVendorBookingsRequest struct {
	VendorID        string     `json:"vendorId"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"` // include cancelled bookings
}

// ToDomainFilter converts the request into a storage filter
func (r *ListVendorBookingsRequest) ToDomainFilter() (domain.VendorBookingsFilter, error) {
	filter := domain.VendorBookingsFilter{
		VendorID:        r.VendorID,
		IncludeInactive: r.IncludeInactive,
	}
	if r.StartDate != nil {
		d := domain.DateOf(*r.StartDate)
		filter.StartDate = &d
	}
	if r.EndDate != nil {
		d := domain.DateOf(*r.EndDate)
		filter.EndDate = &d
	}
	if r.Status != nil {
		status, err := domain.ParseBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}
	return filter, nil
}

// TimelineEntryResponse is one audit record
type TimelineEntryResponse struct {
	Status      string    `json:"status"`
	Label       string    `json:"label"`
	Description string    `json:"description,omitempty"`
	ActorID     string    `json:"actorId,omitempty"`
	ActorRole   string    `json:"actorRole,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingResponse is the public view of a booking
type BookingResponse struct {
	ID        string `json:"id"`
	BookingID string `json:"bookingId"`

	CustomerID    string  `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	VendorID      string  `json:"vendorId"`
	VendorName    string  `json:"vendorName,omitempty"`

	EventDate     string `json:"eventDate"` // "2025-06-04"
	TimeSlot      string `json:"timeSlot"`  // "09:00-10:00"
	SlotStart     string `json:"slotStart"`
	SlotEnd       string `json:"slotEnd"`
	EventType     string `json:"eventType"`
	EventLocation string `json:"eventLocation"`
	GuestCount    int    `json:"guestCount"`

	Budget           *float64 `json:"budget,omitempty"`
	SelectedServices []string `json:"selectedServices,omitempty"`
	TotalAmount      *float64 `json:"totalAmount,omitempty"`

	Status         string  `json:"status"`
	StatusLabel    string  `json:"statusLabel"`
	PaymentStatus  string  `json:"paymentStatus"`
	AcceptedVendor *string `json:"acceptedVendor,omitempty"`

	EventDescription     *string `json:"eventDescription,omitempty"`
	SpecificRequirements *string `json:"specificRequirements,omitempty"`
	CustomerNotes        *string `json:"customerNotes,omitempty"`
	CancellationReason   *string `json:"cancellationReason,omitempty"`

	Rating *int    `json:"rating,omitempty"`
	Review *string `json:"review,omitempty"`

	Timeline []TimelineEntryResponse `json:"timeline"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse wraps a list of bookings
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
}

// FromDomainBooking converts a domain booking into its response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                   b.ID,
		BookingID:            b.BookingID,
		CustomerID:           b.CustomerID,
		CustomerName:         b.CustomerName,
		CustomerEmail:        b.CustomerEmail,
		CustomerPhone:        b.CustomerPhone,
		VendorID:             b.VendorID,
		VendorName:           b.VendorName,
		EventDate:            b.EventDate.Format(domain.DateFormat),
		TimeSlot:             b.TimeSlot(),
		SlotStart:            b.SlotStart.String(),
		SlotEnd:              b.SlotEnd.String(),
		EventType:            b.EventType,
		EventLocation:        b.EventLocation,
		GuestCount:           b.GuestCount,
		Budget:               b.Budget,
		SelectedServices:     b.SelectedServices,
		TotalAmount:          b.TotalAmount,
		Status:               string(b.Status),
		StatusLabel:          b.Status.Label(),
		PaymentStatus:        string(b.PaymentStatus),
		AcceptedVendor:       b.AcceptedVendor,
		EventDescription:     b.EventDescription,
		SpecificRequirements: b.SpecificRequirements,
		CustomerNotes:        b.CustomerNotes,
		CancellationReason:   b.CancellationReason,
		Rating:               b.Rating,
		Review:               b.Review,
		Timeline:             make([]TimelineEntryResponse, 0, len(b.Timeline)),
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}

	for _, e := range b.Timeline {
		resp.Timeline = append(resp.Timeline, TimelineEntryResponse{
			Status:      string(e.Status),
			Label:       e.Label,
			Description: e.Description,
			ActorID:     e.ActorID,
			ActorRole:   string(e.ActorRole),
			Timestamp:   e.Timestamp,
		})
	}

	return resp
}

// FromDomainBookingList converts a list of domain bookings
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}
	for _, b := range bookings {
		if r := FromDomainBooking(b); r != nil {
			resp.Bookings = append(resp.Bookings, *r)
		}
	}
	resp.Total = len(resp.Bookings)
	return resp
}
