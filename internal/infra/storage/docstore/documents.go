package docstore

import (
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

type timelineDocument struct {
	Status      string    `bson:"status"`
	Label       string    `bson:"label"`
	Description string    `bson:"description,omitempty"`
	ActorID     string    `bson:"actorId,omitempty"`
	ActorRole   string    `bson:"actorRole,omitempty"`
	Timestamp   time.Time `bson:"timestamp"`
}

// bookingDocument stores dates as YYYY-MM-DD so the slot index compares civil dates
type bookingDocument struct {
	ID                   string             `bson:"_id"`
	BookingID            string             `bson:"bookingId"`
	CustomerID           string             `bson:"customerId"`
	CustomerName         string             `bson:"customerName"`
	CustomerEmail        string             `bson:"customerEmail"`
	CustomerPhone        *string            `bson:"customerPhone,omitempty"`
	VendorID             string             `bson:"vendorId"`
	VendorName           string             `bson:"vendorName"`
	EventDate            string             `bson:"eventDate"`
	SlotStart            string             `bson:"slotStart"`
	SlotEnd              string             `bson:"slotEnd"`
	EventType            string             `bson:"eventType"`
	EventLocation        string             `bson:"eventLocation"`
	GuestCount           int                `bson:"guestCount"`
	Budget               *float64           `bson:"budget,omitempty"`
	SelectedServices     []string           `bson:"selectedServices,omitempty"`
	TotalAmount          *float64           `bson:"totalAmount,omitempty"`
	Status               string             `bson:"status"`
	PaymentStatus        string             `bson:"paymentStatus"`
	Active               bool               `bson:"active"`
	AcceptedVendor       *string            `bson:"acceptedVendor,omitempty"`
	EventDescription     *string            `bson:"eventDescription,omitempty"`
	SpecificRequirements *string            `bson:"specificRequirements,omitempty"`
	CustomerNotes        *string            `bson:"customerNotes,omitempty"`
	CancellationReason   *string            `bson:"cancellationReason,omitempty"`
	Rating               *int               `bson:"rating,omitempty"`
	Review               *string            `bson:"review,omitempty"`
	Timeline             []timelineDocument `bson:"timeline"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

func toTimelineDocument(e domain.TimelineEntry) timelineDocument {
	return timelineDocument{
		Status:      string(e.Status),
		Label:       e.Label,
		Description: e.Description,
		ActorID:     e.ActorID,
		ActorRole:   string(e.ActorRole),
		Timestamp:   e.Timestamp.UTC(),
	}
}

func toBookingDocument(b *domain.Booking) bookingDocument {
	timeline := make([]timelineDocument, 0, len(b.Timeline))
	for _, e := range b.Timeline {
		timeline = append(timeline, toTimelineDocument(e))
	}
	return bookingDocument{
		ID:                   b.ID,
		BookingID:            b.BookingID,
		CustomerID:           b.CustomerID,
		CustomerName:         b.CustomerName,
		CustomerEmail:        b.CustomerEmail,
		CustomerPhone:        b.CustomerPhone,
		VendorID:             b.VendorID,
		VendorName:           b.VendorName,
		EventDate:            dateKey(b.EventDate),
		SlotStart:            b.SlotStart.String(),
		SlotEnd:              b.SlotEnd.String(),
		EventType:            b.EventType,
		EventLocation:        b.EventLocation,
		GuestCount:           b.GuestCount,
		Budget:               b.Budget,
		SelectedServices:     b.SelectedServices,
		TotalAmount:          b.TotalAmount,
		Status:               string(b.Status),
		PaymentStatus:        string(b.PaymentStatus),
		Active:               b.IsActive(),
		AcceptedVendor:       b.AcceptedVendor,
		EventDescription:     b.EventDescription,
		SpecificRequirements: b.SpecificRequirements,
		CustomerNotes:        b.CustomerNotes,
		CancellationReason:   b.CancellationReason,
		Rating:               b.Rating,
		Review:               b.Review,
		Timeline:             timeline,
		CreatedAt:            b.CreatedAt.UTC(),
		UpdatedAt:            b.UpdatedAt.UTC(),
	}
}

func (d bookingDocument) toDomain() (*domain.Booking, error) {
	date, err := domain.ParseDate(d.EventDate)
	if err != nil {
		return nil, err
	}
	timeline := make([]domain.TimelineEntry, 0, len(d.Timeline))
	for _, e := range d.Timeline {
		timeline = append(timeline, domain.TimelineEntry{
			Status:      domain.BookingStatus(e.Status),
			Label:       e.Label,
			Description: e.Description,
			ActorID:     e.ActorID,
			ActorRole:   domain.ActorRole(e.ActorRole),
			Timestamp:   e.Timestamp.UTC(),
		})
	}
	return &domain.Booking{
		ID:                   d.ID,
		BookingID:            d.BookingID,
		CustomerID:           d.CustomerID,
		CustomerName:         d.CustomerName,
		CustomerEmail:        d.CustomerEmail,
		CustomerPhone:        d.CustomerPhone,
		VendorID:             d.VendorID,
		VendorName:           d.VendorName,
		EventDate:            date,
		SlotStart:            types.TimeString(d.SlotStart),
		SlotEnd:              types.TimeString(d.SlotEnd),
		EventType:            d.EventType,
		EventLocation:        d.EventLocation,
		GuestCount:           d.GuestCount,
		Budget:               d.Budget,
		SelectedServices:     d.SelectedServices,
		TotalAmount:          d.TotalAmount,
		Status:               domain.BookingStatus(d.Status),
		PaymentStatus:        domain.PaymentStatus(d.PaymentStatus),
		AcceptedVendor:       d.AcceptedVendor,
		EventDescription:     d.EventDescription,
		SpecificRequirements: d.SpecificRequirements,
		CustomerNotes:        d.CustomerNotes,
		CancellationReason:   d.CancellationReason,
		Rating:               d.Rating,
		Review:               d.Review,
		Timeline:             timeline,
		CreatedAt:            d.CreatedAt.UTC(),
		UpdatedAt:            d.UpdatedAt.UTC(),
	}, nil
}

type workingHoursDocument struct {
	Start     string `bson:"start"`
	End       string `bson:"end"`
	IsWorking bool   `bson:"isWorking"`
}

type holidayDocument struct {
	Date   string `bson:"date"`
	Reason string `bson:"reason,omitempty"`
}

type eventTypeDocument struct {
	Type            string  `bson:"type"`
	DurationMinutes int     `bson:"durationMinutes"`
	Price           float64 `bson:"price"`
	Description     string  `bson:"description,omitempty"`
	MinGuests       int     `bson:"minGuests,omitempty"`
	MaxGuests       int     `bson:"maxGuests,omitempty"`
}

type configDocument struct {
	VendorID            string                          `bson:"_id"`
	VendorName          string                          `bson:"vendorName"`
	WorkingHours        map[string]workingHoursDocument `bson:"workingHours"`
	SlotDurationMinutes int                             `bson:"slotDurationMinutes"`
	BufferMinutes       int                             `bson:"bufferMinutes"`
	MaxEventsPerDay     int                             `bson:"maxEventsPerDay"`
	AdvanceBookingDays  int                             `bson:"advanceBookingDays"`
	MinNoticeHours      int                             `bson:"minNoticeHours"`
	Holidays            []holidayDocument               `bson:"holidays"`
	EventTypes          []eventTypeDocument             `bson:"eventTypes"`
	AutoAcceptBookings  bool                            `bson:"autoAcceptBookings"`
	CreatedAt           time.Time                       `bson:"createdAt"`
	UpdatedAt           time.Time                       `bson:"updatedAt"`
}

func toWorkingHoursDocument(wh domain.WorkingHours) workingHoursDocument {
	return workingHoursDocument{Start: wh.Start.String(), End: wh.End.String(), IsWorking: wh.IsWorking}
}

func toHolidayDocuments(holidays []domain.Holiday) []holidayDocument {
	out := make([]holidayDocument, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holidayDocument{Date: dateKey(h.Date), Reason: h.Reason})
	}
	return out
}

func toEventTypeDocuments(eventTypes []domain.EventType) []eventTypeDocument {
	out := make([]eventTypeDocument, 0, len(eventTypes))
	for _, et := range eventTypes {
		out = append(out, eventTypeDocument(et))
	}
	return out
}

func (d configDocument) toDomain() (*domain.AvailabilityConfig, error) {
	cfg := &domain.AvailabilityConfig{
		VendorID:            d.VendorID,
		VendorName:          d.VendorName,
		WorkingHours:        make(map[time.Weekday]domain.WorkingHours, len(d.WorkingHours)),
		SlotDurationMinutes: d.SlotDurationMinutes,
		BufferMinutes:       d.BufferMinutes,
		MaxEventsPerDay:     d.MaxEventsPerDay,
		AdvanceBookingDays:  d.AdvanceBookingDays,
		MinNoticeHours:      d.MinNoticeHours,
		Holidays:            make([]domain.Holiday, 0, len(d.Holidays)),
		EventTypes:          make([]domain.EventType, 0, len(d.EventTypes)),
		AutoAcceptBookings:  d.AutoAcceptBookings,
		CreatedAt:           d.CreatedAt.UTC(),
		UpdatedAt:           d.UpdatedAt.UTC(),
	}
	for key, wh := range d.WorkingHours {
		day, ok := domain.ParseWeekday(key)
		if !ok {
			continue
		}
		cfg.WorkingHours[day] = domain.WorkingHours{Start: types.TimeString(wh.Start), End: types.TimeString(wh.End), IsWorking: wh.IsWorking}
	}
	for _, h := range d.Holidays {
		date, err := domain.ParseDate(h.Date)
		if err != nil {
			return nil, err
		}
		cfg.Holidays = append(cfg.Holidays, domain.Holiday{Date: date, Reason: h.Reason})
	}
	for _, et := range d.EventTypes {
		cfg.EventTypes = append(cfg.EventTypes, domain.EventType(et))
	}
	return cfg, nil
}

func dateKey(t time.Time) string {
	return domain.DateOf(t).Format(domain.DateFormat)
}
