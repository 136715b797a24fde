package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// BookingStatus represents the lifecycle status of a booking
type BookingStatus string

const (
	StatusPending        BookingStatus = "pending"
	StatusVendorAccepted BookingStatus = "vendor_accepted"
	StatusPaymentPending BookingStatus = "payment_pending"
	StatusInProgress     BookingStatus = "in_progress"
	StatusCompleted      BookingStatus = "completed"
	StatusCancelled      BookingStatus = "cancelled"
)

// PaymentStatus is the opaque payment flag driven by the payment collaborator
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// transitions lists the allowed targets of every non-terminal status
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:        {StatusVendorAccepted, StatusCancelled},
	StatusVendorAccepted: {StatusPaymentPending, StatusCancelled},
	StatusPaymentPending: {StatusInProgress, StatusCancelled},
	StatusInProgress:     {StatusCompleted},
}

var statusLabels = map[BookingStatus]string{
	StatusPending:        "Order Placed",
	StatusVendorAccepted: "Vendor Accepted",
	StatusPaymentPending: "Payment Pending",
	StatusInProgress:     "In Progress",
	StatusCompleted:      "Completed",
	StatusCancelled:      "Cancelled",
}

// CanTransitionTo reports whether next is directly reachable from s
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal returns true for statuses with no outgoing transitions
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Label is the human-readable timeline title of the status
func (s BookingStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := statusLabels[st]; !ok {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return st, nil
}

// TimelineEntry is one append-only audit record of a booking
type TimelineEntry struct {
	Status      BookingStatus
	Label       string
	Description string
	ActorID     string
	ActorRole   ActorRole
	Timestamp   time.Time
}

// NewTimelineEntry stamps an entry for status made by actor
func NewTimelineEntry(status BookingStatus, description string, actor Actor, at time.Time) TimelineEntry {
	return TimelineEntry{
		Status:      status,
		Label:       status.Label(),
		Description: description,
		ActorID:     actor.ID,
		ActorRole:   actor.Role,
		Timestamp:   at.UTC(),
	}
}

// Booking is an order placed by a customer with a vendor
type Booking struct {
	ID        string // internal id
	BookingID string // human-shareable id

	CustomerID    string
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	VendorID      string
	VendorName    string

	EventDate     time.Time
	SlotStart     types.TimeString
	SlotEnd       types.TimeString
	EventType     string
	EventLocation string
	GuestCount    int

	Budget           *float64
	SelectedServices []string
	TotalAmount      *float64

	Status         BookingStatus
	PaymentStatus  PaymentStatus
	AcceptedVendor *string

	EventDescription     *string
	SpecificRequirements *string
	CustomerNotes        *string
	CancellationReason   *string

	Rating *int
	Review *string

	Timeline []TimelineEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// CanBeCancelled returns true while fulfillment has not started
func (b *Booking) CanBeCancelled() bool {
	return b.Status.CanTransitionTo(StatusCancelled)
}

// CanBeRated returns true for completed, not yet rated bookings
func (b *Booking) CanBeRated() bool {
	return b.Status == StatusCompleted && b.Rating == nil
}

// TimeSlot formats the booked slot as "HH:MM-HH:MM"
func (b *Booking) TimeSlot() string {
	return FormatTimeSlot(b.SlotStart, b.SlotEnd)
}

// LastEntry returns the newest timeline entry for status, if any
func (b *Booking) LastEntry(status BookingStatus) (TimelineEntry, bool) {
	for i := len(b.Timeline) - 1; i >= 0; i-- {
		if b.Timeline[i].Status == status {
			return b.Timeline[i], true
		}
	}
	return TimelineEntry{}, false
}

// StatusChange is applied atomically together with its timeline entry
type StatusChange struct {
	To                 BookingStatus
	ExpectedPayment    *PaymentStatus // extra guard on the current payment status
	PaymentStatus      *PaymentStatus
	AcceptedVendor     *string
	TotalAmount        *float64
	CancellationReason *string
	Entry              TimelineEntry
}

// Apply mutates b in memory; stores use it after their conditional write succeeded
func (b *Booking) Apply(change StatusChange) {
	b.Status = change.To
	if change.PaymentStatus != nil {
		b.PaymentStatus = *change.PaymentStatus
	}
	if change.AcceptedVendor != nil {
		b.AcceptedVendor = change.AcceptedVendor
	}
	if change.TotalAmount != nil {
		b.TotalAmount = change.TotalAmount
	}
	if change.CancellationReason != nil {
		b.CancellationReason = change.CancellationReason
	}
	b.Timeline = append(b.Timeline, change.Entry)
	b.UpdatedAt = change.Entry.Timestamp
}

// AcceptChange builds the vendor_accepted transition.
// The total is the vendor's quote, else the declared event-type price, else the customer's budget.
func (b *Booking) AcceptChange(vendor Actor, quote *float64, declared *EventType, at time.Time) StatusChange {
	vendorID := b.VendorID
	change := StatusChange{
		To:             StatusVendorAccepted,
		AcceptedVendor: &vendorID,
		Entry:          NewTimelineEntry(StatusVendorAccepted, "Vendor accepted the booking", vendor, at),
	}
	switch {
	case quote != nil:
		amount := *quote
		change.TotalAmount = &amount
	case declared != nil && declared.Price > 0:
		amount := declared.Price
		change.TotalAmount = &amount
	case b.Budget != nil:
		amount := *b.Budget
		change.TotalAmount = &amount
	}
	return change
}

// NewBookingID returns an id of the form VB-<epoch ms>-<9 upper-case characters>
func NewBookingID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:9]
	return fmt.Sprintf("VB-%d-%s", now.UnixMilli(), suffix)
}

// VendorBookingsFilter selects a vendor's bookings
type VendorBookingsFilter struct {
	VendorID        string
	StartDate       *time.Time     // inclusive, nil = unbounded
	EndDate         *time.Time     // inclusive, nil = unbounded
	Status          *BookingStatus // nil = any
	IncludeInactive bool           // include cancelled bookings
}

// IsSingleDate reports whether the filter targets exactly one date
func (f VendorBookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && SameDate(*f.StartDate, *f.EndDate)
}
