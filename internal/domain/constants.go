package domain

// Default calendar settings applied to vendors that never saved a configuration
const (
	DefaultSlotDurationMinutes = 60
	DefaultBufferMinutes       = 30
	DefaultMaxEventsPerDay     = 3
	DefaultAdvanceBookingDays  = 30 // 0 = unlimited
	DefaultMinNoticeHours      = 24
)

// Business validation constants
const (
	MinSlotDurationMinutes = 15
	MaxSlotDurationMinutes = 24 * 60
	MaxBufferMinutes       = 12 * 60
	MinEventsPerDay        = 1
	MaxEventsPerDay        = 50
	MaxAdvanceBookingDays  = 730
	MaxMinNoticeHours      = 24 * 365
	MaxHolidayReasonLength = 200
	MaxEventTypes          = 50
	MaxNotesLength         = 1000
	MaxReviewLength        = 2000
	MinRating              = 1
	MaxRating              = 5
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Reason strings shown for unavailable days
const (
	ReasonClosed      = "closed"
	ReasonFullyBooked = "fully booked"
	ReasonNoSlots     = "no bookable slots"
)

// ActiveStatuses are the statuses that occupy a slot and count toward daily capacity
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusVendorAccepted,
	StatusPaymentPending,
	StatusInProgress,
	StatusCompleted,
}
