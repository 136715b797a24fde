package validate_booking

import (
	"time"

	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// Request is a booking attempt to check without reserving anything
type Request struct {
	VendorID   string
	Date       time.Time
	SlotStart  types.TimeString
	SlotEnd    types.TimeString // optional
	EventType  string
	GuestCount int
}
