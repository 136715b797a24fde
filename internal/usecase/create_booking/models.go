package create_booking

import (
	"time"

	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// Request is an order placed by the authenticated customer
type Request struct {
	VendorID   string
	VendorName string // optional, taken from the vendor's config when empty

	CustomerName  string
	CustomerEmail string
	CustomerPhone *string

	Date          time.Time
	SlotStart     types.TimeString
	SlotEnd       types.TimeString // optional
	EventType     string
	EventLocation string
	GuestCount    int

	Budget           *float64
	SelectedServices []string

	EventDescription     *string
	SpecificRequirements *string
	CustomerNotes        *string
}
