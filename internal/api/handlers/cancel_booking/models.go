package cancel_booking

import "strings"

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// Reason returns the trimmed reason or ""
func (r *CancelBookingRequest) Reason() string {
	if r.CancellationReason == nil {
		return ""
	}
	return strings.TrimSpace(*r.CancellationReason)
}
