package rate_booking

// RateBookingRequest HTTP request model
type RateBookingRequest struct {
	Rating int     `json:"rating"` // 1-5
	Review *string `json:"review,omitempty"`
}
