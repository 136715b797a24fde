package transition_booking

const (
	PaymentPaid   = "paid"
	PaymentFailed = "failed"
)

// AcceptRequest carries the vendor's optional quote
type AcceptRequest struct {
	Quote *float64 `json:"quote,omitempty"`
}

// PaymentRequest is the payment collaborator's verdict
type PaymentRequest struct {
	Status string `json:"status"` // "paid" | "failed"
	Reason string `json:"reason,omitempty"`
}
