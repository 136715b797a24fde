package get_availability

import "time"

// DayRequest asks for the slots of one vendor day
type DayRequest struct {
	VendorID string
	Date     time.Time
}

// MonthRequest asks for every day of a calendar month
type MonthRequest struct {
	VendorID string
	Year     int
	Month    time.Month
}
