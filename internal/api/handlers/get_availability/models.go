package get_availability

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	getAvailability "github.com/m04kA/SMC-EventScheduling/internal/usecase/get_availability"
)

// SlotResponse is one slot of a day
type SlotResponse struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	TimeSlot  string  `json:"timeSlot"` // "09:00-10:00"
	EventType string  `json:"eventType,omitempty"`
	IsBooked  bool    `json:"isBooked"`
	BookedBy  *string `json:"bookedBy,omitempty"`
}

// DayAvailabilityResponse is the availability of one date
type DayAvailabilityResponse struct {
	Date         string         `json:"date"`
	IsAvailable  bool           `json:"isAvailable"`
	Reason       string         `json:"reason,omitempty"`
	Block        string         `json:"block,omitempty"`
	Slots        []SlotResponse `json:"slots"`
	MaxEvents    int            `json:"maxEvents"`
	BookedEvents int            `json:"bookedEvents"`
}

// MonthAvailabilityResponse covers every day of a month
type MonthAvailabilityResponse struct {
	VendorID string                    `json:"vendorId"`
	Year     int                       `json:"year"`
	Month    int                       `json:"month"`
	Days     []DayAvailabilityResponse `json:"days"`
}

// ToDayRequest parses the date query parameter (YYYY-MM-DD)
func ToDayRequest(vendorID, dateStr string) (*getAvailability.DayRequest, error) {
	date, err := domain.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	return &getAvailability.DayRequest{VendorID: vendorID, Date: date}, nil
}

// ToMonthRequest parses year and month query parameters
func ToMonthRequest(vendorID, yearStr, monthStr string) (*getAvailability.MonthRequest, error) {
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil, fmt.Errorf("invalid year %q", yearStr)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q", monthStr)
	}
	return &getAvailability.MonthRequest{VendorID: vendorID, Year: year, Month: time.Month(month)}, nil
}

// FromDomainDay converts a derived day into its response
func FromDomainDay(day domain.DayAvailability) DayAvailabilityResponse {
	resp := DayAvailabilityResponse{
		Date:         day.Date.Format(domain.DateFormat),
		IsAvailable:  day.IsAvailable,
		Reason:       day.Reason,
		Block:        string(day.Block),
		Slots:        make([]SlotResponse, 0, len(day.Slots)),
		MaxEvents:    day.MaxEvents,
		BookedEvents: day.BookedEvents,
	}
	for _, s := range day.Slots {
		resp.Slots = append(resp.Slots, SlotResponse{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			TimeSlot:  s.Label(),
			EventType: s.EventType,
			IsBooked:  s.IsBooked,
			BookedBy:  s.BookedBy,
		})
	}
	return resp
}

// FromDomainMonth converts a month of days
func FromDomainMonth(req *getAvailability.MonthRequest, days []domain.DayAvailability) *MonthAvailabilityResponse {
	resp := &MonthAvailabilityResponse{
		VendorID: req.VendorID,
		Year:     req.Year,
		Month:    int(req.Month),
		Days:     make([]DayAvailabilityResponse, 0, len(days)),
	}
	for _, d := range days {
		resp.Days = append(resp.Days, FromDomainDay(d))
	}
	return resp
}
