package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// WorkingHours is one weekday's schedule
type WorkingHours struct {
	Start     string `json:"start"` // "09:00"
	End       string `json:"end"`   // "18:00"
	IsWorking bool   `json:"isWorking"`
}

// Holiday blocks a whole date
type Holiday struct {
	Date   string `json:"date"` // "2025-12-25"
	Reason string `json:"reason,omitempty"`
}

// EventType is an offering declared by the vendor
type EventType struct {
	Type            string  `json:"type"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Description     string  `json:"description,omitempty"`
	MinGuests       int     `json:"minGuests,omitempty"`
	MaxGuests       int     `json:"maxGuests,omitempty"`
}

// UpdateConfigRequest is a merge-by-field patch; omitted fields keep their current value
type UpdateConfigRequest struct {
	VendorName          *string                 `json:"vendorName,omitempty"`
	WorkingHours        map[string]WorkingHours `json:"workingHours,omitempty"` // keyed by weekday, "monday".."sunday"
	SlotDurationMinutes *int                    `json:"slotDurationMinutes,omitempty"`
	BufferMinutes       *int                    `json:"bufferMinutes,omitempty"`
	MaxEventsPerDay     *int                    `json:"maxEventsPerDay,omitempty"`
	AdvanceBookingDays  *int                    `json:"advanceBookingDays,omitempty"`
	MinNoticeHours      *int                    `json:"minNoticeHours,omitempty"`
	Holidays            *[]Holiday              `json:"holidays,omitempty"`
	EventTypes          *[]EventType            `json:"eventTypes,omitempty"`
	AutoAcceptBookings  *bool                   `json:"autoAcceptBookings,omitempty"`
}

// ConfigResponse is the vendor's effective configuration
type ConfigResponse struct {
	VendorID            string                  `json:"vendorId"`
	VendorName          string                  `json:"vendorName,omitempty"`
	WorkingHours        map[string]WorkingHours `json:"workingHours"`
	SlotDurationMinutes int                     `json:"slotDurationMinutes"`
	BufferMinutes       int                     `json:"bufferMinutes"`
	MaxEventsPerDay     int                     `json:"maxEventsPerDay"`
	AdvanceBookingDays  int                     `json:"advanceBookingDays"`
	MinNoticeHours      int                     `json:"minNoticeHours"`
	Holidays            []Holiday               `json:"holidays"`
	EventTypes          []EventType             `json:"eventTypes"`
	AutoAcceptBookings  bool                    `json:"autoAcceptBookings"`
	IsDefault           bool                    `json:"isDefault"` // true until the vendor saves a configuration
	CreatedAt           *time.Time              `json:"createdAt,omitempty"`
	UpdatedAt           *time.Time              `json:"updatedAt,omitempty"`
}

// ToDomainPatch converts the request; malformed values are reported per field
func (r *UpdateConfigRequest) ToDomainPatch() (domain.ConfigPatch, error) {
	var fields []domain.FieldError
	patch := domain.ConfigPatch{
		VendorName:          r.VendorName,
		SlotDurationMinutes: r.SlotDurationMinutes,
		BufferMinutes:       r.BufferMinutes,
		MaxEventsPerDay:     r.MaxEventsPerDay,
		AdvanceBookingDays:  r.AdvanceBookingDays,
		MinNoticeHours:      r.MinNoticeHours,
		AutoAcceptBookings:  r.AutoAcceptBookings,
	}

	if len(r.WorkingHours) > 0 {
		patch.WorkingHours = make(map[time.Weekday]domain.WorkingHours, len(r.WorkingHours))
		for key, wh := range r.WorkingHours {
			day, ok := domain.ParseWeekday(key)
			if !ok {
				fields = append(fields, domain.FieldError{Field: "workingHours." + key, Message: "unknown weekday"})
				continue
			}
			patch.WorkingHours[day] = wh.ToDomain()
		}
	}

	if r.Holidays != nil {
		holidays, errs := ToDomainHolidays(*r.Holidays)
		fields = append(fields, errs...)
		patch.Holidays = &holidays
	}

	if r.EventTypes != nil {
		eventTypes := ToDomainEventTypes(*r.EventTypes)
		patch.EventTypes = &eventTypes
	}

	if len(fields) > 0 {
		return patch, &domain.ConfigError{Fields: fields}
	}
	return patch, nil
}

// ToDomain converts the schedule. Parseable times are normalized to HH:MM;
// anything else is kept as sent so config validation reports the field.
func (w WorkingHours) ToDomain() domain.WorkingHours {
	return domain.WorkingHours{
		Start:     normalizeTime(w.Start),
		End:       normalizeTime(w.End),
		IsWorking: w.IsWorking,
	}
}

func normalizeTime(s string) types.TimeString {
	s = strings.TrimSpace(s)
	if t, err := types.NewTimeStringFromString(s); err == nil {
		return t
	}
	return types.TimeString(s)
}

// ToDomainHolidays parses holiday dates
func ToDomainHolidays(in []Holiday) ([]domain.Holiday, []domain.FieldError) {
	var fields []domain.FieldError
	out := make([]domain.Holiday, 0, len(in))
	for i, h := range in {
		date, err := domain.ParseDate(h.Date)
		if err != nil {
			fields = append(fields, domain.FieldError{Field: fmt.Sprintf("holidays[%d].date", i), Message: err.Error()})
			continue
		}
		out = append(out, domain.Holiday{Date: date, Reason: strings.TrimSpace(h.Reason)})
	}
	return out, fields
}

// ToDomainEventTypes converts declared event types
func ToDomainEventTypes(in []EventType) []domain.EventType {
	out := make([]domain.EventType, 0, len(in))
	for _, et := range in {
		out = append(out, domain.EventType{
			Type:            strings.TrimSpace(et.Type),
			DurationMinutes: et.DurationMinutes,
			Price:           et.Price,
			Description:     et.Description,
			MinGuests:       et.MinGuests,
			MaxGuests:       et.MaxGuests,
		})
	}
	return out
}

// FromDomainEventTypes converts event types for responses
func FromDomainEventTypes(in []domain.EventType) []EventType {
	out := make([]EventType, 0, len(in))
	for _, et := range in {
		out = append(out, EventType{
			Type:            et.Type,
			DurationMinutes: et.DurationMinutes,
			Price:           et.Price,
			Description:     et.Description,
			MinGuests:       et.MinGuests,
			MaxGuests:       et.MaxGuests,
		})
	}
	return out
}

// FromDomainConfig converts a configuration into its response
func FromDomainConfig(cfg *domain.AvailabilityConfig, isDefault bool) *ConfigResponse {
	if cfg == nil {
		return nil
	}

	resp := &ConfigResponse{
		VendorID:            cfg.VendorID,
		VendorName:          cfg.VendorName,
		WorkingHours:        make(map[string]WorkingHours, len(cfg.WorkingHours)),
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		BufferMinutes:       cfg.BufferMinutes,
		MaxEventsPerDay:     cfg.MaxEventsPerDay,
		AdvanceBookingDays:  cfg.AdvanceBookingDays,
		MinNoticeHours:      cfg.MinNoticeHours,
		Holidays:            make([]Holiday, 0, len(cfg.Holidays)),
		EventTypes:          FromDomainEventTypes(cfg.EventTypes),
		AutoAcceptBookings:  cfg.AutoAcceptBookings,
		IsDefault:           isDefault,
	}

	for day, wh := range cfg.WorkingHours {
		resp.WorkingHours[domain.WeekdayKey(day)] = WorkingHours{
			Start:     wh.Start.String(),
			End:       wh.End.String(),
			IsWorking: wh.IsWorking,
		}
	}
	for _, h := range cfg.Holidays {
		resp.Holidays = append(resp.Holidays, Holiday{Date: h.Date.Format(domain.DateFormat), Reason: h.Reason})
	}
	if !cfg.CreatedAt.IsZero() {
		createdAt := cfg.CreatedAt
		resp.CreatedAt = &createdAt
	}
	if !cfg.UpdatedAt.IsZero() {
		updatedAt := cfg.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
