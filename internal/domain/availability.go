package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// WorkingHours is the schedule of one weekday
type WorkingHours struct {
	Start     types.TimeString
	End       types.TimeString
	IsWorking bool
}

// WindowMinutes is the length of [Start,End) or 0 when unparsable
func (w WorkingHours) WindowMinutes() int {
	start, err := w.Start.Minutes()
	if err != nil {
		return 0
	}
	end, err := w.End.Minutes()
	if err != nil || end <= start {
		return 0
	}
	return end - start
}

// Holiday blocks a whole date
type Holiday struct {
	Date   time.Time
	Reason string
}

// EventType is a declared offering; MaxGuests = 0 means no capacity range
type EventType struct {
	Type            string
	DurationMinutes int
	Price           float64
	Description     string
	MinGuests       int
	MaxGuests       int
}

// HasCapacityRange reports whether guest counts are constrained
func (e EventType) HasCapacityRange() bool {
	return e.MaxGuests > 0
}

// AvailabilityConfig is the per-vendor calendar configuration
type AvailabilityConfig struct {
	VendorID            string
	VendorName          string
	WorkingHours        map[time.Weekday]WorkingHours
	SlotDurationMinutes int
	BufferMinutes       int
	MaxEventsPerDay     int
	AdvanceBookingDays  int // 0 = unlimited
	MinNoticeHours      int
	Holidays            []Holiday
	EventTypes          []EventType
	AutoAcceptBookings  bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DefaultAvailabilityConfig is served for vendors without a saved configuration
func DefaultAvailabilityConfig(vendorID string) *AvailabilityConfig {
	weekday := WorkingHours{Start: "09:00", End: "18:00", IsWorking: true}
	return &AvailabilityConfig{
		VendorID: vendorID,
		WorkingHours: map[time.Weekday]WorkingHours{
			time.Monday:    weekday,
			time.Tuesday:   weekday,
			time.Wednesday: weekday,
			time.Thursday:  weekday,
			time.Friday:    weekday,
			time.Saturday:  {Start: "10:00", End: "16:00", IsWorking: true},
			time.Sunday:    {Start: "10:00", End: "14:00", IsWorking: false},
		},
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		BufferMinutes:       DefaultBufferMinutes,
		MaxEventsPerDay:     DefaultMaxEventsPerDay,
		AdvanceBookingDays:  DefaultAdvanceBookingDays,
		MinNoticeHours:      DefaultMinNoticeHours,
		Holidays:            []Holiday{},
		EventTypes:          []EventType{},
	}
}

// DefaultEventTypes are presets offered to vendors setting up their calendar
func DefaultEventTypes() []EventType {
	return []EventType{
		{Type: "wedding", DurationMinutes: 480, Price: 50000, Description: "Full day wedding coverage"},
		{Type: "corporate", DurationMinutes: 240, Price: 75000, Description: "Corporate event management"},
		{Type: "birthday", DurationMinutes: 180, Price: 25000, Description: "Birthday party planning"},
	}
}

// HoursFor returns the schedule of the weekday of date; missing days are closed
func (c *AvailabilityConfig) HoursFor(date time.Time) WorkingHours {
	wh, ok := c.WorkingHours[date.Weekday()]
	if !ok {
		return WorkingHours{}
	}
	return wh
}

// HolidayOn returns the holiday covering date, if any
func (c *AvailabilityConfig) HolidayOn(date time.Time) (Holiday, bool) {
	for _, h := range c.Holidays {
		if SameDate(h.Date, date) {
			return h, true
		}
	}
	return Holiday{}, false
}

// FindEventType looks a declared event type up by name
func (c *AvailabilityConfig) FindEventType(name string) (EventType, bool) {
	for _, et := range c.EventTypes {
		if strings.EqualFold(et.Type, name) {
			return et, true
		}
	}
	return EventType{}, false
}

// HasAdvanceBookingLimit returns true if there's a furthest bookable date
func (c *AvailabilityConfig) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// Clone deep-copies the configuration
func (c *AvailabilityConfig) Clone() *AvailabilityConfig {
	out := *c
	out.WorkingHours = make(map[time.Weekday]WorkingHours, len(c.WorkingHours))
	for d, wh := range c.WorkingHours {
		out.WorkingHours[d] = wh
	}
	out.Holidays = append([]Holiday{}, c.Holidays...)
	out.EventTypes = append([]EventType{}, c.EventTypes...)
	return &out
}

// Validate checks every structural constraint and returns all violations at once
func (c *AvailabilityConfig) Validate() error {
	var fields []FieldError
	add := func(field, format string, args ...interface{}) {
		fields = append(fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if c.SlotDurationMinutes < MinSlotDurationMinutes || c.SlotDurationMinutes > MaxSlotDurationMinutes {
		add("slotDurationMinutes", "must be between %d and %d", MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	if c.BufferMinutes < 0 || c.BufferMinutes > MaxBufferMinutes {
		add("bufferMinutes", "must be between 0 and %d", MaxBufferMinutes)
	}
	if c.MaxEventsPerDay < MinEventsPerDay || c.MaxEventsPerDay > MaxEventsPerDay {
		add("maxEventsPerDay", "must be between %d and %d", MinEventsPerDay, MaxEventsPerDay)
	}
	if c.AdvanceBookingDays < 0 || c.AdvanceBookingDays > MaxAdvanceBookingDays {
		add("advanceBookingDays", "must be between 0 and %d", MaxAdvanceBookingDays)
	}
	if c.MinNoticeHours < 0 || c.MinNoticeHours > MaxMinNoticeHours {
		add("minNoticeHours", "must be between 0 and %d", MaxMinNoticeHours)
	}

	for _, day := range Weekdays {
		wh, ok := c.WorkingHours[day]
		if !ok || !wh.IsWorking {
			continue
		}
		field := "workingHours." + WeekdayKey(day)
		if err := wh.Start.Validate(); err != nil {
			add(field+".start", "must be HH:MM")
			continue
		}
		if err := wh.End.Validate(); err != nil {
			add(field+".end", "must be HH:MM")
			continue
		}
		window := wh.WindowMinutes()
		if window == 0 {
			add(field+".end", "must be after start")
			continue
		}
		if c.SlotDurationMinutes+c.BufferMinutes > window {
			add(field, "slot duration plus buffer (%d min) exceeds the working window (%d min)",
				c.SlotDurationMinutes+c.BufferMinutes, window)
		}
	}

	seenDates := make(map[string]bool, len(c.Holidays))
	for i, h := range c.Holidays {
		field := fmt.Sprintf("holidays[%d]", i)
		if h.Date.IsZero() {
			add(field+".date", "is required")
			continue
		}
		key := h.Date.Format(DateFormat)
		if seenDates[key] {
			add(field+".date", "duplicate holiday %s", key)
		}
		seenDates[key] = true
		if len(h.Reason) > MaxHolidayReasonLength {
			add(field+".reason", "must be at most %d characters", MaxHolidayReasonLength)
		}
	}

	if len(c.EventTypes) > MaxEventTypes {
		add("eventTypes", "must contain at most %d entries", MaxEventTypes)
	}
	seenTypes := make(map[string]bool, len(c.EventTypes))
	for i, et := range c.EventTypes {
		field := fmt.Sprintf("eventTypes[%d]", i)
		name := strings.ToLower(strings.TrimSpace(et.Type))
		if name == "" {
			add(field+".type", "is required")
		} else if seenTypes[name] {
			add(field+".type", "duplicate event type %q", et.Type)
		}
		seenTypes[name] = true
		if et.DurationMinutes <= 0 {
			add(field+".durationMinutes", "must be positive")
		}
		if et.Price < 0 {
			add(field+".price", "must not be negative")
		}
		if et.MinGuests < 0 || et.MaxGuests < 0 {
			add(field+".guests", "must not be negative")
		} else if et.MaxGuests > 0 && et.MinGuests > et.MaxGuests {
			add(field+".minGuests", "must not exceed maxGuests")
		}
	}

	if len(fields) > 0 {
		return &ConfigError{Fields: fields}
	}
	return nil
}

// Weekdays lists days in calendar display order
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// WeekdayKey is the lowercase English weekday name used in payloads and storage
func WeekdayKey(d time.Weekday) string {
	return strings.ToLower(d.String())
}

// ParseWeekday is the inverse of WeekdayKey
func ParseWeekday(s string) (time.Weekday, bool) {
	for _, d := range Weekdays {
		if WeekdayKey(d) == strings.ToLower(strings.TrimSpace(s)) {
			return d, true
		}
	}
	return 0, false
}

// ConfigPatch is a merge-by-field update; nil fields are left untouched
type ConfigPatch struct {
	VendorName          *string
	WorkingHours        map[time.Weekday]WorkingHours // merged per weekday
	SlotDurationMinutes *int
	BufferMinutes       *int
	MaxEventsPerDay     *int
	AdvanceBookingDays  *int
	MinNoticeHours      *int
	Holidays            *[]Holiday
	EventTypes          *[]EventType
	AutoAcceptBookings  *bool
}

// IsEmpty reports whether the patch changes nothing
func (p ConfigPatch) IsEmpty() bool {
	return len(p.ChangedFields()) == 0
}

// ChangedFields names the top-level fields the patch touches
func (p ConfigPatch) ChangedFields() []string {
	var out []string
	if p.VendorName != nil {
		out = append(out, FieldVendorName)
	}
	if len(p.WorkingHours) > 0 {
		out = append(out, FieldWorkingHours)
	}
	if p.SlotDurationMinutes != nil {
		out = append(out, FieldSlotDuration)
	}
	if p.BufferMinutes != nil {
		out = append(out, FieldBuffer)
	}
	if p.MaxEventsPerDay != nil {
		out = append(out, FieldMaxEvents)
	}
	if p.AdvanceBookingDays != nil {
		out = append(out, FieldAdvanceDays)
	}
	if p.MinNoticeHours != nil {
		out = append(out, FieldMinNotice)
	}
	if p.Holidays != nil {
		out = append(out, FieldHolidays)
	}
	if p.EventTypes != nil {
		out = append(out, FieldEventTypes)
	}
	if p.AutoAcceptBookings != nil {
		out = append(out, FieldAutoAccept)
	}
	return out
}

// Config field names shared by patches and storage
const (
	FieldVendorName   = "vendorName"
	FieldWorkingHours = "workingHours"
	FieldSlotDuration = "slotDurationMinutes"
	FieldBuffer       = "bufferMinutes"
	FieldMaxEvents    = "maxEventsPerDay"
	FieldAdvanceDays  = "advanceBookingDays"
	FieldMinNotice    = "minNoticeHours"
	FieldHolidays     = "holidays"
	FieldEventTypes   = "eventTypes"
	FieldAutoAccept   = "autoAcceptBookings"
)

// ApplyTo returns a copy of cfg with the patch merged in
func (p ConfigPatch) ApplyTo(cfg *AvailabilityConfig) *AvailabilityConfig {
	out := cfg.Clone()
	if p.VendorName != nil {
		out.VendorName = *p.VendorName
	}
	for day, wh := range p.WorkingHours {
		out.WorkingHours[day] = wh
	}
	if p.SlotDurationMinutes != nil {
		out.SlotDurationMinutes = *p.SlotDurationMinutes
	}
	if p.BufferMinutes != nil {
		out.BufferMinutes = *p.BufferMinutes
	}
	if p.MaxEventsPerDay != nil {
		out.MaxEventsPerDay = *p.MaxEventsPerDay
	}
	if p.AdvanceBookingDays != nil {
		out.AdvanceBookingDays = *p.AdvanceBookingDays
	}
	if p.MinNoticeHours != nil {
		out.MinNoticeHours = *p.MinNoticeHours
	}
	if p.Holidays != nil {
		out.Holidays = append([]Holiday{}, (*p.Holidays)...)
	}
	if p.EventTypes != nil {
		out.EventTypes = append([]EventType{}, (*p.EventTypes)...)
	}
	if p.AutoAcceptBookings != nil {
		out.AutoAcceptBookings = *p.AutoAcceptBookings
	}
	return out
}
