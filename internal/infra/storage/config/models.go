package config

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

// JSONB column shapes; weekday keys are lowercase English names

type workingHoursJSON struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	IsWorking bool   `json:"isWorking"`
}

type holidayJSON struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

type eventTypeJSON struct {
	Type            string  `json:"type"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	Description     string  `json:"description,omitempty"`
	MinGuests       int     `json:"minGuests,omitempty"`
	MaxGuests       int     `json:"maxGuests,omitempty"`
}

func encodeWorkingHours(hours map[time.Weekday]domain.WorkingHours) (string, error) {
	out := make(map[string]workingHoursJSON, len(hours))
	for day, wh := range hours {
		out[domain.WeekdayKey(day)] = workingHoursJSON{Start: wh.Start.String(), End: wh.End.String(), IsWorking: wh.IsWorking}
	}
	data, err := json.Marshal(out)
	return string(data), err
}

func decodeWorkingHours(data []byte) (map[time.Weekday]domain.WorkingHours, error) {
	var raw map[string]workingHoursJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make(map[time.Weekday]domain.WorkingHours, len(raw))
	for key, wh := range raw {
		day, ok := domain.ParseWeekday(key)
		if !ok {
			continue
		}
		out[day] = domain.WorkingHours{Start: types.TimeString(wh.Start), End: types.TimeString(wh.End), IsWorking: wh.IsWorking}
	}
	return out, nil
}

func encodeHolidays(holidays []domain.Holiday) (string, error) {
	out := make([]holidayJSON, 0, len(holidays))
	for _, h := range holidays {
		out = append(out, holidayJSON{Date: h.Date.Format(domain.DateFormat), Reason: h.Reason})
	}
	data, err := json.Marshal(out)
	return string(data), err
}

func decodeHolidays(data []byte) ([]domain.Holiday, error) {
	var raw []holidayJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.Holiday, 0, len(raw))
	for _, h := range raw {
		date, err := domain.ParseDate(h.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.Holiday{Date: date, Reason: h.Reason})
	}
	return out, nil
}

func encodeEventTypes(eventTypes []domain.EventType) (string, error) {
	out := make([]eventTypeJSON, 0, len(eventTypes))
	for _, et := range eventTypes {
		out = append(out, eventTypeJSON(et))
	}
	data, err := json.Marshal(out)
	return string(data), err
}

func decodeEventTypes(data []byte) ([]domain.EventType, error) {
	var raw []eventTypeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.EventType, 0, len(raw))
	for _, et := range raw {
		out = append(out, domain.EventType(et))
	}
	return out, nil
}
