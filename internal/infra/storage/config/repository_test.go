package config

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// fakeRow feeds scanConfig the values a SELECT would return
type fakeRow struct {
	values []interface{}
	err    error
}

func (r fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(r.values))
	}
	for i, v := range r.values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *[]byte:
			*d = []byte(v.(string))
		case *int:
			*d = v.(int)
		case *bool:
			*d = v.(bool)
		case *time.Time:
			*d = v.(time.Time)
		default:
			return fmt.Errorf("scan: unsupported destination %T", dest[i])
		}
	}
	return nil
}

func TestWorkingHoursJSON_KeyedByWeekday(t *testing.T) {
	// the upsert merges hours with jsonb ||, so a patch must carry only the days it touches
	encoded, err := encodeWorkingHours(map[time.Weekday]domain.WorkingHours{
		time.Tuesday: {Start: "10:00", End: "14:00", IsWorking: true},
	})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(encoded), &raw))
	assert.Len(t, raw, 1)
	assert.JSONEq(t, `{"start":"10:00","end":"14:00","isWorking":true}`, string(raw["tuesday"]))
}

func TestDecodeWorkingHours_SkipsUnknownKeys(t *testing.T) {
	hours, err := decodeWorkingHours([]byte(`{"monday":{"start":"09:00","end":"18:00","isWorking":true},"funday":{}}`))

	require.NoError(t, err)
	require.Len(t, hours, 1)
	assert.Equal(t, "09:00", hours[time.Monday].Start.String())
	assert.True(t, hours[time.Monday].IsWorking)
}

func TestScanConfig_DecodesJSONBColumns(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))
	row := fakeRow{values: []interface{}{
		"vendor-1",
		"Sunny Events",
		`{"saturday":{"start":"10:00","end":"16:00","isWorking":true}}`,
		60, 30, 3, 30, 24,
		`[{"date":"2025-12-25","reason":"Christmas"}]`,
		`[{"type":"wedding","durationMinutes":480,"price":50000,"maxGuests":200}]`,
		true,
		created,
		created,
	}}

	cfg, err := scanConfig(row)

	require.NoError(t, err)
	assert.Equal(t, "Sunny Events", cfg.VendorName)
	assert.Equal(t, "16:00", cfg.WorkingHours[time.Saturday].End.String())
	require.Len(t, cfg.Holidays, 1)
	assert.Equal(t, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC), cfg.Holidays[0].Date)
	require.Len(t, cfg.EventTypes, 1)
	assert.Equal(t, 200, cfg.EventTypes[0].MaxGuests)
	assert.True(t, cfg.AutoAcceptBookings)
	assert.Equal(t, time.UTC, cfg.CreatedAt.Location())
}

func TestScanConfig_RejectsBrokenHolidayDate(t *testing.T) {
	row := fakeRow{values: []interface{}{
		"vendor-1", "", `{}`, 60, 30, 3, 30, 24,
		`[{"date":"25/12/2025","reason":"Christmas"}]`,
		`[]`, false, time.Now(), time.Now(),
	}}

	_, err := scanConfig(row)

	assert.ErrorIs(t, err, ErrEncode)
}
