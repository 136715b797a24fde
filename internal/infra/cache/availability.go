// Package cache keeps rendered month availability in Redis.
// Entries are keyed by a per-vendor version, so invalidation is a single INCR
// and stale months simply expire.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/pkg/types"
)

var (
	// ErrCache is returned when Redis fails; callers fall back to storage
	ErrCache = errors.New("cache: redis error")
)

// AvailabilityCache stores month availability per vendor
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAvailabilityCache creates a cache with the given entry lifetime
func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

type slotJSON struct {
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
	EventType string  `json:"eventType,omitempty"`
	IsBooked  bool    `json:"isBooked"`
	BookedBy  *string `json:"bookedBy,omitempty"`
}

type dayJSON struct {
	Date         string     `json:"date"`
	IsAvailable  bool       `json:"isAvailable"`
	Reason       string     `json:"reason,omitempty"`
	Block        string     `json:"block,omitempty"`
	Slots        []slotJSON `json:"slots"`
	MaxEvents    int        `json:"maxEvents"`
	BookedEvents int        `json:"bookedEvents"`
}

// GetMonth returns the cached month and the vendor version it was looked up under.
// hit is false on a miss; pass version back to SetMonth so a concurrent
// invalidation is never overwritten with data computed before it.
func (c *AvailabilityCache) GetMonth(ctx context.Context, vendorID string, year int, month time.Month) (days []domain.DayAvailability, version int64, hit bool, err error) {
	version, err = c.version(ctx, vendorID)
	if err != nil {
		return nil, 0, false, err
	}
	key := monthKey(vendorID, version, year, month)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, version, false, fmt.Errorf("%w: GetMonth - get %s: %v", ErrCache, key, err)
	}

	var payload []dayJSON
	if err := json.Unmarshal(raw, &payload); err != nil {
		// unreadable entry behaves as a miss and is overwritten on the next Set
		return nil, version, false, nil
	}

	days = make([]domain.DayAvailability, 0, len(payload))
	for _, d := range payload {
		day, err := d.toDomain()
		if err != nil {
			return nil, version, false, nil
		}
		days = append(days, day)
	}
	return days, version, true, nil
}

// SetMonth stores the month under the version returned by GetMonth
func (c *AvailabilityCache) SetMonth(ctx context.Context, vendorID string, version int64, year int, month time.Month, days []domain.DayAvailability) error {
	key := monthKey(vendorID, version, year, month)

	payload := make([]dayJSON, 0, len(days))
	for _, d := range days {
		payload = append(payload, fromDomain(d))
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: SetMonth - marshal: %v", ErrCache, err)
	}

	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: SetMonth - set %s: %v", ErrCache, key, err)
	}
	return nil
}

// Invalidate drops every cached month of the vendor
func (c *AvailabilityCache) Invalidate(ctx context.Context, vendorID string) error {
	if err := c.rdb.Incr(ctx, versionKey(vendorID)).Err(); err != nil {
		return fmt.Errorf("%w: Invalidate - incr: %v", ErrCache, err)
	}
	return nil
}

func (c *AvailabilityCache) version(ctx context.Context, vendorID string) (int64, error) {
	version, err := c.rdb.Get(ctx, versionKey(vendorID)).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("%w: version of %s: %v", ErrCache, vendorID, err)
	}
	return version, nil
}

func versionKey(vendorID string) string {
	return "avail:" + vendorID + ":version"
}

func monthKey(vendorID string, version int64, year int, month time.Month) string {
	return fmt.Sprintf("avail:%s:v%d:%04d-%02d", vendorID, version, year, int(month))
}

func fromDomain(d domain.DayAvailability) dayJSON {
	slots := make([]slotJSON, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, slotJSON{
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
			EventType: s.EventType,
			IsBooked:  s.IsBooked,
			BookedBy:  s.BookedBy,
		})
	}
	return dayJSON{
		Date:         d.Date.Format(domain.DateFormat),
		IsAvailable:  d.IsAvailable,
		Reason:       d.Reason,
		Block:        string(d.Block),
		Slots:        slots,
		MaxEvents:    d.MaxEvents,
		BookedEvents: d.BookedEvents,
	}
}

func (d dayJSON) toDomain() (domain.DayAvailability, error) {
	date, err := domain.ParseDate(d.Date)
	if err != nil {
		return domain.DayAvailability{}, err
	}
	slots := make([]domain.Slot, 0, len(d.Slots))
	for _, s := range d.Slots {
		slots = append(slots, domain.Slot{
			StartTime: types.TimeString(s.StartTime),
			EndTime:   types.TimeString(s.EndTime),
			EventType: s.EventType,
			IsBooked:  s.IsBooked,
			BookedBy:  s.BookedBy,
		})
	}
	return domain.DayAvailability{
		Date:         date,
		IsAvailable:  d.IsAvailable,
		Reason:       d.Reason,
		Block:        domain.DayBlock(d.Block),
		Slots:        slots,
		MaxEvents:    d.MaxEvents,
		BookedEvents: d.BookedEvents,
	}, nil
}
