package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
	"github.com/m04kA/SMC-EventScheduling/pkg/psqlbuilder"
)

const table = "vendor_availability_config"

var columns = []string{
	"vendor_id",
	"vendor_name",
	"working_hours",
	"slot_duration_minutes",
	"buffer_minutes",
	"max_events_per_day",
	"advance_booking_days",
	"min_notice_hours",
	"holidays",
	"event_types",
	"auto_accept_bookings",
	"created_at",
	"updated_at",
}

// columnsByField maps patch fields to the columns they overwrite on conflict
var columnsByField = map[string]string{
	domain.FieldVendorName:   "vendor_name",
	domain.FieldSlotDuration: "slot_duration_minutes",
	domain.FieldBuffer:       "buffer_minutes",
	domain.FieldMaxEvents:    "max_events_per_day",
	domain.FieldAdvanceDays:  "advance_booking_days",
	domain.FieldMinNotice:    "min_notice_hours",
	domain.FieldHolidays:     "holidays",
	domain.FieldEventTypes:   "event_types",
	domain.FieldAutoAccept:   "auto_accept_bookings",
}

// Repository stores vendor availability configurations in PostgreSQL
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository creates a configuration repository
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get loads the vendor's configuration; inside a transaction the row is locked
func (r *Repository) Get(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"vendor_id": vendorID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	cfg, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan config: %v", ErrScanRow, err)
	}
	return cfg, nil
}

// Save upserts the configuration. A fresh row is written from merged;
// an existing row only receives the columns named by the patch,
// and working hours are merged per weekday.
func (r *Repository) Save(ctx context.Context, vendorID string, patch domain.ConfigPatch, merged *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	workingHours, err := encodeWorkingHours(merged.WorkingHours)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - working hours: %v", ErrEncode, err)
	}
	holidays, err := encodeHolidays(merged.Holidays)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - holidays: %v", ErrEncode, err)
	}
	eventTypes, err := encodeEventTypes(merged.EventTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: Save - event types: %v", ErrEncode, err)
	}

	sets := make([]string, 0, len(columnsByField)+2)
	var suffixArgs []interface{}
	for _, field := range patch.ChangedFields() {
		if field == domain.FieldWorkingHours {
			patchHours, err := encodeWorkingHours(patch.WorkingHours)
			if err != nil {
				return nil, fmt.Errorf("%w: Save - working hours patch: %v", ErrEncode, err)
			}
			sets = append(sets, table+".working_hours = "+table+".working_hours || ?::jsonb")
			suffixArgs = append(suffixArgs, patchHours)
			continue
		}
		if col, ok := columnsByField[field]; ok {
			sets = append(sets, col+" = EXCLUDED."+col)
		}
	}
	sets = append(sets, "updated_at = NOW()")

	suffix := "ON CONFLICT (vendor_id) DO UPDATE SET " + strings.Join(sets, ", ") +
		" RETURNING " + strings.Join(columns, ", ")

	query, args, err := psqlbuilder.Insert(table).
		Columns(columns[:len(columns)-2]...).
		Values(
			vendorID,
			merged.VendorName,
			workingHours,
			merged.SlotDurationMinutes,
			merged.BufferMinutes,
			merged.MaxEventsPerDay,
			merged.AdvanceBookingDays,
			merged.MinNoticeHours,
			holidays,
			eventTypes,
			merged.AutoAcceptBookings,
		).
		Suffix(suffix, suffixArgs...).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Save - build upsert query: %v", ErrBuildQuery, err)
	}

	cfg, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		if dbmetrics.IsSerializationFailure(err) {
			return nil, fmt.Errorf("%w: Save - execute upsert: %v", storage.ErrWriteConflict, err)
		}
		return nil, fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}
	return cfg, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.AvailabilityConfig, error) {
	var (
		cfg                         domain.AvailabilityConfig
		hours, holidays, eventTypes []byte
		createdAt, updatedAt        time.Time
	)

	err := row.Scan(
		&cfg.VendorID,
		&cfg.VendorName,
		&hours,
		&cfg.SlotDurationMinutes,
		&cfg.BufferMinutes,
		&cfg.MaxEventsPerDay,
		&cfg.AdvanceBookingDays,
		&cfg.MinNoticeHours,
		&holidays,
		&eventTypes,
		&cfg.AutoAcceptBookings,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cfg.WorkingHours, err = decodeWorkingHours(hours); err != nil {
		return nil, fmt.Errorf("%w: working hours: %v", ErrEncode, err)
	}
	if cfg.Holidays, err = decodeHolidays(holidays); err != nil {
		return nil, fmt.Errorf("%w: holidays: %v", ErrEncode, err)
	}
	if cfg.EventTypes, err = decodeEventTypes(eventTypes); err != nil {
		return nil, fmt.Errorf("%w: event types: %v", ErrEncode, err)
	}

	cfg.CreatedAt = createdAt.UTC()
	cfg.UpdatedAt = updatedAt.UTC()
	return &cfg, nil
}
