package get_availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/internal/scheduling"
)

// UseCase derives day and month availability from the configuration and existing bookings
type UseCase struct {
	bookingRepo BookingRepository
	configRepo  ConfigRepository
	cache       MonthCache
	metrics     Metrics
	logger      Logger
}

// NewUseCase creates the use case; cache and metrics may be nil
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	cache MonthCache,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		configRepo:  configRepo,
		cache:       cache,
		metrics:     metrics,
		logger:      logger,
	}
}

// Day returns the availability of one date
func (uc *UseCase) Day(ctx context.Context, req *DayRequest) (*domain.DayAvailability, error) {
	if strings.TrimSpace(req.VendorID) == "" {
		return nil, fmt.Errorf("%w: vendorId is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date := domain.DateOf(req.Date)

	cfg, err := uc.loadConfig(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}

	bookings, err := uc.bookingRepo.GetByVendor(ctx, domain.VendorBookingsFilter{
		VendorID:  req.VendorID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		uc.logger.Error("GetAvailability.Day: failed to get bookings of vendor=%s on %s: %v",
			req.VendorID, date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: Day - bookings: %v", ErrInternal, err)
	}

	day := scheduling.GenerateSlots(cfg, date, bookings)
	return &day, nil
}

// Month returns the availability of every day in a month, served from cache when possible
func (uc *UseCase) Month(ctx context.Context, req *MonthRequest) ([]domain.DayAvailability, error) {
	if strings.TrimSpace(req.VendorID) == "" {
		return nil, fmt.Errorf("%w: vendorId is required", ErrInvalidInput)
	}
	if req.Month < time.January || req.Month > time.December {
		return nil, fmt.Errorf("%w: month must be 1-12", ErrInvalidInput)
	}
	if req.Year < 1970 || req.Year > 9999 {
		return nil, fmt.Errorf("%w: year out of range", ErrInvalidInput)
	}

	var (
		version   int64
		cacheable bool
	)
	if uc.cache != nil {
		days, v, hit, err := uc.cache.GetMonth(ctx, req.VendorID, req.Year, req.Month)
		switch {
		case err != nil:
			uc.logger.Warn("GetAvailability.Month: cache lookup failed for vendor=%s: %v", req.VendorID, err)
		case hit:
			uc.recordCache(true)
			return days, nil
		default:
			version, cacheable = v, true
			uc.recordCache(false)
		}
	}

	cfg, err := uc.loadConfig(ctx, req.VendorID)
	if err != nil {
		return nil, err
	}

	first, last := domain.MonthRange(req.Year, req.Month)
	bookings, err := uc.bookingRepo.GetByVendor(ctx, domain.VendorBookingsFilter{
		VendorID:  req.VendorID,
		StartDate: &first,
		EndDate:   &last,
	})
	if err != nil {
		uc.logger.Error("GetAvailability.Month: failed to get bookings of vendor=%s for %04d-%02d: %v",
			req.VendorID, req.Year, int(req.Month), err)
		return nil, fmt.Errorf("%w: Month - bookings: %v", ErrInternal, err)
	}

	byDate := make(map[string][]*domain.Booking)
	for _, b := range bookings {
		key := b.EventDate.Format(domain.DateFormat)
		byDate[key] = append(byDate[key], b)
	}

	days := make([]domain.DayAvailability, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, scheduling.GenerateSlots(cfg, d, byDate[d.Format(domain.DateFormat)]))
	}

	if cacheable {
		if err := uc.cache.SetMonth(ctx, req.VendorID, version, req.Year, req.Month, days); err != nil {
			uc.logger.Warn("GetAvailability.Month: cache store failed for vendor=%s: %v", req.VendorID, err)
		}
	}

	return days, nil
}

// loadConfig falls back to the defaults for vendors without a saved configuration
func (uc *UseCase) loadConfig(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error) {
	cfg, err := uc.configRepo.Get(ctx, vendorID)
	if errors.Is(err, storage.ErrConfigNotFound) {
		return domain.DefaultAvailabilityConfig(vendorID), nil
	}
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get config of vendor=%s: %v", vendorID, err)
		return nil, fmt.Errorf("%w: config: %v", ErrInternal, err)
	}
	return cfg, nil
}

func (uc *UseCase) recordCache(hit bool) {
	if uc.metrics != nil {
		uc.metrics.RecordCacheLookup(hit)
	}
}
