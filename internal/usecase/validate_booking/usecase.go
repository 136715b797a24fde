package validate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/internal/scheduling"
)

// UseCase checks a booking request against the vendor's current availability
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase creates the use case; location is the zone vendor working hours are expressed in
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	metrics Metrics,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// WithTimeProvider replaces the clock
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute returns an Acceptance or a *domain.RejectionError. The acceptance reserves nothing.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*scheduling.Acceptance, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateBooking: invalid request: %v", err)
		return nil, err
	}

	date := domain.DateOf(req.Date)
	cfg, err := uc.configRepo.Get(ctx, req.VendorID)
	if errors.Is(err, storage.ErrConfigNotFound) {
		cfg = domain.DefaultAvailabilityConfig(req.VendorID)
	} else if err != nil {
		uc.logger.Error("ValidateBooking: failed to get config of vendor=%s: %v", req.VendorID, err)
		return nil, fmt.Errorf("%w: config: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetByVendor(ctx, domain.VendorBookingsFilter{
		VendorID:  req.VendorID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		uc.logger.Error("ValidateBooking: failed to get bookings of vendor=%s: %v", req.VendorID, err)
		return nil, fmt.Errorf("%w: bookings: %v", ErrInternal, err)
	}

	day := scheduling.GenerateSlots(cfg, date, bookings)
	acceptance, err := scheduling.ValidateBooking(cfg, day, scheduling.Request{
		VendorID:    req.VendorID,
		Date:        date,
		SlotStart:   req.SlotStart,
		SlotEnd:     req.SlotEnd,
		EventType:   req.EventType,
		GuestCount:  req.GuestCount,
		RequestedAt: uc.timeProvider.Now().In(uc.location),
	})
	if err != nil {
		var rejection *domain.RejectionError
		if errors.As(err, &rejection) && uc.metrics != nil {
			uc.metrics.RecordRejection(string(rejection.Reason))
		}
		uc.logger.Info("ValidateBooking: vendor=%s date=%s slot=%s rejected: %v",
			req.VendorID, date.Format(domain.DateFormat), req.SlotStart, err)
		return nil, err
	}

	return acceptance, nil
}
