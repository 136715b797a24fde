package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/events"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/internal/scheduling"
	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
)

// UseCase places a booking for the authenticated customer
type UseCase struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	txManager    TransactionManager
	dispatcher   Dispatcher
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase creates the use case; location is the zone vendor working hours are expressed in
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
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
		txManager:    txManager,
		dispatcher:   dispatcher,
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

// Execute validates the order against current availability and stores it in one serializable transaction.
// Losing the race for the slot yields domain.ErrBookingConflict.
func (uc *UseCase) Execute(ctx context.Context, actor domain.Actor, req *Request) (*domain.Booking, error) {
	if actor.Role != domain.RoleCustomer || actor.ID == "" {
		return nil, fmt.Errorf("%w: only customers can place bookings", domain.ErrAccessDenied)
	}

	// 1. Input
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now().In(uc.location)
	date := domain.DateOf(req.Date)
	uc.logger.Info("CreateBooking: customer=%s vendor=%s date=%s slot=%s",
		actor.ID, req.VendorID, date.Format(domain.DateFormat), req.SlotStart)

	// 2. Cheap rejection outside the transaction
	if _, _, err := uc.check(ctx, req, date, now); err != nil {
		return nil, uc.fail(req, err)
	}

	// 3. Re-read and re-validate under the transaction, then write
	var (
		result       *domain.Booking
		autoAccepted bool
	)
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		autoAccepted = false

		cfg, acceptance, err := uc.check(txCtx, req, date, now)
		if err != nil {
			return err
		}

		created, err := uc.bookingRepo.Create(txCtx, uc.newBooking(actor, req, cfg, acceptance, now))
		if err != nil {
			return fmt.Errorf("create: %w", err)
		}

		if cfg.AutoAcceptBookings {
			vendor := domain.Actor{ID: created.VendorID, Role: domain.RoleVendor}
			change := created.AcceptChange(vendor, nil, acceptance.Declared, now)
			accepted, err := uc.bookingRepo.UpdateStatus(txCtx, created.BookingID, domain.StatusPending, change)
			if err != nil {
				return fmt.Errorf("auto accept: %w", err)
			}
			created = accepted
			autoAccepted = true
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, uc.fail(req, err)
	}

	uc.logger.Info("CreateBooking: created booking=%s vendor=%s status=%s", result.BookingID, result.VendorID, result.Status)
	if uc.metrics != nil {
		uc.metrics.RecordBookingCreated()
		if autoAccepted {
			uc.metrics.RecordTransition(string(domain.StatusVendorAccepted))
		}
	}
	if uc.dispatcher != nil {
		uc.dispatcher.BookingChanged(ctx, events.KeyBookingCreated, result)
		if autoAccepted {
			uc.dispatcher.BookingChanged(ctx, events.BookingKey(domain.StatusVendorAccepted), result)
		}
	}

	return result, nil
}

// check loads the vendor's config and day and runs the booking validator
func (uc *UseCase) check(ctx context.Context, req *Request, date, now time.Time) (*domain.AvailabilityConfig, *scheduling.Acceptance, error) {
	cfg, err := uc.configRepo.Get(ctx, req.VendorID)
	if errors.Is(err, storage.ErrConfigNotFound) {
		cfg = domain.DefaultAvailabilityConfig(req.VendorID)
	} else if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}

	bookings, err := uc.bookingRepo.GetByVendor(ctx, domain.VendorBookingsFilter{
		VendorID:  req.VendorID,
		StartDate: &date,
		EndDate:   &date,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("bookings: %w", err)
	}

	day := scheduling.GenerateSlots(cfg, date, bookings)
	acceptance, err := scheduling.ValidateBooking(cfg, day, scheduling.Request{
		VendorID:    req.VendorID,
		Date:        date,
		SlotStart:   req.SlotStart,
		SlotEnd:     req.SlotEnd,
		EventType:   req.EventType,
		GuestCount:  req.GuestCount,
		RequestedAt: now,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, acceptance, nil
}

func (uc *UseCase) newBooking(actor domain.Actor, req *Request, cfg *domain.AvailabilityConfig, acceptance *scheduling.Acceptance, now time.Time) *domain.Booking {
	vendorName := req.VendorName
	if vendorName == "" {
		vendorName = cfg.VendorName
	}
	return &domain.Booking{
		BookingID:            domain.NewBookingID(now),
		CustomerID:           actor.ID,
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		CustomerPhone:        req.CustomerPhone,
		VendorID:             req.VendorID,
		VendorName:           vendorName,
		EventDate:            acceptance.Date,
		SlotStart:            acceptance.Slot.StartTime,
		SlotEnd:              acceptance.Slot.EndTime,
		EventType:            acceptance.EventType,
		EventLocation:        req.EventLocation,
		GuestCount:           req.GuestCount,
		Budget:               req.Budget,
		SelectedServices:     req.SelectedServices,
		Status:               domain.StatusPending,
		PaymentStatus:        domain.PaymentPending,
		EventDescription:     req.EventDescription,
		SpecificRequirements: req.SpecificRequirements,
		CustomerNotes:        req.CustomerNotes,
		Timeline: []domain.TimelineEntry{
			domain.NewTimelineEntry(domain.StatusPending, "Booking request submitted", actor, now),
		},
	}
}

// fail records and translates an error.
// A taken slot or a full day means another order won, before or during our transaction.
func (uc *UseCase) fail(req *Request, err error) error {
	var rejection *domain.RejectionError
	if errors.As(err, &rejection) {
		if rejection.Reason == domain.RejectSlotTaken || rejection.Reason == domain.RejectFullyBooked {
			return uc.conflict(req, err)
		}
		if uc.metrics != nil {
			uc.metrics.RecordRejection(string(rejection.Reason))
		}
		uc.logger.Info("CreateBooking: vendor=%s slot=%s rejected: %v", req.VendorID, req.SlotStart, err)
		return rejection
	}

	if errors.Is(err, storage.ErrSlotTaken) || errors.Is(err, storage.ErrWriteConflict) || dbmetrics.IsSerializationFailure(err) {
		return uc.conflict(req, err)
	}

	uc.logger.Error("CreateBooking: vendor=%s failed: %v", req.VendorID, err)
	return fmt.Errorf("%w: %v", ErrInternal, err)
}

func (uc *UseCase) conflict(req *Request, cause error) error {
	if uc.metrics != nil {
		uc.metrics.RecordBookingConflict()
	}
	uc.logger.Warn("CreateBooking: vendor=%s date=%s slot=%s lost to a concurrent booking: %v",
		req.VendorID, domain.DateOf(req.Date).Format(domain.DateFormat), req.SlotStart, cause)
	return fmt.Errorf("%w: %s %s", domain.ErrBookingConflict, domain.DateOf(req.Date).Format(domain.DateFormat), req.SlotStart)
}
