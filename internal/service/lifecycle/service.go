package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/events"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

// Service drives bookings through their lifecycle
type Service struct {
	bookingRepo  BookingRepository
	configRepo   ConfigRepository
	txManager    TransactionManager
	dispatcher   Dispatcher
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewService creates the lifecycle service; dispatcher and metrics may be nil
func NewService(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		configRepo:   configRepo,
		txManager:    txManager,
		dispatcher:   dispatcher,
		metrics:      metrics,
		timeProvider: realTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider replaces the clock
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// transition describes one status change
type transition struct {
	op        string
	to        domain.BookingStatus
	eventKey  string
	authorize func(actor domain.Actor, b *domain.Booking) bool
	change    func(b *domain.Booking, now time.Time) domain.StatusChange
}

// Accept is called by the booking's vendor; quote, when set, becomes the total amount
func (s *Service) Accept(ctx context.Context, actor domain.Actor, bookingID string, quote *float64) (*models.BookingResponse, error) {
	if quote != nil && *quote < 0 {
		return nil, fmt.Errorf("%w: quote must not be negative", ErrInvalidInput)
	}

	var declared *domain.EventType
	return s.apply(ctx, actor, bookingID, transition{
		op:       "Accept",
		to:       domain.StatusVendorAccepted,
		eventKey: events.BookingKey(domain.StatusVendorAccepted),
		authorize: func(actor domain.Actor, b *domain.Booking) bool {
			return actor.IsVendor(b.VendorID)
		},
		change: func(b *domain.Booking, now time.Time) domain.StatusChange {
			return b.AcceptChange(actor, quote, declared, now)
		},
	}, func(ctx context.Context, b *domain.Booking) error {
		if quote != nil {
			return nil
		}
		et, err := s.declaredEventType(ctx, b)
		if err != nil {
			return err
		}
		declared = et
		return nil
	})
}

// RequestPayment moves an accepted booking to payment_pending; called by the customer or the payment system.
// On a booking whose payment failed it opens a new payment attempt instead.
func (s *Service) RequestPayment(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error) {
	b, err := s.load(ctx, "RequestPayment", bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.StatusPaymentPending && b.PaymentStatus == domain.PaymentFailed {
		return s.retryPayment(ctx, actor, b)
	}

	return s.apply(ctx, actor, bookingID, transition{
		op:       "RequestPayment",
		to:       domain.StatusPaymentPending,
		eventKey: events.BookingKey(domain.StatusPaymentPending),
		authorize: func(actor domain.Actor, b *domain.Booking) bool {
			return actor.IsCustomer(b.CustomerID) || actor.IsSystem()
		},
		change: func(b *domain.Booking, now time.Time) domain.StatusChange {
			return domain.StatusChange{
				To:    domain.StatusPaymentPending,
				Entry: domain.NewTimelineEntry(domain.StatusPaymentPending, "Awaiting payment", actor, now),
			}
		},
	}, nil)
}

// retryPayment resets a failed payment to pending so the next outcome is recorded again
func (s *Service) retryPayment(ctx context.Context, actor domain.Actor, b *domain.Booking) (*models.BookingResponse, error) {
	if !actor.IsCustomer(b.CustomerID) && !actor.IsSystem() {
		s.logger.Warn("RequestPayment: actor=%s role=%s denied for booking=%s", actor.ID, actor.Role, b.BookingID)
		return nil, fmt.Errorf("%w: RequestPayment is not allowed for this actor", domain.ErrAccessDenied)
	}

	failed := domain.PaymentFailed
	pending := domain.PaymentPending
	change := domain.StatusChange{
		To:              domain.StatusPaymentPending,
		ExpectedPayment: &failed,
		PaymentStatus:   &pending,
		Entry:           domain.NewTimelineEntry(domain.StatusPaymentPending, "Payment retry requested", actor, s.timeProvider.Now()),
	}

	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.bookingRepo.UpdateStatus(txCtx, b.BookingID, domain.StatusPaymentPending, change)
		return err
	})
	if errors.Is(err, storage.ErrStatusMismatch) {
		current, loadErr := s.load(ctx, "RequestPayment", b.BookingID)
		if loadErr != nil {
			return nil, loadErr
		}
		if current.Status == domain.StatusPaymentPending && current.PaymentStatus == domain.PaymentPending {
			return models.FromDomainBooking(current), nil
		}
		return nil, &domain.TransitionError{BookingID: b.BookingID, Current: current.Status, Attempted: domain.StatusPaymentPending}
	}
	if err != nil {
		return nil, s.storageError("RequestPayment", b.BookingID, err)
	}

	s.logger.Info("RequestPayment: booking=%s payment retry opened", b.BookingID)
	s.announce(ctx, events.BookingKey(domain.StatusPaymentPending), updated)
	return models.FromDomainBooking(updated), nil
}

// MarkPaid records a successful payment and starts fulfillment; system only
func (s *Service) MarkPaid(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error) {
	paid := domain.PaymentPaid
	return s.apply(ctx, actor, bookingID, transition{
		op:       "MarkPaid",
		to:       domain.StatusInProgress,
		eventKey: events.BookingKey(domain.StatusInProgress),
		authorize: func(actor domain.Actor, _ *domain.Booking) bool {
			return actor.IsSystem()
		},
		change: func(b *domain.Booking, now time.Time) domain.StatusChange {
			return domain.StatusChange{
				To:            domain.StatusInProgress,
				PaymentStatus: &paid,
				Entry:         domain.NewTimelineEntry(domain.StatusInProgress, "Payment received", actor, now),
			}
		},
	}, nil)
}

// MarkPaymentFailed flags a failed payment; the booking stays in payment_pending so the customer can pay again
func (s *Service) MarkPaymentFailed(ctx context.Context, actor domain.Actor, bookingID, reason string) (*models.BookingResponse, error) {
	s.logger.Info("MarkPaymentFailed: booking=%s by %s", bookingID, actor.ID)

	if !actor.IsSystem() {
		s.logger.Warn("MarkPaymentFailed: actor=%s role=%s denied for booking=%s", actor.ID, actor.Role, bookingID)
		return nil, fmt.Errorf("%w: only the payment system reports payments", domain.ErrAccessDenied)
	}

	b, err := s.load(ctx, "MarkPaymentFailed", bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == domain.StatusPaymentPending && b.PaymentStatus == domain.PaymentFailed {
		s.logger.Info("MarkPaymentFailed: booking=%s already flagged", bookingID)
		return models.FromDomainBooking(b), nil
	}
	if b.Status != domain.StatusPaymentPending {
		return nil, &domain.TransitionError{BookingID: bookingID, Current: b.Status, Attempted: domain.StatusPaymentPending}
	}

	failed := domain.PaymentFailed
	observed := b.PaymentStatus
	description := "Payment failed"
	if reason = strings.TrimSpace(reason); reason != "" {
		description += ": " + reason
	}
	change := domain.StatusChange{
		To:              domain.StatusPaymentPending,
		ExpectedPayment: &observed,
		PaymentStatus:   &failed,
		Entry:           domain.NewTimelineEntry(domain.StatusPaymentPending, description, actor, s.timeProvider.Now()),
	}

	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.StatusPaymentPending, change)
		return err
	})
	if errors.Is(err, storage.ErrStatusMismatch) {
		current, loadErr := s.load(ctx, "MarkPaymentFailed", bookingID)
		if loadErr != nil {
			return nil, loadErr
		}
		if current.Status == domain.StatusPaymentPending && current.PaymentStatus == domain.PaymentFailed {
			return models.FromDomainBooking(current), nil
		}
		return nil, &domain.TransitionError{BookingID: bookingID, Current: current.Status, Attempted: domain.StatusPaymentPending}
	}
	if err != nil {
		return nil, s.storageError("MarkPaymentFailed", bookingID, err)
	}

	s.logger.Info("MarkPaymentFailed: booking=%s flagged", bookingID)
	s.announce(ctx, events.KeyPaymentFailed, updated)
	return models.FromDomainBooking(updated), nil
}

// Complete closes a fulfilled booking; called by the booking's vendor
func (s *Service) Complete(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error) {
	return s.apply(ctx, actor, bookingID, transition{
		op:       "Complete",
		to:       domain.StatusCompleted,
		eventKey: events.BookingKey(domain.StatusCompleted),
		authorize: func(actor domain.Actor, b *domain.Booking) bool {
			return actor.IsVendor(b.VendorID)
		},
		change: func(b *domain.Booking, now time.Time) domain.StatusChange {
			return domain.StatusChange{
				To:    domain.StatusCompleted,
				Entry: domain.NewTimelineEntry(domain.StatusCompleted, "Event completed", actor, now),
			}
		},
	}, nil)
}

// Cancel is allowed to the owning customer and the booking's vendor until fulfillment starts
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, bookingID, reason string) (*models.BookingResponse, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return s.apply(ctx, actor, bookingID, transition{
		op:       "Cancel",
		to:       domain.StatusCancelled,
		eventKey: events.BookingKey(domain.StatusCancelled),
		authorize: func(actor domain.Actor, b *domain.Booking) bool {
			return actor.IsCustomer(b.CustomerID) || actor.IsVendor(b.VendorID)
		},
		change: func(b *domain.Booking, now time.Time) domain.StatusChange {
			description := "Cancelled by " + string(actor.Role)
			change := domain.StatusChange{To: domain.StatusCancelled}
			if reason != "" {
				description += ": " + reason
				r := reason
				change.CancellationReason = &r
			}
			change.Entry = domain.NewTimelineEntry(domain.StatusCancelled, description, actor, now)
			return change
		},
	}, nil)
}

// Rate stores the owning customer's rating of a completed booking; a booking is rated once
func (s *Service) Rate(ctx context.Context, actor domain.Actor, bookingID string, rating int, review *string) (*models.BookingResponse, error) {
	s.logger.Info("Rate: booking=%s by %s", bookingID, actor.ID)

	if rating < domain.MinRating || rating > domain.MaxRating {
		return nil, fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if review != nil {
		trimmed := strings.TrimSpace(*review)
		if len(trimmed) > domain.MaxReviewLength {
			return nil, fmt.Errorf("%w: review must be at most %d characters", ErrInvalidInput, domain.MaxReviewLength)
		}
		if trimmed == "" {
			review = nil
		} else {
			review = &trimmed
		}
	}

	b, err := s.load(ctx, "Rate", bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsCustomer(b.CustomerID) {
		s.logger.Warn("Rate: actor=%s denied for booking=%s", actor.ID, bookingID)
		return nil, fmt.Errorf("%w: only the customer who booked can rate", domain.ErrAccessDenied)
	}
	if b.Rating != nil {
		return nil, domain.ErrAlreadyRated
	}
	if b.Status != domain.StatusCompleted {
		return nil, fmt.Errorf("%w: booking %s is %s, only completed bookings can be rated", domain.ErrInvalidTransition, bookingID, b.Status)
	}

	updated, err := s.bookingRepo.SetRating(ctx, bookingID, rating, review, s.timeProvider.Now())
	switch {
	case errors.Is(err, storage.ErrAlreadyRated):
		return nil, domain.ErrAlreadyRated
	case errors.Is(err, storage.ErrStatusMismatch):
		return nil, fmt.Errorf("%w: booking %s is no longer completed", domain.ErrInvalidTransition, bookingID)
	case err != nil:
		return nil, s.storageError("Rate", bookingID, err)
	}

	s.logger.Info("Rate: booking=%s rated %d", bookingID, rating)
	if s.dispatcher != nil {
		s.dispatcher.BookingChanged(ctx, events.KeyBookingRated, updated)
	}
	return models.FromDomainBooking(updated), nil
}

// GetByID returns a booking to its customer, its vendor or the system
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, bookingID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking=%s for %s", bookingID, actor.ID)

	b, err := s.load(ctx, "GetByID", bookingID)
	if err != nil {
		return nil, err
	}
	if !actor.IsCustomer(b.CustomerID) && !actor.IsVendor(b.VendorID) && !actor.IsSystem() {
		s.logger.Warn("GetByID: access denied for %s to booking=%s", actor.ID, bookingID)
		return nil, domain.ErrAccessDenied
	}
	return models.FromDomainBooking(b), nil
}

// ListCustomerBookings returns the actor's own bookings, newest first
func (s *Service) ListCustomerBookings(ctx context.Context, actor domain.Actor, status *string) (*models.BookingListResponse, error) {
	s.logger.Info("ListCustomerBookings: customer=%s status=%v", actor.ID, status)

	if actor.Role != domain.RoleCustomer || actor.ID == "" {
		return nil, fmt.Errorf("%w: only customers have bookings", domain.ErrAccessDenied)
	}

	var domainStatus *domain.BookingStatus
	if status != nil {
		st, err := domain.ParseBookingStatus(*status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		domainStatus = &st
	}

	bookings, err := s.bookingRepo.GetByCustomer(ctx, actor.ID, domainStatus)
	if err != nil {
		s.logger.Error("ListCustomerBookings: repository error for customer=%s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: ListCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListCustomerBookings: fetched %d bookings for customer=%s", len(bookings), actor.ID)
	return models.FromDomainBookingList(bookings), nil
}

// ListVendorBookings returns a vendor's bookings by date and slot; only the vendor may list them
func (s *Service) ListVendorBookings(ctx context.Context, actor domain.Actor, req *models.ListVendorBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("ListVendorBookings: vendor=%s", req.VendorID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if !actor.IsVendor(req.VendorID) && !actor.IsSystem() {
		s.logger.Warn("ListVendorBookings: actor=%s is not vendor=%s", actor.ID, req.VendorID)
		return nil, domain.ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByVendor(ctx, filter)
	if err != nil {
		s.logger.Error("ListVendorBookings: repository error for vendor=%s: %v", req.VendorID, err)
		return nil, fmt.Errorf("%w: ListVendorBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListVendorBookings: fetched %d bookings for vendor=%s", len(bookings), req.VendorID)
	return models.FromDomainBookingList(bookings), nil
}

// apply runs a transition. A booking already in the target status is returned unchanged,
// so retries never add a second timeline entry.
func (s *Service) apply(
	ctx context.Context,
	actor domain.Actor,
	bookingID string,
	t transition,
	prepare func(ctx context.Context, b *domain.Booking) error,
) (*models.BookingResponse, error) {
	s.logger.Info("%s: booking=%s by %s=%s", t.op, bookingID, actor.Role, actor.ID)

	b, err := s.load(ctx, t.op, bookingID)
	if err != nil {
		return nil, err
	}
	if !t.authorize(actor, b) {
		s.logger.Warn("%s: actor=%s role=%s denied for booking=%s", t.op, actor.ID, actor.Role, bookingID)
		return nil, fmt.Errorf("%w: %s is not allowed for this actor", domain.ErrAccessDenied, t.op)
	}
	if b.Status == t.to {
		s.logger.Info("%s: booking=%s already %s", t.op, bookingID, t.to)
		return models.FromDomainBooking(b), nil
	}
	if !b.Status.CanTransitionTo(t.to) {
		s.logger.Warn("%s: booking=%s cannot move from %s to %s", t.op, bookingID, b.Status, t.to)
		return nil, &domain.TransitionError{BookingID: bookingID, Current: b.Status, Attempted: t.to}
	}
	if prepare != nil {
		if err := prepare(ctx, b); err != nil {
			return nil, err
		}
	}

	change := t.change(b, s.timeProvider.Now())
	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.bookingRepo.UpdateStatus(txCtx, bookingID, b.Status, change)
		return err
	})

	if errors.Is(err, storage.ErrStatusMismatch) {
		// someone else moved the booking between our read and write
		current, loadErr := s.load(ctx, t.op, bookingID)
		if loadErr != nil {
			return nil, loadErr
		}
		if current.Status == t.to {
			s.logger.Info("%s: booking=%s was moved to %s concurrently", t.op, bookingID, t.to)
			return models.FromDomainBooking(current), nil
		}
		return nil, &domain.TransitionError{BookingID: bookingID, Current: current.Status, Attempted: t.to}
	}
	if err != nil {
		return nil, s.storageError(t.op, bookingID, err)
	}

	s.logger.Info("%s: booking=%s moved to %s", t.op, bookingID, t.to)
	s.announce(ctx, t.eventKey, updated)
	return models.FromDomainBooking(updated), nil
}

func (s *Service) announce(ctx context.Context, key string, b *domain.Booking) {
	if s.metrics != nil {
		s.metrics.RecordTransition(string(b.Status))
	}
	if s.dispatcher != nil {
		s.dispatcher.BookingChanged(ctx, key, b)
	}
}

func (s *Service) load(ctx context.Context, op, bookingID string) (*domain.Booking, error) {
	if strings.TrimSpace(bookingID) == "" {
		return nil, fmt.Errorf("%w: bookingId is required", ErrInvalidInput)
	}
	b, err := s.bookingRepo.GetByBookingID(ctx, bookingID)
	if errors.Is(err, storage.ErrBookingNotFound) {
		s.logger.Warn("%s: booking=%s not found", op, bookingID)
		return nil, fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}
	if err != nil {
		return nil, s.storageError(op, bookingID, err)
	}
	return b, nil
}

// declaredEventType finds the vendor's price for the booked event type, if any
func (s *Service) declaredEventType(ctx context.Context, b *domain.Booking) (*domain.EventType, error) {
	cfg, err := s.configRepo.Get(ctx, b.VendorID)
	if errors.Is(err, storage.ErrConfigNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("Accept: failed to get config of vendor=%s: %v", b.VendorID, err)
		return nil, fmt.Errorf("%w: Accept - config error: %v", ErrInternal, err)
	}
	et, ok := cfg.FindEventType(b.EventType)
	if !ok {
		return nil, nil
	}
	return &et, nil
}

func (s *Service) storageError(op, bookingID string, err error) error {
	if errors.Is(err, storage.ErrBookingNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrBookingNotFound, bookingID)
	}
	s.logger.Error("%s: repository error for booking=%s: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}
