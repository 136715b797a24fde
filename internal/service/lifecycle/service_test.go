package lifecycle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage/memory"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
	"github.com/m04kA/SMC-EventScheduling/pkg/logger"
	"github.com/m04kA/SMC-EventScheduling/pkg/ptr"
)

var (
	customer = domain.Actor{ID: "customer-1", Role: domain.RoleCustomer}
	stranger = domain.Actor{ID: "customer-2", Role: domain.RoleCustomer}
	vendor   = domain.Actor{ID: "vendor-1", Role: domain.RoleVendor}
	payments = domain.SystemActor("payment-service")
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type keyRecorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *keyRecorder) BookingChanged(_ context.Context, key string, _ *domain.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func setup(t *testing.T) (*Service, *memory.Store, *keyRecorder) {
	t.Helper()
	store := memory.NewStore()
	rec := &keyRecorder{}
	svc := NewService(store.Bookings(), store.Configs(), memory.NewTxManager(), rec, nil, logger.NewNop()).
		WithTimeProvider(fixedTime{time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)})

	_, err := store.Bookings().Create(context.Background(), &domain.Booking{
		BookingID:     "VB-1",
		CustomerID:    customer.ID,
		CustomerName:  "Ann Lee",
		CustomerEmail: "ann@example.com",
		VendorID:      vendor.ID,
		EventDate:     time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC),
		SlotStart:     "09:00",
		SlotEnd:       "10:00",
		EventType:     "birthday",
		GuestCount:    40,
		Budget:        ptr.Ptr(30000.0),
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentPending,
		Timeline: []domain.TimelineEntry{
			domain.NewTimelineEntry(domain.StatusPending, "Booking request submitted", customer, time.Now()),
		},
	})
	require.NoError(t, err)
	return svc, store, rec
}

func labels(resp *models.BookingResponse) []string {
	out := make([]string, 0, len(resp.Timeline))
	for _, e := range resp.Timeline {
		out = append(out, e.Label)
	}
	return out
}

func TestService_HappyPath(t *testing.T) {
	svc, _, rec := setup(t)
	ctx := context.Background()

	resp, err := svc.Accept(ctx, vendor, "VB-1", nil)
	require.NoError(t, err)
	assert.Equal(t, "vendor_accepted", resp.Status)
	require.NotNil(t, resp.TotalAmount)
	assert.Equal(t, 30000.0, *resp.TotalAmount)
	require.NotNil(t, resp.AcceptedVendor)
	assert.Equal(t, vendor.ID, *resp.AcceptedVendor)

	resp, err = svc.RequestPayment(ctx, customer, "VB-1")
	require.NoError(t, err)
	assert.Equal(t, "payment_pending", resp.Status)

	resp, err = svc.MarkPaid(ctx, payments, "VB-1")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", resp.Status)
	assert.Equal(t, "paid", resp.PaymentStatus)

	resp, err = svc.Complete(ctx, vendor, "VB-1")
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)

	resp, err = svc.Rate(ctx, customer, "VB-1", 5, ptr.Ptr("  Great party  "))
	require.NoError(t, err)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 5, *resp.Rating)
	assert.Equal(t, "Great party", *resp.Review)

	assert.Equal(t, []string{"Order Placed", "Vendor Accepted", "Payment Pending", "In Progress", "Completed"}, labels(resp))
	assert.Equal(t, []string{
		"booking.vendor_accepted", "booking.payment_pending", "booking.in_progress", "booking.completed", "booking.rated",
	}, rec.keys)
}

func TestService_AcceptPricesFromDeclaredEventType(t *testing.T) {
	svc, store, _ := setup(t)
	cfg := domain.DefaultAvailabilityConfig(vendor.ID)
	cfg.EventTypes = []domain.EventType{{Type: "Birthday", DurationMinutes: 180, Price: 25000}}
	_, err := store.Configs().Save(context.Background(), vendor.ID, domain.ConfigPatch{}, cfg)
	require.NoError(t, err)

	resp, err := svc.Accept(context.Background(), vendor, "VB-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, *resp.TotalAmount)
}

func TestService_AcceptQuoteWins(t *testing.T) {
	svc, _, _ := setup(t)

	resp, err := svc.Accept(context.Background(), vendor, "VB-1", ptr.Ptr(27500.0))
	require.NoError(t, err)
	assert.Equal(t, 27500.0, *resp.TotalAmount)

	_, err = svc.Accept(context.Background(), vendor, "VB-1", ptr.Ptr(-1.0))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestService_AcceptRequiresBookingVendor(t *testing.T) {
	svc, _, _ := setup(t)

	for _, actor := range []domain.Actor{customer, payments, {ID: "vendor-2", Role: domain.RoleVendor}} {
		_, err := svc.Accept(context.Background(), actor, "VB-1", nil)
		assert.ErrorIs(t, err, domain.ErrAccessDenied, actor.ID)
	}
}

func TestService_ConcurrentAcceptIsIdempotent(t *testing.T) {
	svc, store, rec := setup(t)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(context.Background(), vendor, "VB-1", nil)
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	b, err := store.Bookings().GetByBookingID(context.Background(), "VB-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVendorAccepted, b.Status)
	require.Len(t, b.Timeline, 2)
	assert.Equal(t, "Vendor Accepted", b.Timeline[1].Label)
	assert.Len(t, rec.keys, 1)
}

func TestService_RetryDoesNotDuplicateTimeline(t *testing.T) {
	svc, _, _ := setup(t)

	first, err := svc.Accept(context.Background(), vendor, "VB-1", nil)
	require.NoError(t, err)
	second, err := svc.Accept(context.Background(), vendor, "VB-1", nil)
	require.NoError(t, err)

	assert.Equal(t, first.Timeline, second.Timeline)
}

func TestService_CannotCancelInProgress(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Accept(ctx, vendor, "VB-1", nil)
	require.NoError(t, err)
	_, err = svc.RequestPayment(ctx, payments, "VB-1")
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, payments, "VB-1")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, customer, "VB-1", "changed my mind")

	var transitionErr *domain.TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, domain.StatusInProgress, transitionErr.Current)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	b, err := store.Bookings().GetByBookingID(ctx, "VB-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, b.Status)
	assert.Nil(t, b.CancellationReason)
}

func TestService_CompleteRequiresAcceptance(t *testing.T) {
	svc, _, _ := setup(t)

	_, err := svc.Complete(context.Background(), vendor, "VB-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestService_Cancel(t *testing.T) {
	svc, _, rec := setup(t)

	_, err := svc.Cancel(context.Background(), stranger, "VB-1", "")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	resp, err := svc.Cancel(context.Background(), vendor, "VB-1", "Double booked")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "Double booked", *resp.CancellationReason)
	assert.Equal(t, "Cancelled by vendor: Double booked", resp.Timeline[1].Description)

	again, err := svc.Cancel(context.Background(), customer, "VB-1", "")
	require.NoError(t, err)
	assert.Len(t, again.Timeline, 2)
	assert.Equal(t, []string{"booking.cancelled"}, rec.keys)
}

func TestService_PaymentRules(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Accept(ctx, vendor, "VB-1", nil)
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, payments, "VB-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "payment must be requested first")

	_, err = svc.RequestPayment(ctx, stranger, "VB-1")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	_, err = svc.RequestPayment(ctx, customer, "VB-1")
	require.NoError(t, err)

	_, err = svc.MarkPaid(ctx, customer, "VB-1")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)
}

func TestService_PaymentFailureThenRetry(t *testing.T) {
	svc, _, rec := setup(t)
	ctx := context.Background()

	_, err := svc.MarkPaymentFailed(ctx, payments, "VB-1", "card declined")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.Accept(ctx, vendor, "VB-1", nil)
	require.NoError(t, err)
	_, err = svc.RequestPayment(ctx, customer, "VB-1")
	require.NoError(t, err)

	_, err = svc.MarkPaymentFailed(ctx, vendor, "VB-1", "card declined")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	resp, err := svc.MarkPaymentFailed(ctx, payments, "VB-1", "card declined")
	require.NoError(t, err)
	assert.Equal(t, "payment_pending", resp.Status)
	assert.Equal(t, "failed", resp.PaymentStatus)
	assert.Equal(t, "Payment failed: card declined", resp.Timeline[len(resp.Timeline)-1].Description)

	again, err := svc.MarkPaymentFailed(ctx, payments, "VB-1", "card declined")
	require.NoError(t, err)
	assert.Len(t, again.Timeline, len(resp.Timeline))

	paid, err := svc.MarkPaid(ctx, payments, "VB-1")
	require.NoError(t, err)
	assert.Equal(t, "in_progress", paid.Status)
	assert.Equal(t, "paid", paid.PaymentStatus)
	assert.Contains(t, rec.keys, "booking.payment_failed")
}

func TestService_SecondFailureAfterRetryIsRecorded(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	_, err := svc.Accept(ctx, vendor, "VB-1", nil)
	require.NoError(t, err)
	_, err = svc.RequestPayment(ctx, customer, "VB-1")
	require.NoError(t, err)

	first, err := svc.MarkPaymentFailed(ctx, payments, "VB-1", "card declined")
	require.NoError(t, err)

	_, err = svc.RequestPayment(ctx, stranger, "VB-1")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	retried, err := svc.RequestPayment(ctx, customer, "VB-1")
	require.NoError(t, err)
	assert.Equal(t, "payment_pending", retried.Status)
	assert.Equal(t, "pending", retried.PaymentStatus)
	assert.Len(t, retried.Timeline, len(first.Timeline)+1)

	again, err := svc.RequestPayment(ctx, customer, "VB-1")
	require.NoError(t, err)
	assert.Len(t, again.Timeline, len(retried.Timeline))

	second, err := svc.MarkPaymentFailed(ctx, payments, "VB-1", "insufficient funds")
	require.NoError(t, err)
	assert.Equal(t, "failed", second.PaymentStatus)
	assert.Len(t, second.Timeline, len(retried.Timeline)+1)
	assert.Equal(t, "Payment failed: insufficient funds", second.Timeline[len(second.Timeline)-1].Description)
}

func TestService_Rate(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Rate(ctx, customer, "VB-1", 4, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.Rate(ctx, customer, "VB-1", 6, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.Accept(ctx, vendor, "VB-1", nil)
	require.NoError(t, err)
	_, err = svc.RequestPayment(ctx, customer, "VB-1")
	require.NoError(t, err)
	_, err = svc.MarkPaid(ctx, payments, "VB-1")
	require.NoError(t, err)
	_, err = svc.Complete(ctx, vendor, "VB-1")
	require.NoError(t, err)

	_, err = svc.Rate(ctx, stranger, "VB-1", 4, nil)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	resp, err := svc.Rate(ctx, customer, "VB-1", 4, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Review)

	_, err = svc.Rate(ctx, customer, "VB-1", 5, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyRated)
}

func TestService_Reads(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, customer, "VB-missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	_, err = svc.GetByID(ctx, stranger, "VB-1")
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	resp, err := svc.GetByID(ctx, vendor, "VB-1")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-04", resp.EventDate)
	assert.Equal(t, "09:00-10:00", resp.TimeSlot)

	list, err := svc.ListCustomerBookings(ctx, customer, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = svc.ListCustomerBookings(ctx, customer, ptr.Ptr("lost"))
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = svc.ListVendorBookings(ctx, domain.Actor{ID: "vendor-2", Role: domain.RoleVendor}, &models.ListVendorBookingsRequest{VendorID: vendor.ID})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	vendorList, err := svc.ListVendorBookings(ctx, vendor, &models.ListVendorBookingsRequest{
		VendorID:  vendor.ID,
		StartDate: ptr.Ptr(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)),
		EndDate:   ptr.Ptr(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	require.Len(t, vendorList.Bookings, 1)
	assert.Equal(t, "VB-1", vendorList.Bookings[0].BookingID)
}
