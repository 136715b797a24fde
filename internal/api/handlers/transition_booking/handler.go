package transition_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

const (
	msgUnauthorized       = "authentication required"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidPayment     = `status must be "paid" or "failed"`
)

type Handler struct {
	service LifecycleService
	logger  Logger
}

func NewHandler(service LifecycleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type action func(r *http.Request, actor domain.Actor, bookingID string) (*models.BookingResponse, error)

// serve resolves the caller and booking id, runs act and writes the updated booking
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, op string, act action) {
	bookingID := mux.Vars(r)["bookingId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	booking, err := act(r, actor, bookingID)
	if err != nil {
		handlers.RespondFailure(w, h.logger, op, err)
		return
	}

	h.logger.Info("%s - booking_id=%s, actor=%s:%s, status=%s", op, bookingID, actor.Role, actor.ID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// HandleAccept POST /api/v1/bookings/{bookingId}/accept
// Body (optional): {"quote": 30000}
func (h *Handler) HandleAccept(w http.ResponseWriter, r *http.Request) {
	var req AcceptRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/{id}/accept - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	h.serve(w, r, "POST /bookings/{id}/accept", func(r *http.Request, actor domain.Actor, id string) (*models.BookingResponse, error) {
		return h.service.Accept(r.Context(), actor, id, req.Quote)
	})
}

// HandleRequestPayment POST /api/v1/bookings/{bookingId}/request-payment
func (h *Handler) HandleRequestPayment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "POST /bookings/{id}/request-payment", func(r *http.Request, actor domain.Actor, id string) (*models.BookingResponse, error) {
		return h.service.RequestPayment(r.Context(), actor, id)
	})
}

// HandlePayment POST /api/v1/bookings/{bookingId}/payment
// System callers only
func (h *Handler) HandlePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	switch req.Status {
	case PaymentPaid:
		h.serve(w, r, "POST /bookings/{id}/payment", func(r *http.Request, actor domain.Actor, id string) (*models.BookingResponse, error) {
			return h.service.MarkPaid(r.Context(), actor, id)
		})
	case PaymentFailed:
		h.serve(w, r, "POST /bookings/{id}/payment", func(r *http.Request, actor domain.Actor, id string) (*models.BookingResponse, error) {
			return h.service.MarkPaymentFailed(r.Context(), actor, id, req.Reason)
		})
	default:
		h.logger.Warn("POST /bookings/{id}/payment - Unknown payment status %q", req.Status)
		handlers.RespondBadRequest(w, msgInvalidPayment)
	}
}

// HandleComplete POST /api/v1/bookings/{bookingId}/complete
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "POST /bookings/{id}/complete", func(r *http.Request, actor domain.Actor, id string) (*models.BookingResponse, error) {
		return h.service.Complete(r.Context(), actor, id)
	})
}
