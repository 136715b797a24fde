package cancel_booking

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

const (
	msgUnauthorized       = "authentication required"
	msgInvalidRequestBody = "invalid request body"
	msgCannotCancel       = "booking can no longer be cancelled"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/cancel
// Body (optional): {"cancellationReason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.Cancel(r.Context(), actor, bookingID, req.Reason())
	if err != nil {
		var transition *domain.TransitionError
		if errors.As(err, &transition) {
			h.logger.Warn("POST /bookings/{id}/cancel - booking_id=%s is %s", bookingID, transition.Current)
			handlers.RespondJSON(w, http.StatusConflict, handlers.ErrorResponse{Error: msgCannotCancel, Reason: "invalid_transition"})
			return
		}
		handlers.RespondFailure(w, h.logger, "POST /bookings/{id}/cancel", err)
		return
	}

	h.logger.Info("POST /bookings/{id}/cancel - Booking cancelled: booking_id=%s, by=%s:%s", bookingID, actor.Role, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
