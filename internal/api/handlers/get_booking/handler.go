package get_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
)

const msgUnauthorized = "authentication required"

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

// Handle GET /api/v1/bookings/{bookingId}
// Visible to the booking's customer and vendor
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	booking, err := h.service.GetByID(r.Context(), actor, bookingID)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "GET /bookings/{id}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}
