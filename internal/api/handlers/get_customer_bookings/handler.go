package get_customer_bookings

import (
	"net/http"

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

// Handle GET /api/v1/me/bookings
// Query params: status (optional). Newest first.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	result, err := h.service.ListCustomerBookings(r.Context(), actor, status)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "GET /me/bookings", err)
		return
	}

	h.logger.Info("GET /me/bookings - customer_id=%s, count=%d", actor.ID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
