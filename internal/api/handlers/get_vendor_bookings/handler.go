package get_vendor_bookings

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
)

const (
	msgUnauthorized  = "authentication required"
	msgInvalidParams = "invalid query parameters"
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

// Handle GET /api/v1/vendors/{vendorId}/bookings
// Query params: startDate, endDate (YYYY-MM-DD), status, includeInactive (all optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(vendorID, query.Get("startDate"), query.Get("endDate"),
		query.Get("status"), query.Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListVendorBookings(r.Context(), actor, serviceReq)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "GET /vendors/{id}/bookings", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/bookings - vendor_id=%s, count=%d", vendorID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
