package get_availability

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
)

const (
	msgMissingDate  = "date is required"
	msgInvalidDate  = "invalid date, expected YYYY-MM-DD"
	msgInvalidMonth = "year and month are required integers"
)

type Handler struct {
	useCase AvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase AvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// HandleDay GET /api/v1/vendors/{vendorId}/availability
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /vendors/{id}/availability - Missing date: vendor_id=%s", vendorID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	req, err := ToDayRequest(vendorID, dateStr)
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/availability - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	day, err := h.useCase.Day(r.Context(), req)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "GET /vendors/{id}/availability", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/availability - vendor_id=%s, date=%s, available=%t, slots=%d",
		vendorID, dateStr, day.IsAvailable, len(day.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromDomainDay(*day))
}

// HandleMonth GET /api/v1/vendors/{vendorId}/availability/month
// Query params: year, month (1-12)
func (h *Handler) HandleMonth(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]
	query := r.URL.Query()

	req, err := ToMonthRequest(vendorID, query.Get("year"), query.Get("month"))
	if err != nil {
		h.logger.Warn("GET /vendors/{id}/availability/month - Invalid params: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	days, err := h.useCase.Month(r.Context(), req)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "GET /vendors/{id}/availability/month", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/availability/month - vendor_id=%s, %04d-%02d, days=%d",
		vendorID, req.Year, int(req.Month), len(days))
	handlers.RespondJSON(w, http.StatusOK, FromDomainMonth(req, days))
}
