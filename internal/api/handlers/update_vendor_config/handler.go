package update_vendor_config

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/config/models"
)

const (
	msgUnauthorized       = "authentication required"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDate        = "invalid date, expected YYYY-MM-DD"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/vendors/{vendorId}/config
// Omitted fields keep their current value
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.UpdateConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /vendors/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	cfg, err := h.service.Update(r.Context(), actor, vendorID, &req)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "PATCH /vendors/{id}/config", err)
		return
	}

	h.logger.Info("PATCH /vendors/{id}/config - Config updated: vendor_id=%s", vendorID)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}

// HandleSetEventTypes PUT /api/v1/vendors/{vendorId}/config/event-types
func (h *Handler) HandleSetEventTypes(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req SetEventTypesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /vendors/{id}/config/event-types - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	cfg, err := h.service.SetEventTypes(r.Context(), actor, vendorID, req.EventTypes)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "PUT /vendors/{id}/config/event-types", err)
		return
	}

	h.logger.Info("PUT /vendors/{id}/config/event-types - vendor_id=%s, count=%d", vendorID, len(req.EventTypes))
	handlers.RespondJSON(w, http.StatusOK, cfg)
}

// HandleAddHoliday POST /api/v1/vendors/{vendorId}/config/holidays
func (h *Handler) HandleAddHoliday(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req models.Holiday
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /vendors/{id}/config/holidays - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	cfg, err := h.service.AddHoliday(r.Context(), actor, vendorID, req)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "POST /vendors/{id}/config/holidays", err)
		return
	}

	h.logger.Info("POST /vendors/{id}/config/holidays - vendor_id=%s, date=%s", vendorID, req.Date)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}

// HandleRemoveHoliday DELETE /api/v1/vendors/{vendorId}/config/holidays/{date}
func (h *Handler) HandleRemoveHoliday(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	vendorID := vars["vendorId"]
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	date, err := domain.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("DELETE /vendors/{id}/config/holidays/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	cfg, err := h.service.RemoveHoliday(r.Context(), actor, vendorID, date)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "DELETE /vendors/{id}/config/holidays/{date}", err)
		return
	}

	h.logger.Info("DELETE /vendors/{id}/config/holidays/{date} - vendor_id=%s, date=%s", vendorID, vars["date"])
	handlers.RespondJSON(w, http.StatusOK, cfg)
}
