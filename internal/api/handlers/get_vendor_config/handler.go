package get_vendor_config

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
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

// Handle GET /api/v1/vendors/{vendorId}/config
// Vendors without a saved configuration get the defaults with isDefault=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vendorID := mux.Vars(r)["vendorId"]

	cfg, err := h.service.Get(r.Context(), vendorID)
	if err != nil {
		handlers.RespondFailure(w, h.logger, "GET /vendors/{id}/config", err)
		return
	}

	h.logger.Info("GET /vendors/{id}/config - vendor_id=%s, default=%t", vendorID, cfg.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, cfg)
}

// HandlePresets GET /api/v1/event-types/presets
func (h *Handler) HandlePresets(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.service.EventTypePresets())
}
