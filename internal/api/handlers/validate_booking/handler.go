package validate_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

const (
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid date or time, expected YYYY-MM-DD and HH:MM"
)

type Handler struct {
	useCase ValidateBookingUseCase
	logger  Logger
}

func NewHandler(useCase ValidateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/validate
// A rejected request is a normal answer: 200 with valid=false and the reason
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req ValidateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings/validate - Invalid date or time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	acceptance, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var rejection *domain.RejectionError
		if errors.As(err, &rejection) {
			h.logger.Info("POST /bookings/validate - Rejected: vendor_id=%s, date=%s, reason=%s",
				req.VendorID, req.Date, rejection.Reason)
			handlers.RespondJSON(w, http.StatusOK, FromRejection(rejection))
			return
		}
		handlers.RespondFailure(w, h.logger, "POST /bookings/validate", err)
		return
	}

	h.logger.Info("POST /bookings/validate - Accepted: vendor_id=%s, date=%s, slot=%s",
		req.VendorID, req.Date, acceptance.Slot.Label())
	handlers.RespondJSON(w, http.StatusOK, FromAcceptance(acceptance))
}
