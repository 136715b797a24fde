package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-EventScheduling/internal/api/handlers"
	"github.com/m04kA/SMC-EventScheduling/internal/api/middleware"
	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/lifecycle/models"
)

const (
	msgUnauthorized       = "authentication required"
	msgInvalidRequestBody = "invalid request body"
	msgInvalidDateOrTime  = "invalid eventDate (YYYY-MM-DD) or slot time (HH:MM)"
	msgOnlyCustomers      = "only customers can place bookings"
	msgSlotTaken          = "the slot was just booked by someone else, pick another one"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	booking, err := h.useCase.Execute(r.Context(), actor, useCaseReq)
	if err != nil {
		var rejection *domain.RejectionError
		switch {
		case errors.Is(err, domain.ErrBookingConflict):
			h.logger.Warn("POST /bookings - Slot taken: customer_id=%s, vendor_id=%s, date=%s, slot=%s",
				actor.ID, req.VendorID, req.EventDate, req.SlotStart)
			handlers.RespondJSON(w, http.StatusConflict, handlers.ErrorResponse{Error: msgSlotTaken, Reason: "conflict"})

		case errors.As(err, &rejection):
			h.logger.Warn("POST /bookings - Rejected: customer_id=%s, vendor_id=%s, reason=%s",
				actor.ID, req.VendorID, rejection.Reason)
			handlers.RespondDomainError(w, err)

		case errors.Is(err, domain.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Not a customer: actor=%s, role=%s", actor.ID, actor.Role)
			handlers.RespondForbidden(w, msgOnlyCustomers)

		default:
			handlers.RespondFailure(w, h.logger, "POST /bookings", err)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created: booking_id=%s, customer_id=%s, vendor_id=%s, status=%s",
		booking.BookingID, actor.ID, booking.VendorID, booking.Status)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainBooking(booking))
}
