package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

const (
	maxBodyBytes = 1 << 20

	msgInternalError      = "internal server error"
	msgStorageUnavailable = "storage temporarily unavailable, retry later"
	msgNotFound           = "booking not found"
	msgForbidden          = "access denied"
	msgConflict           = "slot was booked concurrently"
	msgAlreadyRated       = "booking already rated"
)

// Logger is used by RespondFailure
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error  string               `json:"error"`
	Reason string               `json:"reason,omitempty"`
	Fields []FieldErrorResponse `json:"fields,omitempty"`
}

// FieldErrorResponse is one invalid input field
type FieldErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// DecodeJSON reads a JSON body and rejects unknown fields and trailing data
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// RespondJSON writes v with the given status; nil v writes no body
func RespondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondTooManyRequests(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusTooManyRequests, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondDomainError maps a use case or service error onto a status and writes it.
// The returned status lets callers choose the log level.
func RespondDomainError(w http.ResponseWriter, err error) int {
	var (
		configErr     *domain.ConfigError
		rejectionErr  *domain.RejectionError
		transitionErr *domain.TransitionError
	)

	switch {
	case errors.As(err, &configErr):
		fields := make([]FieldErrorResponse, 0, len(configErr.Fields))
		for _, f := range configErr.Fields {
			fields = append(fields, FieldErrorResponse{Field: f.Field, Message: f.Message})
		}
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: domain.ErrInvalidConfig.Error(), Fields: fields})
		return http.StatusBadRequest

	case errors.As(err, &rejectionErr):
		RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:  rejectionMessage(rejectionErr),
			Reason: string(rejectionErr.Reason),
		})
		return http.StatusUnprocessableEntity

	case errors.As(err, &transitionErr):
		RespondJSON(w, http.StatusConflict, ErrorResponse{
			Error:  fmt.Sprintf("booking is %s, cannot move to %s", transitionErr.Current, transitionErr.Attempted),
			Reason: "invalid_transition",
		})
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidTransition):
		RespondJSON(w, http.StatusConflict, ErrorResponse{Error: domain.ErrInvalidTransition.Error(), Reason: "invalid_transition"})
		return http.StatusConflict

	case errors.Is(err, domain.ErrBookingConflict):
		RespondJSON(w, http.StatusConflict, ErrorResponse{Error: msgConflict, Reason: "conflict"})
		return http.StatusConflict

	case errors.Is(err, domain.ErrAlreadyRated):
		RespondJSON(w, http.StatusConflict, ErrorResponse{Error: msgAlreadyRated, Reason: "already_rated"})
		return http.StatusConflict

	case errors.Is(err, domain.ErrInvalidRequest):
		RespondBadRequest(w, err.Error())
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrAccessDenied):
		RespondForbidden(w, msgForbidden)
		return http.StatusForbidden

	case errors.Is(err, domain.ErrBookingNotFound):
		RespondNotFound(w, msgNotFound)
		return http.StatusNotFound

	case errors.Is(err, domain.ErrPersistenceUnavailable):
		RespondError(w, http.StatusServiceUnavailable, msgStorageUnavailable)
		return http.StatusServiceUnavailable

	default:
		RespondInternalError(w)
		return http.StatusInternalServerError
	}
}

// RespondFailure writes err like RespondDomainError and logs it under op;
// server-side failures are logged as errors, client mistakes as warnings.
func RespondFailure(w http.ResponseWriter, logger Logger, op string, err error) {
	status := RespondDomainError(w, err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s - failed: %v", op, err)
		return
	}
	logger.Warn("%s - rejected (%d): %v", op, status, err)
}

func rejectionMessage(e *domain.RejectionError) string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return e.Detail
}
