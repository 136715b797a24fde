package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidConfig is wrapped by ConfigError
	ErrInvalidConfig = errors.New("invalid availability configuration")

	// ErrValidationRejected is wrapped by RejectionError
	ErrValidationRejected = errors.New("booking request rejected")

	// ErrInvalidTransition is wrapped by TransitionError
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrBookingConflict is returned when an atomic create loses the race for a slot
	ErrBookingConflict = errors.New("slot was booked concurrently")

	// ErrPersistenceUnavailable is returned when storage could not complete an operation
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrInvalidRequest is wrapped by the input errors of every use case
	ErrInvalidRequest = errors.New("invalid request")

	// ErrAccessDenied is returned when the actor may not perform the operation
	ErrAccessDenied = errors.New("access denied")

	// ErrBookingNotFound is returned when no booking has the given id
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAlreadyRated is returned on a second rating of the same booking
	ErrAlreadyRated = errors.New("booking already rated")
)

// FieldError describes one invalid configuration field
type FieldError struct {
	Field   string
	Message string
}

// ConfigError carries every field that failed validation
type ConfigError struct {
	Fields []FieldError
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// RejectionReason is the machine-readable cause of a rejected booking request
type RejectionReason string

const (
	RejectPastDate         RejectionReason = "past_date"
	RejectTooFar           RejectionReason = "too_far"
	RejectTooSoon          RejectionReason = "too_soon"
	RejectHoliday          RejectionReason = "holiday"
	RejectClosed           RejectionReason = "closed"
	RejectFullyBooked      RejectionReason = "fully_booked"
	RejectInvalidSlot      RejectionReason = "invalid_slot"
	RejectSlotTaken        RejectionReason = "slot_taken"
	RejectUnknownEventType RejectionReason = "unknown_event_type"
	RejectOutsideCapacity  RejectionReason = "outside_capacity"
)

// RejectionError is returned by the booking validator
type RejectionError struct {
	Reason RejectionReason
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", ErrValidationRejected, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidationRejected, e.Reason, e.Detail)
}

func (e *RejectionError) Unwrap() error {
	return ErrValidationRejected
}

// Reject builds a RejectionError
func Reject(reason RejectionReason, format string, args ...interface{}) *RejectionError {
	return &RejectionError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// TransitionError reports a lifecycle call made from the wrong status
type TransitionError struct {
	BookingID string
	Current   BookingStatus
	Attempted BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: booking %s is %s, cannot move to %s", ErrInvalidTransition, e.BookingID, e.Current, e.Attempted)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
