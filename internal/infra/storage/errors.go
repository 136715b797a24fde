// Package storage defines the errors shared by every persistence backend.
package storage

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
)

var (
	// ErrBookingNotFound is returned when no booking matches the id
	ErrBookingNotFound = errors.New("storage: booking not found")

	// ErrConfigNotFound is returned when the vendor never saved a configuration
	ErrConfigNotFound = errors.New("storage: availability config not found")

	// ErrSlotTaken is returned when another active booking already holds the slot
	ErrSlotTaken = errors.New("storage: slot already booked")

	// ErrStatusMismatch is returned when a conditional status update finds another status
	ErrStatusMismatch = errors.New("storage: booking status does not match")

	// ErrAlreadyRated is returned when a booking already carries a rating
	ErrAlreadyRated = errors.New("storage: booking already rated")

	// ErrWriteConflict is returned when a concurrent transaction won; the whole operation may be retried
	ErrWriteConflict = fmt.Errorf("storage: write conflict: %w", dbmetrics.ErrSerializationFailure)

	// ErrUnavailable is returned when the backend cannot be reached
	ErrUnavailable = errors.New("storage: unavailable")
)
