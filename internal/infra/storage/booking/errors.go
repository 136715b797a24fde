package booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/pkg/dbmetrics"
)

var (
	// ErrBuildQuery is returned when a SQL query cannot be built
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery is returned when a SQL query fails
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow is returned when a result row cannot be scanned
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)

// Name of the partial unique index guarding one active booking per slot
const activeSlotConstraint = "bookings_active_slot_uq"

// execError keeps retryable and constraint failures recognizable for callers
func execError(op string, err error) error {
	switch {
	case dbmetrics.IsUniqueViolation(err, activeSlotConstraint):
		return fmt.Errorf("%w: %s: %v", storage.ErrSlotTaken, op, err)
	case dbmetrics.IsSerializationFailure(err):
		return fmt.Errorf("%w: %s: %v", storage.ErrWriteConflict, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
	}
}
