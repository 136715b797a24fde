package get_availability

import (
	"fmt"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

var (
	// ErrInvalidInput is returned for a missing vendor or an impossible date
	ErrInvalidInput = fmt.Errorf("get_availability: %w", domain.ErrInvalidRequest)

	// ErrInternal is returned when storage fails
	ErrInternal = fmt.Errorf("get_availability: %w", domain.ErrPersistenceUnavailable)
)
