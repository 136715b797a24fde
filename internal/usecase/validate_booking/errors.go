package validate_booking

import (
	"fmt"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

var (
	// ErrInvalidInput is returned when the request is malformed
	ErrInvalidInput = fmt.Errorf("validate_booking: %w", domain.ErrInvalidRequest)

	// ErrInternal is returned when storage fails
	ErrInternal = fmt.Errorf("validate_booking: %w", domain.ErrPersistenceUnavailable)
)
