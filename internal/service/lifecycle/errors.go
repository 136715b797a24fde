package lifecycle

import (
	"fmt"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

var (
	// ErrInvalidInput is returned for malformed arguments
	ErrInvalidInput = fmt.Errorf("lifecycle: %w", domain.ErrInvalidRequest)

	// ErrInternal is returned when storage fails
	ErrInternal = fmt.Errorf("lifecycle: %w", domain.ErrPersistenceUnavailable)
)
