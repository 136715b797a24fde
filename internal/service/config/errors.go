package config

import (
	"fmt"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

var (
	// ErrInvalidInput is returned for malformed arguments
	ErrInvalidInput = fmt.Errorf("config: %w", domain.ErrInvalidRequest)

	// ErrInternal is returned when storage fails
	ErrInternal = fmt.Errorf("config: %w", domain.ErrPersistenceUnavailable)
)
