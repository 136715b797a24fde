package config

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
)

// ConfigRepository persists vendor availability configurations
type ConfigRepository interface {
	Get(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, error)
	Save(ctx context.Context, vendorID string, patch domain.ConfigPatch, merged *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error)
}

// TransactionManager runs fn in a transaction
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Dispatcher announces configuration changes
type Dispatcher interface {
	ConfigChanged(ctx context.Context, vendorID string, fields []string)
}

// Logger is the printf-style logger of the service
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
