package get_vendor_config

import (
	"context"

	"github.com/m04kA/SMC-EventScheduling/internal/service/config/models"
)

// ConfigService reads vendor configuration
type ConfigService interface {
	Get(ctx context.Context, vendorID string) (*models.ConfigResponse, error)
	EventTypePresets() []models.EventType
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
