package update_vendor_config

import (
	"context"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/service/config/models"
)

// ConfigService edits a vendor's configuration on behalf of the vendor
type ConfigService interface {
	Update(ctx context.Context, actor domain.Actor, vendorID string, req *models.UpdateConfigRequest) (*models.ConfigResponse, error)
	AddHoliday(ctx context.Context, actor domain.Actor, vendorID string, holiday models.Holiday) (*models.ConfigResponse, error)
	RemoveHoliday(ctx context.Context, actor domain.Actor, vendorID string, date time.Time) (*models.ConfigResponse, error)
	SetEventTypes(ctx context.Context, actor domain.Actor, vendorID string, eventTypes []models.EventType) (*models.ConfigResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
