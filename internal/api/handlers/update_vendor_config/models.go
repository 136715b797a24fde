package update_vendor_config

import "github.com/m04kA/SMC-EventScheduling/internal/service/config/models"

// SetEventTypesRequest replaces the declared event types
type SetEventTypesRequest struct {
	EventTypes []models.EventType `json:"eventTypes"`
}
