package memory

import (
	"context"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
)

// ConfigRepository stores availability configurations in memory
type ConfigRepository struct {
	store *Store
}

// Get returns a copy of the vendor's configuration
func (r *ConfigRepository) Get(_ context.Context, vendorID string) (*domain.AvailabilityConfig, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	cfg, ok := r.store.configs[vendorID]
	if !ok {
		return nil, storage.ErrConfigNotFound
	}
	return cfg.Clone(), nil
}

// Save inserts merged when absent, otherwise applies only the patched fields
func (r *ConfigRepository) Save(_ context.Context, vendorID string, patch domain.ConfigPatch, merged *domain.AvailabilityConfig) (*domain.AvailabilityConfig, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := time.Now().UTC()
	current, ok := r.store.configs[vendorID]
	if !ok {
		saved := merged.Clone()
		saved.VendorID = vendorID
		saved.CreatedAt = now
		saved.UpdatedAt = now
		r.store.configs[vendorID] = saved
		return saved.Clone(), nil
	}

	saved := patch.ApplyTo(current)
	saved.UpdatedAt = now
	r.store.configs[vendorID] = saved
	return saved.Clone(), nil
}
