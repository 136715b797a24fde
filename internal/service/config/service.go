package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EventScheduling/internal/domain"
	"github.com/m04kA/SMC-EventScheduling/internal/infra/storage"
	"github.com/m04kA/SMC-EventScheduling/internal/service/config/models"
)

// Service reads and edits vendor availability configurations
type Service struct {
	configRepo ConfigRepository
	txManager  TransactionManager
	dispatcher Dispatcher
	logger     Logger
}

// NewService creates the configuration service; dispatcher may be nil
func NewService(
	configRepo ConfigRepository,
	txManager TransactionManager,
	dispatcher Dispatcher,
	logger Logger,
) *Service {
	return &Service{
		configRepo: configRepo,
		txManager:  txManager,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Get returns the vendor's configuration, or the defaults flagged IsDefault when none was saved.
// Public: customers read it to plan bookings.
func (s *Service) Get(ctx context.Context, vendorID string) (*models.ConfigResponse, error) {
	s.logger.Info("Get: fetching config of vendor=%s", vendorID)

	if strings.TrimSpace(vendorID) == "" {
		return nil, fmt.Errorf("%w: vendorId is required", ErrInvalidInput)
	}

	cfg, isDefault, err := s.load(ctx, vendorID)
	if err != nil {
		s.logger.Error("Get: repository error for vendor=%s: %v", vendorID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainConfig(cfg, isDefault), nil
}

// EventTypePresets are suggestions for vendors setting up their calendar
func (s *Service) EventTypePresets() []models.EventType {
	return models.FromDomainEventTypes(domain.DefaultEventTypes())
}

// Update merges req into the vendor's configuration. Nothing is saved if any field is invalid.
func (s *Service) Update(ctx context.Context, actor domain.Actor, vendorID string, req *models.UpdateConfigRequest) (*models.ConfigResponse, error) {
	return s.update(ctx, actor, vendorID, "Update", func(*domain.AvailabilityConfig) (domain.ConfigPatch, error) {
		return req.ToDomainPatch()
	})
}

// AddHoliday blocks date; adding an existing date replaces its reason
func (s *Service) AddHoliday(ctx context.Context, actor domain.Actor, vendorID string, holiday models.Holiday) (*models.ConfigResponse, error) {
	return s.update(ctx, actor, vendorID, "AddHoliday", func(current *domain.AvailabilityConfig) (domain.ConfigPatch, error) {
		parsed, fields := models.ToDomainHolidays([]models.Holiday{holiday})
		if len(fields) > 0 {
			return domain.ConfigPatch{}, &domain.ConfigError{Fields: fields}
		}

		holidays := make([]domain.Holiday, 0, len(current.Holidays)+1)
		for _, h := range current.Holidays {
			if !domain.SameDate(h.Date, parsed[0].Date) {
				holidays = append(holidays, h)
			}
		}
		holidays = append(holidays, parsed[0])
		return domain.ConfigPatch{Holidays: &holidays}, nil
	})
}

// RemoveHoliday unblocks date; removing an unknown date changes nothing
func (s *Service) RemoveHoliday(ctx context.Context, actor domain.Actor, vendorID string, date time.Time) (*models.ConfigResponse, error) {
	return s.update(ctx, actor, vendorID, "RemoveHoliday", func(current *domain.AvailabilityConfig) (domain.ConfigPatch, error) {
		holidays := make([]domain.Holiday, 0, len(current.Holidays))
		for _, h := range current.Holidays {
			if !domain.SameDate(h.Date, date) {
				holidays = append(holidays, h)
			}
		}
		if len(holidays) == len(current.Holidays) {
			return domain.ConfigPatch{}, nil
		}
		return domain.ConfigPatch{Holidays: &holidays}, nil
	})
}

// SetEventTypes replaces the vendor's declared event types
func (s *Service) SetEventTypes(ctx context.Context, actor domain.Actor, vendorID string, eventTypes []models.EventType) (*models.ConfigResponse, error) {
	return s.update(ctx, actor, vendorID, "SetEventTypes", func(*domain.AvailabilityConfig) (domain.ConfigPatch, error) {
		converted := models.ToDomainEventTypes(eventTypes)
		return domain.ConfigPatch{EventTypes: &converted}, nil
	})
}

// update runs read, patch, validate and save in one transaction; only the vendor may edit its calendar
func (s *Service) update(
	ctx context.Context,
	actor domain.Actor,
	vendorID, op string,
	build func(current *domain.AvailabilityConfig) (domain.ConfigPatch, error),
) (*models.ConfigResponse, error) {
	s.logger.Info("%s: vendor=%s by %s=%s", op, vendorID, actor.Role, actor.ID)

	if strings.TrimSpace(vendorID) == "" {
		return nil, fmt.Errorf("%w: vendorId is required", ErrInvalidInput)
	}
	if !actor.IsVendor(vendorID) {
		s.logger.Warn("%s: actor=%s role=%s may not edit vendor=%s", op, actor.ID, actor.Role, vendorID)
		return nil, fmt.Errorf("%w: only the vendor can edit its availability", domain.ErrAccessDenied)
	}

	var (
		result    *domain.AvailabilityConfig
		isDefault bool
		changed   []string
	)
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, fallback, err := s.load(txCtx, vendorID)
		if err != nil {
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		patch, err := build(current)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			result, isDefault, changed = current, fallback, nil
			return nil
		}

		merged := patch.ApplyTo(current)
		if err := merged.Validate(); err != nil {
			return err
		}

		saved, err := s.configRepo.Save(txCtx, vendorID, patch, merged)
		if err != nil {
			return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}
		result, isDefault, changed = saved, false, patch.ChangedFields()
		return nil
	})
	if err != nil {
		var cfgErr *domain.ConfigError
		if errors.As(err, &cfgErr) {
			s.logger.Warn("%s: invalid config for vendor=%s: %v", op, vendorID, err)
			return nil, cfgErr
		}
		if errors.Is(err, ErrInternal) {
			s.logger.Error("%s: vendor=%s: %v", op, vendorID, err)
			return nil, err
		}
		s.logger.Error("%s: vendor=%s: %v", op, vendorID, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
	}

	if len(changed) > 0 {
		s.logger.Info("%s: vendor=%s updated %v", op, vendorID, changed)
		if s.dispatcher != nil {
			s.dispatcher.ConfigChanged(ctx, vendorID, changed)
		}
	}
	return models.FromDomainConfig(result, isDefault), nil
}

// load returns the saved configuration or the defaults
func (s *Service) load(ctx context.Context, vendorID string) (*domain.AvailabilityConfig, bool, error) {
	cfg, err := s.configRepo.Get(ctx, vendorID)
	if errors.Is(err, storage.ErrConfigNotFound) {
		return domain.DefaultAvailabilityConfig(vendorID), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return cfg, false, nil
}
