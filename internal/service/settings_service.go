package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SettingsService manages the general and email configuration documents and
// the per-priority SLA targets.
type SettingsService struct {
	settings repository.SettingsRepository
}

// NewSettingsService constructs the service.
func NewSettingsService(settings repository.SettingsRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// GetGeneral returns the general settings, falling back to defaults when
// nothing has been saved yet.
func (s *SettingsService) GetGeneral(ctx context.Context) (*domain.GeneralSettings, error) {
	result := domain.DefaultGeneralSettings()
	if err := s.loadDocument(ctx, repository.SettingsKeyGeneral, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateGeneral merges the given fields into the stored document.
func (s *SettingsService) UpdateGeneral(ctx context.Context, settings domain.GeneralSettings) (*domain.GeneralSettings, error) {
	if err := s.mergeDocument(ctx, repository.SettingsKeyGeneral, settings); err != nil {
		return nil, err
	}
	return s.GetGeneral(ctx)
}

// GetEmail returns the notification settings.
func (s *SettingsService) GetEmail(ctx context.Context) (*domain.EmailSettings, error) {
	result := domain.DefaultEmailSettings()
	if err := s.loadDocument(ctx, repository.SettingsKeyEmail, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateEmail merges the given fields into the stored document.
func (s *SettingsService) UpdateEmail(ctx context.Context, settings domain.EmailSettings) (*domain.EmailSettings, error) {
	if err := s.mergeDocument(ctx, repository.SettingsKeyEmail, settings); err != nil {
		return nil, err
	}
	return s.GetEmail(ctx)
}

// ListSLAConfig returns the per-priority SLA targets.
func (s *SettingsService) ListSLAConfig(ctx context.Context) ([]domain.SLAConfig, error) {
	configs, err := s.settings.ListSLAConfig(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return configs, nil
}

// UpdateSLAConfig changes the hour targets for one priority.
func (s *SettingsService) UpdateSLAConfig(ctx context.Context, id string, responseHours, resolutionHours int) (*domain.SLAConfig, error) {
	if responseHours <= 0 || resolutionHours <= 0 {
		return nil, apperrors.NewValidationError("hours must be positive", nil)
	}
	cfg, err := s.settings.GetSLAConfig(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sla config", map[string]any{"sla_id": id})
		}
		return nil, apperrors.MapError(err)
	}

	cfg.ResponseHours = responseHours
	cfg.ResolutionHours = resolutionHours
	if err := s.settings.UpdateSLAConfig(ctx, cfg); err != nil {
		return nil, apperrors.MapError(err)
	}
	return cfg, nil
}

func (s *SettingsService) loadDocument(ctx context.Context, key string, target any) error {
	raw, err := s.settings.GetDocument(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *SettingsService) mergeDocument(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.MapError(err)
	}
	if err := s.settings.MergeDocument(ctx, key, raw); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
