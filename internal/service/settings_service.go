package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/repository"
)

type settingsService struct {
	repo   repository.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repository.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		logger: logger,
	}
}

// Get loads the saved settings, falling back to defaults on first run.
func (s *settingsService) Get(ctx context.Context) (models.Settings, error) {
	settings, found, err := s.repo.Load(ctx)
	if err != nil {
		return models.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	if !found {
		return models.DefaultSettings(), nil
	}
	return settings, nil
}

// Update overwrites the settings wholesale, the way the admin panel saves.
// An empty template falls back to the default message.
func (s *settingsService) Update(ctx context.Context, settings models.Settings) error {
	if strings.TrimSpace(settings.WhatsappMessage) == "" {
		settings.WhatsappMessage = models.DefaultWhatsappMessage
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("Settings updated")
	return nil
}
