package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/store"
)

// SettingsService exposes the key-value settings table.
type SettingsService interface {
	// GetAll returns every stored setting.
	GetAll(ctx context.Context) (map[string]string, error)

	// Set upserts one setting. The key is trimmed; an empty key is rejected
	// with an error wrapping domain.ErrInvalidInput.
	Set(ctx context.Context, key, value string) error

	// EnsureDefaults stores every entry of domain.DefaultSettings whose key is
	// missing. Existing values are kept.
	EnsureDefaults(ctx context.Context) error
}

type settingsServiceImpl struct {
	settings store.SettingsStore
	logger   *slog.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(settings store.SettingsStore, logger *slog.Logger) SettingsService {
	if settings == nil {
		panic("settings cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &settingsServiceImpl{
		settings: settings,
		logger:   logger.With(slog.String("component", "settings_service")),
	}
}

func (s *settingsServiceImpl) GetAll(ctx context.Context) (map[string]string, error) {
	all, err := s.settings.GetAll(ctx)
	if err != nil {
		return nil, NewServiceError("get_settings", "failed to read settings", err)
	}
	return all, nil
}

func (s *settingsServiceImpl) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.ErrEmptySettingKey
	}
	if err := s.settings.Set(ctx, key, value); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to store setting",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return NewServiceError("set_setting", "failed to store setting", err)
	}
	return nil
}

func (s *settingsServiceImpl) EnsureDefaults(ctx context.Context) error {
	for key, value := range domain.DefaultSettings {
		if err := s.settings.SetDefault(ctx, key, value); err != nil {
			return NewServiceError("ensure_default_settings", "failed to seed "+key, err)
		}
	}
	logger.FromContextOrDefault(ctx, s.logger).Debug("default settings ensured",
		slog.Int("count", len(domain.DefaultSettings)))
	return nil
}
