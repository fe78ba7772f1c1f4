package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/zalando/go-keyring"

	"chatbox/internal/catalog"
	"chatbox/internal/events"
	"chatbox/internal/models"
	"chatbox/internal/reconciler"
)

type SettingsService interface {
	Startup(ctx context.Context)
	Get() (models.Settings, error)
	Save(settings models.Settings) (models.Settings, error)
	Defaults() models.Settings
}

type SettingsOptions struct {
	// Secrets moves API keys out of the settings document into Keys.
	Secrets bool
	Keys    APIKeyStore
}

type settingsService struct {
	store    KeyValueStore
	catalog  *catalog.Catalog
	opts     SettingsOptions
	validate *validator.Validate
	log      *slog.Logger
	context  context.Context
}

func NewSettingsService(store KeyValueStore, cat *catalog.Catalog, opts SettingsOptions, log *slog.Logger) SettingsService {
	return &settingsService{
		store:    store,
		catalog:  cat,
		opts:     opts,
		validate: validator.New(),
		log:      log.With(slog.String("service", "settings")),
		context:  context.Background(),
	}
}

func (s *settingsService) Startup(ctx context.Context) {
	s.context = ctx
}

func (s *settingsService) Defaults() models.Settings {
	return reconciler.DefaultSettings(s.catalog)
}

// Get returns the saved record with missing fields filled from the
// defaults. A record that no longer matches the catalog is repaired.
func (s *settingsService) Get() (models.Settings, error) {
	settings := s.Defaults()
	found, err := s.store.ReadInto(s.context, models.SettingsKey, &settings)
	if err != nil {
		s.log.Warn("stored settings unreadable, using defaults", slog.Any("error", err))
		settings = s.Defaults()
	} else if !found {
		return settings, nil
	}

	settings, changed := reconciler.Normalize(s.catalog, settings)
	if changed {
		s.log.Info("stored settings repaired",
			slog.String("provider", settings.AIProvider),
			slog.String("model", settings.Model))
	}

	if s.opts.Secrets && s.opts.Keys != nil && settings.OpenAIKey == "" {
		key, err := s.opts.Keys.GetApiKey(settings.AIProvider)
		switch {
		case err == nil:
			settings.OpenAIKey = key
		case errors.Is(err, keyring.ErrNotFound):
		default:
			s.log.Warn("keyring lookup failed", slog.String("provider", settings.AIProvider), slog.Any("error", err))
		}
	}
	return settings, nil
}

// Save validates settings and commits them to the store. The returned
// record is what the caller should keep using, including the API key.
func (s *settingsService) Save(settings models.Settings) (models.Settings, error) {
	if err := s.Validate(settings); err != nil {
		return settings, err
	}

	stored := settings
	if s.opts.Secrets && s.opts.Keys != nil {
		if settings.OpenAIKey != "" {
			if err := s.opts.Keys.StoreApiKey(settings.AIProvider, []byte(settings.OpenAIKey)); err != nil {
				return settings, fmt.Errorf("save api key: %w", err)
			}
		} else if err := s.opts.Keys.DeleteApiKey(settings.AIProvider); err != nil {
			return settings, fmt.Errorf("clear api key: %w", err)
		}
		stored.OpenAIKey = ""
	}

	if err := s.store.Write(s.context, models.SettingsKey, stored); err != nil {
		s.log.Error("settings write failed", slog.Any("error", err))
		events.Emit(s.context, events.SettingsSaveError, events.NewError("settings could not be saved").
			With("error", err.Error()))
		return settings, fmt.Errorf("save settings: %w", err)
	}

	s.log.Info("settings saved",
		slog.String("provider", settings.AIProvider),
		slog.String("model", settings.Model))
	events.Emit(s.context, events.SettingsSaved, events.NewSuccess("settings saved").
		With("provider", settings.AIProvider).
		With("model", settings.Model))
	return settings, nil
}

func (s *settingsService) Validate(settings models.Settings) error {
	if err := s.validate.Struct(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	if !settings.MaxContextSize.Valid() || !settings.MaxTokens.Valid() {
		return fmt.Errorf("invalid settings: %w", models.ErrInvalidLengthLimit)
	}
	p, ok := s.catalog.Provider(settings.AIProvider)
	if !ok {
		return fmt.Errorf("invalid settings: unknown provider %q", settings.AIProvider)
	}
	if _, ok := p.Model(settings.Model); !ok {
		return fmt.Errorf("invalid settings: provider %s has no model %q", p.ID, settings.Model)
	}
	return nil
}
