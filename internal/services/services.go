package services

import (
	"context"
	"log/slog"

	"chatbox/internal/catalog"
)

// Deps are the collaborators shared by the settings services.
type Deps struct {
	Store   KeyValueStore
	Catalog *catalog.Catalog
	Logger  *slog.Logger

	KeyringService string
	KeyringSecrets bool

	// Clipboard and Theme are nil outside the desktop shell.
	Clipboard Clipboard
	Theme     ThemePreviewer
}

// Services aggregates the settings services bound to the frontend.
type Services struct {
	Settings SettingsService
	Dialog   SettingsDialogService
	Catalog  CatalogService
	Keyring  *KeyringService
}

func NewServices(deps Deps) *Services {
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	keys := NewKeyringService(deps.KeyringService, deps.Store, log)
	settings := NewSettingsService(deps.Store, deps.Catalog, SettingsOptions{
		Secrets: deps.KeyringSecrets,
		Keys:    keys,
	}, log)

	return &Services{
		Settings: settings,
		Dialog:   NewSettingsDialogService(settings, deps.Catalog, deps.Clipboard, deps.Theme, log),
		Catalog:  NewCatalogService(deps.Catalog, keys),
		Keyring:  keys,
	}
}

// Startup hands the application context to every service.
func (s *Services) Startup(ctx context.Context) {
	s.Settings.Startup(ctx)
	s.Dialog.Startup(ctx)
	s.Catalog.Startup(ctx)
	s.Keyring.Startup(ctx)
}
