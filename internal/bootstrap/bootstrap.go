// Package bootstrap wires configuration, logging, the settings store and
// the services. The desktop app and the CLI share it.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	gormlogger "gorm.io/gorm/logger"

	"chatbox/internal/catalog"
	"chatbox/internal/config"
	"chatbox/internal/database"
	"chatbox/internal/llm"
	"chatbox/internal/logger"
	"chatbox/internal/repositories"
	"chatbox/internal/services"
	"chatbox/internal/store"
	"chatbox/internal/utils"
)

type Options struct {
	ConfigPath string
	LogOutput  io.Writer

	Clipboard services.Clipboard
	Theme     services.ThemePreviewer
}

type Runtime struct {
	Config   config.Config
	Logger   *slog.Logger
	Catalog  *catalog.Catalog
	Store    *store.Service
	Services *services.Services

	closeBackend func() error
}

func New(opts Options) (*Runtime, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: opts.LogOutput,
	})
	return NewWithConfig(cfg, log, opts)
}

// NewWithConfig builds the runtime from an already loaded configuration.
func NewWithConfig(cfg config.Config, log *slog.Logger, opts Options) (*Runtime, error) {
	interval, err := cfg.Store.FlushEvery()
	if err != nil {
		return nil, err
	}

	backend, closeBackend, err := openBackend(cfg, log)
	if err != nil {
		return nil, err
	}

	var legacy store.Backend
	if cfg.Store.LegacyDir != "" {
		legacy = store.NewFileBackend(cfg.Store.LegacyDir)
		if !utils.DirectoryExists(cfg.Store.LegacyDir) {
			log.Debug("legacy settings dir not found", slog.String("dir", cfg.Store.LegacyDir))
		}
	}

	cat := catalog.Default()
	st := store.NewService(store.Options{
		Backend:       backend,
		Legacy:        legacy,
		FlushInterval: interval,
		Logger:        log,
	})

	svcs := services.NewServices(services.Deps{
		Store:          st,
		Catalog:        cat,
		Logger:         log,
		KeyringService: cfg.Keyring.Service,
		KeyringSecrets: cfg.Keyring.Secrets,
		Clipboard:      opts.Clipboard,
		Theme:          opts.Theme,
	})

	log.Debug("runtime wired",
		slog.String("backend", cfg.Store.Backend),
		slog.String("data_dir", cfg.Store.DataDir),
		slog.Bool("keyring_secrets", cfg.Keyring.Secrets))

	return &Runtime{
		Config:       cfg,
		Logger:       log,
		Catalog:      cat,
		Store:        st,
		Services:     svcs,
		closeBackend: closeBackend,
	}, nil
}

func openBackend(cfg config.Config, log *slog.Logger) (store.Backend, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		db, err := database.Init(database.Config{
			Path:     cfg.Store.DatabasePath,
			LogLevel: gormlogger.Warn,
			Logger:   log,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		return repositories.NewDocumentRepository(db), func() error { return database.Close(db) }, nil
	case config.BackendFile, "":
		return store.NewFileBackend(cfg.Store.DataDir), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// Start loads the store and hands ctx to the services.
func (r *Runtime) Start(ctx context.Context) {
	r.Store.Start(ctx)
	r.Services.Startup(ctx)
}

// Stop flushes the store and releases the backend.
func (r *Runtime) Stop(ctx context.Context) {
	r.Store.Stop(ctx)
	if r.closeBackend != nil {
		if err := r.closeBackend(); err != nil {
			r.Logger.Error("failed to close store backend", slog.Any("error", err))
		}
		r.closeBackend = nil
	}
}

// ChatClient builds a chat client from the saved settings.
func (r *Runtime) ChatClient(ctx context.Context) (*llm.ChatClient, error) {
	settings, err := r.Services.Settings.Get()
	if err != nil {
		return nil, err
	}
	return llm.NewChatClient(ctx, settings, r.Catalog.MustProvider(settings.AIProvider), r.Logger)
}
