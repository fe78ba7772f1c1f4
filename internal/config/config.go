// Package config loads application configuration from an optional TOML
// file, a .env file and CHATBOX_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"chatbox/internal/database"
	"chatbox/internal/utils"
)

const (
	DefaultConfigPath    = "chatbox.toml"
	DefaultAppDir        = "xyz.chatboxapp.app"
	DefaultBackend       = BackendFile
	DefaultFlushInterval = "300s"

	BackendFile   = "file"
	BackendSQLite = "sqlite"

	envPrefix = "CHATBOX_"
)

type Config struct {
	Log     LogConfig     `toml:"log"`
	Store   StoreConfig   `toml:"store"`
	Keyring KeyringConfig `toml:"keyring"`
}

type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn warning error"`
	Format string `toml:"format" validate:"oneof=text json"`
}

type StoreConfig struct {
	Backend       string `toml:"backend" validate:"oneof=file sqlite"`
	DataDir       string `toml:"data_dir" validate:"required"`
	LegacyDir     string `toml:"legacy_dir"`
	DatabasePath  string `toml:"database_path" validate:"required_if=Backend sqlite"`
	FlushInterval string `toml:"flush_interval" validate:"required"`
}

// FlushEvery parses FlushInterval.
func (c StoreConfig) FlushEvery() (time.Duration, error) {
	d, err := time.ParseDuration(c.FlushInterval)
	if err != nil {
		return 0, fmt.Errorf("parse flush interval: %w", err)
	}
	if d < time.Second {
		return 0, fmt.Errorf("flush interval %s is below one second", d)
	}
	return d, nil
}

type KeyringConfig struct {
	// Secrets keeps API keys in the OS keyring instead of the store.
	Secrets bool   `toml:"secrets"`
	Service string `toml:"service" validate:"required"`
}

// Default returns the built-in configuration.
func Default() Config {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = "."
	}
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend:       DefaultBackend,
			DataDir:       filepath.Join(configDir, DefaultAppDir),
			LegacyDir:     configDir,
			DatabasePath:  database.GetDefaultDBPath(),
			FlushInterval: DefaultFlushInterval,
		},
		Keyring: KeyringConfig{
			Service: "chatbox",
		},
	}
}

// Load reads path over the defaults, then applies .env and environment
// overrides. A missing file at path is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("decode %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	if err := utils.LoadEnv(); err != nil {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := cfg.Store.FlushEvery(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"LOG_LEVEL":       &cfg.Log.Level,
		"LOG_FORMAT":      &cfg.Log.Format,
		"STORE_BACKEND":   &cfg.Store.Backend,
		"DATA_DIR":        &cfg.Store.DataDir,
		"LEGACY_DIR":      &cfg.Store.LegacyDir,
		"DB_PATH":         &cfg.Store.DatabasePath,
		"FLUSH_INTERVAL":  &cfg.Store.FlushInterval,
		"KEYRING_SERVICE": &cfg.Keyring.Service,
	}
	for name, dst := range strs {
		if v, ok := lookup(envPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup(envPrefix + "KEYRING_SECRETS"); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %sKEYRING_SECRETS: %w", envPrefix, err)
		}
		cfg.Keyring.Secrets = b
	}
	return nil
}
