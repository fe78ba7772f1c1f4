package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	DefaultKeyringService = "chatbox"

	// KeyringProvidersKey is the store key listing providers with a saved key.
	KeyringProvidersKey = "keyringProviders"
)

func GetOS() string {
	return runtime.GOOS
}

// KeyValueStore is the part of the settings store the services use.
type KeyValueStore interface {
	ReadInto(ctx context.Context, key string, out any) (bool, error)
	Write(ctx context.Context, key string, value any) error
}

// APIKeyStore keeps provider API keys outside the settings document.
type APIKeyStore interface {
	StoreApiKey(provider string, apiKey []byte) error
	GetApiKey(provider string) (string, error)
	DeleteApiKey(provider string) error
}

type KeyringService struct {
	service string
	store   KeyValueStore
	log     *slog.Logger
	ctx     context.Context

	mu sync.Mutex
}

var _ APIKeyStore = (*KeyringService)(nil)

func NewKeyringService(service string, store KeyValueStore, log *slog.Logger) *KeyringService {
	if service == "" {
		service = DefaultKeyringService
	}
	return &KeyringService{
		service: service,
		store:   store,
		log:     log.With(slog.String("service", "keyring")),
		ctx:     context.Background(),
	}
}

func (s *KeyringService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *KeyringService) StoreApiKey(provider string, apiKey []byte) error {
	if len(apiKey) == 0 {
		return errors.New("API key is empty")
	}
	if provider == "" {
		return errors.New("provider is required")
	}

	if err := keyring.Set(s.service, provider, string(apiKey)); err != nil {
		return fmt.Errorf("store api key: %w", err)
	}

	return s.addProvider(provider)
}

func (s *KeyringService) GetApiKey(provider string) (string, error) {
	if provider == "" {
		return "", errors.New("provider is required")
	}
	return keyring.Get(s.service, provider)
}

// HasApiKey reports whether provider has a key in the keyring.
func (s *KeyringService) HasApiKey(provider string) bool {
	if provider == "" {
		return false
	}
	_, err := keyring.Get(s.service, provider)
	return err == nil
}

// DeleteApiKey removes the key for provider. Deleting a missing key is
// not an error.
func (s *KeyringService) DeleteApiKey(provider string) error {
	if provider == "" {
		return errors.New("provider is required")
	}

	if err := keyring.Delete(s.service, provider); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("delete api key: %w", err)
	}

	return s.removeProvider(provider)
}

func (s *KeyringService) ListApiKeys() ([]map[string]string, error) {
	providers, err := s.loadProviders()
	if err != nil {
		return nil, err
	}

	var results []map[string]string
	for _, provider := range providers {
		if _, err := keyring.Get(s.service, provider); err != nil {
			continue
		}

		results = append(results, map[string]string{
			"provider":    provider,
			"label":       provider + " API key",
			"description": "API key for " + provider + " used by Chatbox",
		})
	}
	return results, nil
}

func (s *KeyringService) loadProviders() ([]string, error) {
	var providers []string
	if _, err := s.store.ReadInto(s.ctx, KeyringProvidersKey, &providers); err != nil {
		return nil, fmt.Errorf("load keyring providers: %w", err)
	}
	return providers, nil
}

func (s *KeyringService) saveProviders(providers []string) error {
	if providers == nil {
		providers = []string{}
	}
	if err := s.store.Write(s.ctx, KeyringProvidersKey, providers); err != nil {
		return fmt.Errorf("save keyring providers: %w", err)
	}
	return nil
}

func (s *KeyringService) addProvider(provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	providers, err := s.loadProviders()
	if err != nil {
		return err
	}
	if slices.Contains(providers, provider) {
		return nil
	}

	providers = append(providers, provider)
	s.log.Debug("provider added to keyring index", slog.String("provider", provider))
	return s.saveProviders(providers)
}

func (s *KeyringService) removeProvider(provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	providers, err := s.loadProviders()
	if err != nil {
		return err
	}

	newProviders := slices.DeleteFunc(providers, func(p string) bool { return p == provider })
	return s.saveProviders(newProviders)
}
