package services

import (
	"context"
	"fmt"
	"strings"

	"chatbox/internal/catalog"
	"chatbox/internal/models"
	"chatbox/internal/reconciler"
)

type CatalogService interface {
	Startup(ctx context.Context)
	ListProviders() []string
	ListModelGroups() ([]models.LLMModelGroup, error)
	GetModel(provider, model string) (*models.LLMModel, error)
	Bounds(provider, model string) (reconciler.Bounds, error)
}

// KeyPresence reports whether a provider has a stored API key.
type KeyPresence interface {
	HasApiKey(provider string) bool
}

type catalogService struct {
	catalog *catalog.Catalog
	keys    KeyPresence
	ctx     context.Context
}

// NewCatalogService exposes cat to the UI. keys may be nil.
func NewCatalogService(cat *catalog.Catalog, keys KeyPresence) CatalogService {
	return &catalogService{catalog: cat, keys: keys}
}

func (s *catalogService) Startup(ctx context.Context) {
	s.ctx = ctx
}

func (s *catalogService) ListProviders() []string {
	return s.catalog.ProviderIDs()
}

func (s *catalogService) ListModelGroups() ([]models.LLMModelGroup, error) {
	providers := s.catalog.Providers()
	groups := make([]models.LLMModelGroup, 0, len(providers))
	for _, p := range providers {
		group := models.LLMModelGroup{
			ProviderID: p.ID,
			URL:        p.URL,
			NeedAPI:    p.NeedAPI,
			HasKey:     s.keys != nil && s.keys.HasApiKey(p.ID),
		}
		for _, m := range p.Models() {
			group.Models = append(group.Models, toLLMModel(p.ID, m))
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func (s *catalogService) GetModel(provider, model string) (*models.LLMModel, error) {
	spec, err := s.lookup(provider, model)
	if err != nil {
		return nil, err
	}
	m := toLLMModel(strings.TrimSpace(provider), spec)
	return &m, nil
}

func (s *catalogService) Bounds(provider, model string) (reconciler.Bounds, error) {
	if _, err := s.lookup(provider, model); err != nil {
		return reconciler.Bounds{}, err
	}
	return reconciler.BoundsFor(s.catalog, strings.TrimSpace(provider), strings.TrimSpace(model)), nil
}

func (s *catalogService) lookup(provider, model string) (catalog.ModelSpec, error) {
	provider = strings.TrimSpace(provider)
	model = strings.TrimSpace(model)
	if provider == "" {
		return catalog.ModelSpec{}, fmt.Errorf("provider is required")
	}
	if model == "" {
		return catalog.ModelSpec{}, fmt.Errorf("model is required")
	}
	p, ok := s.catalog.Provider(provider)
	if !ok {
		return catalog.ModelSpec{}, fmt.Errorf("provider %s not found", provider)
	}
	spec, ok := p.Model(model)
	if !ok {
		return catalog.ModelSpec{}, fmt.Errorf("model %s not found for provider %s", model, provider)
	}
	return spec, nil
}

func toLLMModel(providerID string, m catalog.ModelSpec) models.LLMModel {
	return models.LLMModel{
		ID:                 m.ID,
		ProviderID:         providerID,
		TemperatureMin:     m.Temperature.Min,
		TemperatureMax:     m.Temperature.Max,
		TemperatureDefault: m.Temperature.Default,
		ContextMin:         m.MaxContentLength.Min,
		ContextMax:         m.MaxContentLength.Max,
		ContextDefault:     m.MaxContentLength.Default.String(),
		GenerateMin:        m.MaxGenerateLength.Min,
		GenerateMax:        m.MaxGenerateLength.Max,
		GenerateDefault:    m.MaxGenerateLength.Default.String(),
	}
}
