// Package catalog holds the static provider/model catalog that drives
// the settings dialog: endpoints, key requirements and per-model
// parameter ranges with their defaults.
//
// The catalog is trusted build-time data. Lookups through the Must*
// helpers panic on unknown identifiers instead of returning errors.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"chatbox/internal/assets"
	"chatbox/internal/models"
)

// ClientKind selects the wire protocol used to talk to a provider.
type ClientKind string

const (
	ClientOpenAI ClientKind = "openai"
	ClientClaude ClientKind = "claude"
	ClientGemini ClientKind = "gemini"
)

// TemperatureSpec is the declared range and default for sampling temperature.
type TemperatureSpec struct {
	Min     float64
	Max     float64
	Default float64
}

// LengthSpec is the declared range and default for a token-length field.
type LengthSpec struct {
	Min     int
	Max     int
	Default models.LengthLimit
}

type ModelSpec struct {
	ID                string
	Temperature       TemperatureSpec
	MaxContentLength  LengthSpec
	MaxGenerateLength LengthSpec
}

type Provider struct {
	ID      string
	URL     string
	NeedAPI bool
	Client  ClientKind

	models []ModelSpec
	index  map[string]int
}

// Models returns the provider's models in declaration order.
func (p *Provider) Models() []ModelSpec {
	out := make([]ModelSpec, len(p.models))
	copy(out, p.models)
	return out
}

func (p *Provider) ModelIDs() []string {
	ids := make([]string, 0, len(p.models))
	for _, m := range p.models {
		ids = append(ids, m.ID)
	}
	return ids
}

// DefaultModel is the first declared model.
func (p *Provider) DefaultModel() ModelSpec {
	return p.models[0]
}

func (p *Provider) Model(id string) (ModelSpec, bool) {
	i, ok := p.index[id]
	if !ok {
		return ModelSpec{}, false
	}
	return p.models[i], true
}

func (p *Provider) MustModel(id string) ModelSpec {
	m, ok := p.Model(id)
	if !ok {
		panic(fmt.Sprintf("catalog: model %q not declared for provider %q", id, p.ID))
	}
	return m
}

type Catalog struct {
	providers []*Provider
	index     map[string]*Provider
}

// Providers returns the providers in declaration order.
func (c *Catalog) Providers() []*Provider {
	out := make([]*Provider, len(c.providers))
	copy(out, c.providers)
	return out
}

func (c *Catalog) ProviderIDs() []string {
	ids := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		ids = append(ids, p.ID)
	}
	return ids
}

// DefaultProvider is the first declared provider.
func (c *Catalog) DefaultProvider() *Provider {
	return c.providers[0]
}

func (c *Catalog) Provider(id string) (*Provider, bool) {
	p, ok := c.index[strings.TrimSpace(id)]
	return p, ok
}

func (c *Catalog) MustProvider(id string) *Provider {
	p, ok := c.Provider(id)
	if !ok {
		panic(fmt.Sprintf("catalog: provider %q not declared", id))
	}
	return p
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog bundled with the application.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(assets.ProvidersData)
		if err != nil {
			panic(fmt.Sprintf("catalog: bundled providers: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
