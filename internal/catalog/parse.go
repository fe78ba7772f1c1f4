package catalog

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"chatbox/internal/models"
)

// The catalog file is a JSON object keyed by provider id. JSON is valid
// YAML and yaml.Node keeps mapping keys in document order, which is what
// "first declared model" depends on.

type rawProvider struct {
	URL     string    `yaml:"url"`
	NeedAPI bool      `yaml:"needApi"`
	Client  string    `yaml:"client"`
	Models  yaml.Node `yaml:"models"`
}

type rawModel struct {
	Temperature       rawTemperature `yaml:"temperature"`
	MaxContentLength  rawLength      `yaml:"maxContentLength"`
	MaxGenerateLength rawLength      `yaml:"maxGenerateLength"`
}

type rawTemperature struct {
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Default float64 `yaml:"default"`
}

type rawLength struct {
	Min     int    `yaml:"min"`
	Max     int    `yaml:"max"`
	Default string `yaml:"default"`
}

var ErrEmptyCatalog = errors.New("catalog declares no providers")

// Parse decodes a provider catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, ErrEmptyCatalog
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse catalog: top level must be an object")
	}

	c := &Catalog{index: make(map[string]*Provider)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		id := strings.TrimSpace(root.Content[i].Value)
		if id == "" {
			return nil, fmt.Errorf("parse catalog: empty provider id")
		}
		if _, dup := c.index[id]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate provider %q", id)
		}
		p, err := parseProvider(id, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		c.providers = append(c.providers, p)
		c.index[id] = p
	}
	if len(c.providers) == 0 {
		return nil, ErrEmptyCatalog
	}
	return c, nil
}

func parseProvider(id string, node *yaml.Node) (*Provider, error) {
	var raw rawProvider
	if err := node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("provider %s: %w", id, err)
	}

	client := ClientKind(strings.TrimSpace(raw.Client))
	switch client {
	case "":
		client = ClientOpenAI
	case ClientOpenAI, ClientClaude, ClientGemini:
	default:
		return nil, fmt.Errorf("provider %s: unknown client %q", id, raw.Client)
	}

	p := &Provider{
		ID:      id,
		URL:     strings.TrimSpace(raw.URL),
		NeedAPI: raw.NeedAPI,
		Client:  client,
		index:   make(map[string]int),
	}
	if raw.Models.Kind != yaml.MappingNode || len(raw.Models.Content) == 0 {
		return nil, fmt.Errorf("provider %s: no models declared", id)
	}
	for i := 0; i+1 < len(raw.Models.Content); i += 2 {
		modelID := strings.TrimSpace(raw.Models.Content[i].Value)
		spec, err := parseModel(modelID, raw.Models.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("provider %s: %w", id, err)
		}
		if _, dup := p.index[modelID]; dup {
			return nil, fmt.Errorf("provider %s: duplicate model %q", id, modelID)
		}
		p.index[modelID] = len(p.models)
		p.models = append(p.models, spec)
	}
	return p, nil
}

func parseModel(id string, node *yaml.Node) (ModelSpec, error) {
	if id == "" {
		return ModelSpec{}, fmt.Errorf("empty model id")
	}
	var raw rawModel
	if err := node.Decode(&raw); err != nil {
		return ModelSpec{}, fmt.Errorf("model %s: %w", id, err)
	}
	if raw.Temperature.Min > raw.Temperature.Max {
		return ModelSpec{}, fmt.Errorf("model %s: temperature min above max", id)
	}
	content, err := raw.MaxContentLength.spec()
	if err != nil {
		return ModelSpec{}, fmt.Errorf("model %s: maxContentLength: %w", id, err)
	}
	generate, err := raw.MaxGenerateLength.spec()
	if err != nil {
		return ModelSpec{}, fmt.Errorf("model %s: maxGenerateLength: %w", id, err)
	}
	return ModelSpec{
		ID: id,
		Temperature: TemperatureSpec{
			Min:     raw.Temperature.Min,
			Max:     raw.Temperature.Max,
			Default: raw.Temperature.Default,
		},
		MaxContentLength:  content,
		MaxGenerateLength: generate,
	}, nil
}

func (r rawLength) spec() (LengthSpec, error) {
	if r.Min > r.Max {
		return LengthSpec{}, fmt.Errorf("min %d above max %d", r.Min, r.Max)
	}
	def, err := models.ParseLengthLimit(r.Default)
	if err != nil {
		return LengthSpec{}, err
	}
	return LengthSpec{Min: r.Min, Max: r.Max, Default: def}, nil
}
