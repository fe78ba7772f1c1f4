// Package reconciler computes settings transitions for the settings dialog.
//
// Every user edit is an Event; Apply turns the current State plus one
// Event into the next State, cascading provider and model changes into
// the catalog-declared defaults and input ranges. Apply has no side
// effects.
package reconciler

import (
	"slices"

	"chatbox/internal/catalog"
	"chatbox/internal/models"
)

// Range is an inclusive numeric input range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type FloatRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TemperatureRange is the fixed input range of the temperature control.
var TemperatureRange = FloatRange{Min: 0, Max: 2}

// Bounds is dialog display state: it is not persisted with the record.
type Bounds struct {
	Temperature FloatRange `json:"temperature"`
	Context     Range      `json:"context"`
	Generate    Range      `json:"generate"`
}

type State struct {
	Settings models.Settings `json:"settings"`
	Bounds   Bounds          `json:"bounds"`
}

func boundsOf(spec catalog.ModelSpec) Bounds {
	return Bounds{
		Temperature: TemperatureRange,
		Context:     Range{Min: spec.MaxContentLength.Min, Max: spec.MaxContentLength.Max},
		Generate:    Range{Min: spec.MaxGenerateLength.Min, Max: spec.MaxGenerateLength.Max},
	}
}

// applyModelDefaults is the derivation shared by provider changes, model
// changes and the reset action.
func applyModelDefaults(s models.Settings, spec catalog.ModelSpec) (models.Settings, Bounds) {
	s.Temperature = spec.Temperature.Default
	s.MaxContextSize = spec.MaxContentLength.Default
	s.MaxTokens = spec.MaxGenerateLength.Default
	return s, boundsOf(spec)
}

// BoundsFor returns the input ranges for a provider/model pair. It panics
// when the pair is not in the catalog.
func BoundsFor(cat *catalog.Catalog, provider, model string) Bounds {
	return boundsOf(cat.MustProvider(provider).MustModel(model))
}

// DefaultSettings returns the application defaults: the first declared
// provider, its first model and that model's parameter defaults.
func DefaultSettings(cat *catalog.Catalog) models.Settings {
	return ProviderDefaults(cat, cat.DefaultProvider().ID, models.Settings{
		Language: models.DefaultLanguage,
		Theme:    models.DefaultTheme,
		FontSize: models.DefaultFontSize,
	})
}

// ProviderDefaults overlays provider-derived defaults onto base, keeping
// the fields that are not coupled to the catalog.
func ProviderDefaults(cat *catalog.Catalog, providerID string, base models.Settings) models.Settings {
	p := cat.MustProvider(providerID)
	spec := p.DefaultModel()
	s, _ := applyModelDefaults(base, spec)
	s.AIProvider = p.ID
	s.Model = spec.ID
	s.APIURL = p.URL
	s.ShowModelName = false
	return s
}

// Open builds the dialog state for a saved record without resetting any
// of its values; only the input ranges are derived from the catalog.
func Open(cat *catalog.Catalog, saved models.Settings) State {
	return State{
		Settings: saved,
		Bounds:   BoundsFor(cat, saved.AIProvider, saved.Model),
	}
}

// Normalize repairs a loaded record so it can be opened: a provider that
// left the catalog falls back to the default provider, a model that left
// its provider falls back to the provider's first model, unparsable
// length limits take the model's defaults, and empty UI preferences take
// the application defaults. It reports whether anything changed.
func Normalize(cat *catalog.Catalog, s models.Settings) (models.Settings, bool) {
	orig := s

	p, ok := cat.Provider(s.AIProvider)
	if !ok {
		s = ProviderDefaults(cat, cat.DefaultProvider().ID, s)
	} else if _, ok := p.Model(s.Model); !ok {
		spec := p.DefaultModel()
		s, _ = applyModelDefaults(s, spec)
		s.Model = spec.ID
	}

	spec := cat.MustProvider(s.AIProvider).MustModel(s.Model)
	if !s.MaxContextSize.Valid() {
		s.MaxContextSize = spec.MaxContentLength.Default
	}
	if !s.MaxTokens.Valid() {
		s.MaxTokens = spec.MaxGenerateLength.Default
	}

	if !slices.Contains(models.Languages, s.Language) {
		s.Language = models.DefaultLanguage
	}
	switch s.Theme {
	case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
	default:
		s.Theme = models.DefaultTheme
	}
	if s.FontSize <= 0 {
		s.FontSize = models.DefaultFontSize
	}
	return s, s != orig
}
