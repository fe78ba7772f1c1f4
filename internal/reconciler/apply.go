package reconciler

import (
	"fmt"
	"strings"

	"chatbox/internal/catalog"
)

// Apply returns the state that results from ev. The input state is not
// modified. Events naming providers or models missing from the catalog
// panic.
func Apply(cur State, cat *catalog.Catalog, ev Event) State {
	next := cur
	s := &next.Settings

	switch e := ev.(type) {
	case ProviderChanged:
		p := cat.MustProvider(e.Provider)
		spec := p.DefaultModel()
		next.Settings, next.Bounds = applyModelDefaults(next.Settings, spec)
		s.AIProvider = p.ID
		s.Model = spec.ID
		s.APIURL = p.URL

	case ModelChanged:
		spec := cat.MustProvider(s.AIProvider).MustModel(e.Model)
		next.Settings, next.Bounds = applyModelDefaults(next.Settings, spec)
		s.Model = spec.ID

	case ResetModelDefaults:
		p := cat.MustProvider(s.AIProvider)
		spec := p.DefaultModel()
		next.Settings, next.Bounds = applyModelDefaults(next.Settings, spec)
		s.Model = spec.ID
		s.ShowModelName = false

	case TemperatureEdited:
		if v, ok := PickThumb(e.Values, e.ActiveThumb); ok {
			s.Temperature = v
		}

	case ContextSizeEdited:
		if l, ok := ParseLengthInput(e.Raw); ok {
			s.MaxContextSize = l
		}

	case MaxTokensEdited:
		if l, ok := ParseLengthInput(e.Raw); ok {
			s.MaxTokens = l
		}

	case ContextSizeSlid:
		s.MaxContextSize = FromSliderPosition(e.Position)

	case MaxTokensSlid:
		s.MaxTokens = FromSliderPosition(e.Position)

	case APIKeyEdited:
		s.OpenAIKey = strings.TrimSpace(e.Value)

	case APIKeyCleared:
		s.OpenAIKey = ""

	case APIURLEdited:
		s.APIURL = strings.TrimSpace(e.Value)

	case APIURLReset:
		s.APIURL = cat.MustProvider(s.AIProvider).URL

	case LanguageChanged:
		s.Language = e.Language

	case ThemeChanged:
		s.Theme = e.Theme

	case FontSizeChanged:
		s.FontSize = e.Size

	case ToggleChanged:
		switch e.Toggle {
		case ToggleWordCount:
			s.ShowWordCount = e.On
		case ToggleTokenCount:
			s.ShowTokenCount = e.On
		case ToggleModelName:
			s.ShowModelName = e.On
		default:
			panic(fmt.Sprintf("reconciler: unknown toggle %q", e.Toggle))
		}

	default:
		panic(fmt.Sprintf("reconciler: unhandled event %T", ev))
	}

	return next
}
