package reconciler

import "chatbox/internal/models"

// Event is a single user edit in the settings dialog.
type Event interface {
	event()
}

type ProviderChanged struct{ Provider string }

type ModelChanged struct{ Model string }

// TemperatureEdited carries every value a slider reports; only the value
// of the active handle is applied. Single-valued controls send one value
// with ActiveThumb 0.
type TemperatureEdited struct {
	Values      []float64
	ActiveThumb int
}

// ContextSizeEdited and MaxTokensEdited carry raw text input.
type ContextSizeEdited struct{ Raw string }

type MaxTokensEdited struct{ Raw string }

// ContextSizeSlid and MaxTokensSlid carry slider positions.
type ContextSizeSlid struct{ Position int }

type MaxTokensSlid struct{ Position int }

type ResetModelDefaults struct{}

type APIKeyEdited struct{ Value string }

type APIKeyCleared struct{}

type APIURLEdited struct{ Value string }

// APIURLReset restores the current provider's default endpoint.
type APIURLReset struct{}

type LanguageChanged struct{ Language string }

type ThemeChanged struct{ Theme models.ThemeMode }

type FontSizeChanged struct{ Size int }

// Toggle names a boolean display preference.
type Toggle string

const (
	ToggleWordCount  Toggle = "showWordCount"
	ToggleTokenCount Toggle = "showTokenCount"
	ToggleModelName  Toggle = "showModelName"
)

type ToggleChanged struct {
	Toggle Toggle
	On     bool
}

func (ProviderChanged) event()    {}
func (ModelChanged) event()       {}
func (TemperatureEdited) event()  {}
func (ContextSizeEdited) event()  {}
func (MaxTokensEdited) event()    {}
func (ContextSizeSlid) event()    {}
func (MaxTokensSlid) event()      {}
func (ResetModelDefaults) event() {}
func (APIKeyEdited) event()       {}
func (APIKeyCleared) event()      {}
func (APIURLEdited) event()       {}
func (APIURLReset) event()        {}
func (LanguageChanged) event()    {}
func (ThemeChanged) event()       {}
func (FontSizeChanged) event()    {}
func (ToggleChanged) event()      {}
