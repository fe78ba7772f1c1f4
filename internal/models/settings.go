package models

import (
	"fmt"
	"strings"

	"chatbox/internal/jsonx"
)

// SettingsKey is the store key holding the serialized Settings record.
const SettingsKey = "settings"

type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
)

// UnmarshalJSON also accepts the numeric enum written by older clients
// (0 dark, 1 light, 2 system).
func (t *ThemeMode) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch raw {
	case "null":
		return nil
	case "0":
		*t = ThemeDark
		return nil
	case "1":
		*t = ThemeLight
		return nil
	case "2":
		*t = ThemeSystem
		return nil
	}
	var s string
	if err := jsonx.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("theme: %w", err)
	}
	*t = ThemeMode(s)
	return nil
}

var Languages = []string{"en", "zh-Hans", "zh-Hant", "jp"}

const (
	DefaultLanguage = "en"
	DefaultTheme    = ThemeSystem
	DefaultFontSize = 13
)

// Settings is the complete user configuration, persisted as one unit.
type Settings struct {
	AIProvider     string      `json:"aiProvider" validate:"required"`
	Model          string      `json:"model" validate:"required"`
	APIURL         string      `json:"apiUrl"`
	OpenAIKey      string      `json:"openaiKey"`
	Temperature    float64     `json:"temperature" validate:"gte=0,lte=2"`
	MaxContextSize LengthLimit `json:"maxContextSize"`
	MaxTokens      LengthLimit `json:"maxTokens"`

	Language       string    `json:"language" validate:"oneof=en zh-Hans zh-Hant jp"`
	Theme          ThemeMode `json:"theme" validate:"oneof=light dark system"`
	FontSize       int       `json:"fontSize" validate:"gt=0"`
	ShowWordCount  bool      `json:"showWordCount"`
	ShowTokenCount bool      `json:"showTokenCount"`
	ShowModelName  bool      `json:"showModelName"`
}
