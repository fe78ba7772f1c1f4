package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventInfo    EventType = "info"
	EventWarn    EventType = "warn"
	EventSuccess EventType = "success"
	EventError   EventType = "error"
)

const (
	SettingsSaved     = "settings:saved"
	SettingsSaveError = "settings:save-error"
	SettingsCancelled = "settings:cancelled"
	ThemePreview      = "theme:preview"
)

// SettingsEvent is the payload sent to the frontend for settings changes.
type SettingsEvent struct {
	ID        string            `json:"id"`
	Type      EventType         `json:"type"`
	Message   string            `json:"message"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func CreateSettingsEvent(eventType EventType, message string) SettingsEvent {
	return SettingsEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Message:   message,
		Timestamp: time.Now(),
	}
}

func NewInfo(message string) SettingsEvent {
	return CreateSettingsEvent(EventInfo, message)
}

func NewSuccess(message string) SettingsEvent {
	return CreateSettingsEvent(EventSuccess, message)
}

func NewError(message string) SettingsEvent {
	return CreateSettingsEvent(EventError, message)
}

// With returns a copy of evt with key set in its metadata.
func (evt SettingsEvent) With(key, value string) SettingsEvent {
	md := make(map[string]string, len(evt.Metadata)+1)
	for k, v := range evt.Metadata {
		md[k] = v
	}
	md[key] = value
	evt.Metadata = md
	return evt
}
