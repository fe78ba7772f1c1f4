package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"chatbox/internal/jsonx"
)

func logRuntimeEvent(ctx context.Context, name string, event SettingsEvent) {
	data, err := jsonx.Marshal(event)
	if err != nil {
		runtime.LogError(ctx, "events: failed to marshal settings event: "+err.Error())
		return
	}

	payload := name + " " + string(data)

	switch event.Type {
	case EventError:
		runtime.LogError(ctx, payload)
	case EventWarn:
		runtime.LogWarning(ctx, payload)
	default:
		runtime.LogDebug(ctx, payload)
	}
}
