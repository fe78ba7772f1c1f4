package events

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Emit delivers evt to the frontend. It is a no-op until an emitter is
// enabled.
var Emit = func(ctx context.Context, name string, evt SettingsEvent) {}

// EnableRuntimeEmitter routes events through the Wails runtime. ctx
// passed to Emit must then be the Wails application context.
func EnableRuntimeEmitter() {
	Emit = func(ctx context.Context, name string, evt SettingsEvent) {
		runtime.EventsEmit(ctx, name, evt)
		logRuntimeEvent(ctx, name, evt)
	}
}

func SetCustomEmitter(f func(ctx context.Context, name string, evt SettingsEvent)) {
	if f == nil {
		Emit = func(context.Context, string, SettingsEvent) {}
		return
	}
	Emit = f
}
