package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"chatbox/internal/bootstrap"
	"chatbox/internal/models"
	"chatbox/internal/services"
)

// App struct
type App struct {
	ctx     context.Context
	runtime *bootstrap.Runtime
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.runtime.Start(ctx)

	settings, err := a.runtime.Services.Settings.Get()
	if err != nil {
		runtime.LogError(ctx, fmt.Sprintf("failed to load settings: %v", err))
		return
	}
	applyTheme(ctx, settings.Theme)
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	a.runtime.Stop(ctx)
	runtime.LogInfo(ctx, "settings store closed")
}

// GetOS returns the operating system the app runs on
func (a *App) GetOS() string {
	return services.GetOS()
}

// TestConnection sends a short prompt with the saved settings and returns
// the model's reply
func (a *App) TestConnection() (string, error) {
	client, err := a.runtime.ChatClient(a.ctx)
	if err != nil {
		return "", err
	}
	reply, err := client.Ping(a.ctx)
	if err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("connection test failed: %v", err))
		return "", err
	}
	return reply, nil
}

// FlushSettings writes the settings store to disk immediately
func (a *App) FlushSettings() error {
	if err := a.runtime.Store.Flush(a.ctx); err != nil {
		a.runtime.Logger.Error("manual flush failed", slog.Any("error", err))
		return err
	}
	return nil
}

// desktopHooks adapts the Wails runtime to the dialog's clipboard and
// theme preview hooks.
type desktopHooks struct {
	app *App
}

func (d *desktopHooks) ClipboardGetText() (string, error) {
	if d.app.ctx == nil {
		return "", fmt.Errorf("clipboard not available before startup")
	}
	return runtime.ClipboardGetText(d.app.ctx)
}

func (d *desktopHooks) PreviewTheme(theme models.ThemeMode) {
	if d.app.ctx == nil {
		return
	}
	applyTheme(d.app.ctx, theme)
}

func applyTheme(ctx context.Context, theme models.ThemeMode) {
	switch theme {
	case models.ThemeDark:
		runtime.WindowSetDarkTheme(ctx)
	case models.ThemeLight:
		runtime.WindowSetLightTheme(ctx)
	default:
		runtime.WindowSetSystemDefaultTheme(ctx)
	}
}
