package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"

	"chatbox/internal/bootstrap"
	"chatbox/internal/events"
	"chatbox/internal/logger"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	app := NewApp()
	desktop := &desktopHooks{app: app}

	rt, err := bootstrap.New(bootstrap.Options{
		ConfigPath: os.Getenv("CHATBOX_CONFIG"),
		Clipboard:  desktop,
		Theme:      desktop,
	})
	if err != nil {
		fmt.Println("Error starting chatbox:", err)
		os.Exit(1)
	}
	app.runtime = rt

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "Chatbox",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "Chatbox",
		},
		Logger:           logger.NewWailsLogger(rt.Logger),
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			events.EnableRuntimeEmitter()
			app.startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			rt.Services.Settings,
			rt.Services.Dialog,
			rt.Services.Catalog,
			rt.Services.Keyring,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
