package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"

	"github.com/ethcocoders/techtonicml-desktop/internal/app"
	"github.com/ethcocoders/techtonicml-desktop/internal/config"
	"github.com/ethcocoders/techtonicml-desktop/internal/dialog"
	"github.com/ethcocoders/techtonicml-desktop/internal/handlers"
	"github.com/ethcocoders/techtonicml-desktop/internal/logging"
)

// Version info - injected at build time via ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const (
	windowWidth     = 1400
	windowHeight    = 900
	windowMinWidth  = 1024
	windowMinHeight = 768
)

func main() {
	dialogs := &dialog.Wails{}

	host, err := app.Create(app.Options{
		Version: version,
		Commit:  commit,
		Dialogs: dialogs,
	})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	// Splash first, then the website proxied through the asset server
	site, err := handlers.NewSite(host.Config, host.Version,
		handlers.WithRuntimeScripts(),
		handlers.WithProcessSplash(),
	)
	if err != nil {
		host.Cleanup()
		slog.Error("failed to create site handler", "error", err)
		os.Exit(1)
	}

	desktopApp := NewApp(host, dialogs)

	logLevel := logger.INFO
	if host.Config.Debug {
		logLevel = logger.DEBUG
	}

	err = wails.Run(&options.App{
		Title:            config.AppName,
		Width:            windowWidth,
		Height:           windowHeight,
		MinWidth:         windowMinWidth,
		MinHeight:        windowMinHeight,
		DisableResize:    false,
		Fullscreen:       false,
		BackgroundColour: &options.RGBA{R: 255, G: 255, B: 255, A: 255},
		AssetServer: &assetserver.Options{
			Handler: site,
		},
		Logger:     logging.NewWails(host.Logger),
		LogLevel:   logLevel,
		OnStartup:  desktopApp.startup,
		OnShutdown: desktopApp.shutdown,
		Bind: []interface{}{
			desktopApp,
		},
		Debug: options.Debug{
			OpenInspectorOnStartup: host.Config.Debug,
		},
		Mac: &mac.Options{
			TitleBar: &mac.TitleBar{
				TitlebarAppearsTransparent: false,
			},
			About: &mac.AboutInfo{
				Title:   config.AppName,
				Message: fmt.Sprintf("%s\n\nVersion: %s\n%s", config.AppDescription, host.Version, config.AppAuthor),
			},
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
		},
	})

	if err != nil {
		slog.Error("wails error", "error", err)
		os.Exit(1)
	}
}
