package main

import (
	"context"
	"encoding/json"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"github.com/ethcocoders/techtonicml-desktop/internal/app"
	"github.com/ethcocoders/techtonicml-desktop/internal/bridge"
	"github.com/ethcocoders/techtonicml-desktop/internal/dialog"
)

// App is the object bound to the webview. Page script reaches the bridge
// through its two methods only:
//
//	window.go.main.App.Call("read_file", [path])
//	window.go.main.App.Methods()
type App struct {
	ctx     context.Context
	host    *app.Host
	dialogs *dialog.Wails
}

// NewApp creates a new App instance.
func NewApp(host *app.Host, dialogs *dialog.Wails) *App {
	return &App{host: host, dialogs: dialogs}
}

// startup is called when the app starts.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	a.dialogs.SetContext(ctx)
	a.host.SetEmitter(wailsEmitter{ctx: ctx})
	a.host.Logger.Info("window ready", "title", a.host.Title())
}

// shutdown is called when the window closes.
func (a *App) shutdown(ctx context.Context) {
	a.host.Cleanup()
}

// Call runs the named bridge method with positional JSON arguments.
func (a *App) Call(method string, args []json.RawMessage) bridge.Result {
	return a.host.Bridge.Registry().Call(method, args)
}

// Methods lists the bridge methods and their parameters.
func (a *App) Methods() []bridge.MethodInfo {
	return a.host.Bridge.Registry().Methods()
}

// wailsEmitter delivers bridge events through the runtime event bus.
type wailsEmitter struct {
	ctx context.Context
}

func (e wailsEmitter) Emit(event string, payload any) {
	runtime.EventsEmit(e.ctx, event, payload)
}
