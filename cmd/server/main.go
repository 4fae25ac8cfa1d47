package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/pkg/browser"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/ethcocoders/techtonicml-desktop/internal/app"
	"github.com/ethcocoders/techtonicml-desktop/internal/config"
	"github.com/ethcocoders/techtonicml-desktop/internal/dialog"
	"github.com/ethcocoders/techtonicml-desktop/internal/handlers"
)

// Version info - injected at build time via ldflags
var (
	version = "dev"
	commit  = "unknown"
)

type serveOptions struct {
	port  int
	bind  string
	debug bool
	open  bool
}

func main() {
	root := newRootCmd()
	if err := fang.Execute(context.Background(), root, fang.WithVersion(app.VersionString(version, commit))); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "deckapp-server",
		Short: "Serve the " + config.AppName + " host bridge to a local browser",
		Long: "Runs the same splash, website proxy and host bridge as the desktop app, " +
			"but over HTTP so the page can be developed in an ordinary browser.\n\n" +
			"Bridge calls are POSTed to /api/bridge/{method}; events stream from /api/events.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "port to listen on (default $DECKAPP_PORT or 8080)")
	cmd.Flags().StringVar(&opts.bind, "bind", "127.0.0.1", "address to bind to")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.open, "open", false, "open the default browser once listening")
	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg := config.Load()
	if opts.port > 0 {
		cfg.Port = opts.port
	}
	if opts.debug {
		cfg.Debug = true
	}

	host, err := app.Create(app.Options{
		Config:  cfg,
		Version: version,
		Commit:  commit,
		Dialogs: dialog.Native{},
	})
	if err != nil {
		return err
	}
	defer host.Cleanup()

	addr := net.JoinHostPort(opts.bind, strconv.Itoa(cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	allowedHosts := handlers.LocalHosts(opts.bind, port)

	hub := handlers.NewHub(allowedHosts)
	defer hub.Close()
	host.SetEmitter(hub)

	h, err := handlers.New(cfg, host.Bridge.Registry(), hub, host.Version, allowedHosts)
	if err != nil {
		listener.Close()
		return fmt.Errorf("failed to initialize handlers: %w", err)
	}

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Dialogs block until the user answers
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()

	url := "http://" + net.JoinHostPort(displayHost(opts.bind), strconv.Itoa(port))
	pterm.Success.Printfln("%s listening on %s", host.Title(), url)
	pterm.Info.Printfln("Data directory: %s", host.DataDir)
	if opts.open {
		if err := browser.OpenURL(url); err != nil {
			pterm.Warning.Printfln("Could not open browser: %v", err)
		}
	}

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	pterm.Info.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	return nil
}

// displayHost picks a name for the banner URL that the host guard accepts.
func displayHost(bind string) string {
	switch bind {
	case "", "0.0.0.0", "::":
		return "localhost"
	}
	return bind
}
