package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ethcocoders/techtonicml-desktop/internal/bridge"
	"github.com/ethcocoders/techtonicml-desktop/internal/config"
)

// Caller runs bridge methods by name.
type Caller interface {
	Call(method string, args []json.RawMessage) bridge.Result
	Methods() []bridge.MethodInfo
}

// Handler holds all HTTP handlers for server mode
type Handler struct {
	cfg    *config.Config
	bridge Caller
	hub    *Hub
	site   *Site
	guard  *hostGuard
}

// New creates a new Handler. Bridge calls are accepted only for requests
// addressed to one of allowedHosts (see LocalHosts).
func New(cfg *config.Config, caller Caller, hub *Hub, version string, allowedHosts []string) (*Handler, error) {
	site, err := NewSite(cfg, version)
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:    cfg,
		bridge: caller,
		hub:    hub,
		site:   site,
		guard:  newHostGuard(allowedHosts),
	}, nil
}

// RegisterRoutes registers all HTTP routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Bridge API
	mux.HandleFunc("GET /api/bridge", h.ListMethods)
	mux.HandleFunc("POST /api/bridge/{method}", h.CallMethod)

	// Events
	mux.Handle("GET /api/events", h.hub)

	// Splash, then the proxied website
	mux.Handle("/", h.site)
}

// writeJSON writes v as a JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}
