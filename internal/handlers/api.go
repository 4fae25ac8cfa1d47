package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ethcocoders/techtonicml-desktop/internal/bridge"
)

// maxBodyBytes bounds a bridge call's argument array.
const maxBodyBytes = 10 << 20

// ListMethods returns the callable bridge methods and their parameters
func (h *Handler) ListMethods(w http.ResponseWriter, r *http.Request) {
	if !h.guard.allow(r) {
		rejectForeign(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"methods": h.bridge.Methods()})
}

// CallMethod runs one bridge method. The body is a JSON array of positional
// arguments; an empty body means no arguments. The response is always a result
// envelope: bridge failures are 200s with success=false, malformed requests 400.
func (h *Handler) CallMethod(w http.ResponseWriter, r *http.Request) {
	if !h.guard.allow(r) {
		rejectForeign(w)
		return
	}

	args, err := decodeArgs(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, bridge.Failf("invalid request body: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, h.bridge.Call(r.PathValue("method"), args))
}

func decodeArgs(body io.Reader) ([]json.RawMessage, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var args []json.RawMessage
	if err := json.Unmarshal(data, &args); err != nil {
		return nil, err
	}
	return args, nil
}

func rejectForeign(w http.ResponseWriter) {
	writeJSON(w, http.StatusForbidden, bridge.Failf("request from a foreign host or origin rejected"))
}
