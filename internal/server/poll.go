package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
)

// StatusHandler answers GET /status?user=<id> with {"connected": bool}. Never an error for unknown ids.
type StatusHandler struct {
	bridge Bridge
}

func NewStatusHandler(b Bridge) *StatusHandler {
	return &StatusHandler{bridge: b}
}

func (h *StatusHandler) Routes() []string {
	return []string{"/status"}
}

func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	connected := h.bridge.Status(r.Context(), identifier(r))
	writeJSON(w, map[string]bool{"connected": connected})
}

// NowPlayingHandler answers GET /spotify?user=<id>.
//
// 200 with track JSON, 204 when idle or the provider failed, 401 without a connected session.
type NowPlayingHandler struct {
	bridge Bridge
	logger *log.Logger
}

func NewNowPlayingHandler(b Bridge, logger *log.Logger) *NowPlayingHandler {
	return &NowPlayingHandler{bridge: b, logger: logger}
}

func (h *NowPlayingHandler) Routes() []string {
	return []string{"/spotify"}
}

func (h *NowPlayingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	np, err := h.bridge.NowPlaying(r.Context(), identifier(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, np)
}

// DevicesHandler answers GET /device?user=<id> with the provider's device list.
//
// Upstream failures are reported as 204, the same as the playback poll.
type DevicesHandler struct {
	bridge Bridge
	logger *log.Logger
}

func NewDevicesHandler(b Bridge, logger *log.Logger) *DevicesHandler {
	return &DevicesHandler{bridge: b, logger: logger}
}

func (h *DevicesHandler) Routes() []string {
	return []string{"/device"}
}

func (h *DevicesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	devices, err := h.bridge.Devices(r.Context(), identifier(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(devices)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}
