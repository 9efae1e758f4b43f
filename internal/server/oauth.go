package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/slbridge/internal/shared"
)

// ConnectedMessage is the plain-text body shown in the browser after a successful callback.
const ConnectedMessage = "Spotify connected. You may now return to Second Life."

// LoginHandler starts the authorization flow for a caller identifier.
//
//	GET /login?user=<id>[&avatar=<uuid>]
//
// "state" is accepted in place of "user" and "proof" in place of "avatar" for older in-world scripts.
type LoginHandler struct {
	bridge Bridge
	logger *log.Logger
}

// NewLoginHandler creates a [LoginHandler].
func NewLoginHandler(b Bridge, logger *log.Logger) *LoginHandler {
	return &LoginHandler{bridge: b, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *LoginHandler) Routes() []string {
	return []string{"/login"}
}

// ServeHTTP stores a pending session and redirects to the provider's consent screen.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	avatar := q.Get("avatar")
	if avatar == "" {
		avatar = q.Get("proof")
	}

	authURL, err := h.bridge.Initiate(r.Context(), identifier(r), avatar)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// CallbackHandler completes the authorization-code exchange.
//
//	GET /callback?code=<code>&state=<id>
//
// Unlike a one-shot CLI callback it stays registered for the lifetime of the process: the state parameter
// selects which pending session to upgrade, and an unknown state is rejected before any exchange.
type CallbackHandler struct {
	bridge Bridge
	logger *log.Logger
}

// NewCallbackHandler creates a [CallbackHandler].
func NewCallbackHandler(b Bridge, logger *log.Logger) *CallbackHandler {
	return &CallbackHandler{bridge: b, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{shared.CallbackPath}
}

// ServeHTTP validates state, exchanges the code and reports the outcome as plain text.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	providerErr := q.Get("error")
	if desc := q.Get("error_description"); providerErr != "" && desc != "" {
		providerErr = fmt.Sprintf("%s - %s", providerErr, desc)
	}

	if _, err := h.bridge.Complete(r.Context(), q.Get("code"), q.Get("state"), providerErr); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeText(w, http.StatusOK, ConnectedMessage)
}

// writeError maps bridge errors onto the poll contract:
// client input → 400, no token → 401, nothing to report → 204, everything else → 500.
func writeError(w http.ResponseWriter, logger *log.Logger, err error) {
	switch {
	case errors.Is(err, shared.ErrSessionNotFound):
		http.Error(w, "Invalid state", http.StatusBadRequest)
	case errors.Is(err, shared.ErrInvalidIdentifier),
		errors.Is(err, shared.ErrInvalidProof),
		errors.Is(err, shared.ErrMissingArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, shared.ErrAuthDenied):
		http.Error(w, "Authorization failed", http.StatusBadRequest)
	case errors.Is(err, shared.ErrNotConnected):
		http.Error(w, "Not connected", http.StatusUnauthorized)
	case errors.Is(err, shared.ErrNothingPlaying):
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, shared.ErrExchangeFailed):
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
	default:
		logger.Error("unhandled error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintln(w, body)
}

// identifier reads the caller identifier from "user", falling back to "state".
func identifier(r *http.Request) string {
	q := r.URL.Query()
	if id := q.Get("user"); id != "" {
		return id
	}
	return q.Get("state")
}
