package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/desertthunder/slbridge/internal/models"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, recovery and rate limiting.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the bridge service.
// Implementations handle specific endpoints (login, callback, polling).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Bridge is the authorization state machine the handlers drive. Implemented by bridge.Bridge.
type Bridge interface {
	Initiate(ctx context.Context, identifier, avatar string) (string, error)
	Complete(ctx context.Context, code, state, providerErr string) (*models.Session, error)
	Status(ctx context.Context, identifier string) bool
	NowPlaying(ctx context.Context, identifier string) (*models.NowPlaying, error)
	Devices(ctx context.Context, identifier string) (json.RawMessage, error)
}
