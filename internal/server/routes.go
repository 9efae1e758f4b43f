package server

import (
	"net/http"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// LivenessMessage is returned by GET /.
const LivenessMessage = "slbridge is running"

// NewRouter wires every bridge endpoint behind recovery and request logging.
//
// The optional inbound limiter covers every route except the callback: a rejected callback would lose the
// provider's single-use authorization code.
func NewRouter(b Bridge, logger *log.Logger, limiter *rate.Limiter) *BasicRouter {
	router := NewBasicRouter()
	router.Use(Recoverer(logger), RequestLogger(logger))
	router.Handler(NewCallbackHandler(b, logger))

	router.Use(RateLimit(limiter))

	router.Handle(http.MethodGet, "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeText(w, http.StatusOK, LivenessMessage)
	}))

	for _, h := range []Handler{
		NewLoginHandler(b, logger),
		NewStatusHandler(b),
		NewNowPlayingHandler(b, logger),
		NewDevicesHandler(b, logger),
	} {
		router.Handler(h)
	}

	return router
}
