package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/desertthunder/slbridge/internal/bridge"
	"github.com/desertthunder/slbridge/internal/repositories"
	"github.com/desertthunder/slbridge/internal/server"
	"github.com/desertthunder/slbridge/internal/services"
	"github.com/desertthunder/slbridge/internal/shared"
	"github.com/urfave/cli/v3"
)

const shutdownTimeout = 10 * time.Second

// Serve validates configuration, wires the bridge and blocks until ctx is cancelled.
//
// Configuration problems are returned before anything listens.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	config, err := r.loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}
	if port := cmd.Int("port"); port > 0 {
		config.Server.Port = int(port)
	}

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	handler, closeFn, err := r.buildHandler(config)
	if err != nil {
		return err
	}
	defer closeFn()

	ln, err := net.Listen("tcp", config.Server.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", config.Server.Addr(), err)
	}

	r.logger.Info("bridge listening",
		"addr", ln.Addr().String(),
		"callback", config.Credentials.Spotify.RedirectURI,
		"store", config.Store.Driver,
	)

	return r.serveOn(ctx, ln, handler)
}

// buildHandler assembles store, provider, bridge and router from a validated config.
func (r *Runner) buildHandler(config *shared.Config) (http.Handler, func(), error) {
	store, err := repositories.NewSessionStore(config.Store.Driver)
	if err != nil {
		return nil, nil, err
	}

	spotify, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to create Spotify service: %w", err)
	}

	b := bridge.New(store, spotify, r.logger, bridge.Options{
		RequireAvatar: config.Server.RequireAvatar,
		Warmup:        config.Server.Warmup,
	})

	limiter := server.NewLimiter(config.Server.RateLimit, config.Server.RateBurst)
	router := server.NewRouter(b, r.logger, limiter)

	closeFn := func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("failed to close session store", "error", err)
		}
	}
	return router, closeFn, nil
}

// serveOn serves handler on ln until ctx is done, then drains in-flight requests.
func (r *Runner) serveOn(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	r.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
