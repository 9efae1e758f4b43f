package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/slbridge/internal/models"
	"github.com/desertthunder/slbridge/internal/repositories"
	"github.com/desertthunder/slbridge/internal/services"
	"github.com/desertthunder/slbridge/internal/shared"
)

// Options tune the bridge.
type Options struct {
	RequireAvatar bool             // reject /login without an avatar UUID
	Warmup        bool             // read the player once after a successful exchange
	Now           func() time.Time // clock, defaults to time.Now
}

// Bridge owns the session lifecycle: pending on initiate, connected on a successful callback.
type Bridge struct {
	store    repositories.SessionStore
	provider services.Provider
	logger   *log.Logger
	opts     Options
}

// New creates a [Bridge]. A nil logger gets the default shared logger.
func New(store repositories.SessionStore, provider services.Provider, logger *log.Logger, opts Options) *Bridge {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Bridge{
		store:    store,
		provider: provider,
		logger:   shared.WithLogger(logger, "component", "bridge"),
		opts:     opts,
	}
}

// Initiate validates the caller, stores a pending session (replacing any previous one) and returns the
// provider's consent URL with identifier as the state parameter.
//
// Invalid input returns before anything is stored.
func (b *Bridge) Initiate(ctx context.Context, identifier, avatar string) (string, error) {
	if err := ValidateIdentifier(identifier); err != nil {
		return "", err
	}
	if err := ValidateAvatar(avatar, b.opts.RequireAvatar); err != nil {
		return "", err
	}

	if err := b.store.Begin(ctx, models.NewSession(identifier, avatar, b.opts.Now())); err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	b.logger.Info("authorization started", "user", shared.Redact(identifier))
	return b.provider.AuthURL(identifier), nil
}

// Complete handles the provider callback for state.
//
// providerErr is the provider's "error" query parameter, non-empty when the user declined consent.
// The exchange is attempted once; on any failure the stored session is left untouched.
func (b *Bridge) Complete(ctx context.Context, code, state, providerErr string) (*models.Session, error) {
	if state == "" {
		return nil, fmt.Errorf("%w: state", shared.ErrMissingArgument)
	}

	if _, err := b.store.Get(ctx, state); err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			b.logger.Warn("callback for unknown state", "state", shared.Redact(state))
		}
		return nil, err
	}

	if providerErr != "" {
		b.logger.Info("authorization declined", "user", shared.Redact(state), "error", providerErr)
		return nil, fmt.Errorf("%w: %s", shared.ErrAuthDenied, providerErr)
	}

	if code == "" {
		return nil, fmt.Errorf("%w: code", shared.ErrMissingArgument)
	}

	token, err := b.provider.Exchange(ctx, code)
	if err != nil {
		b.logger.Error("token exchange failed", "user", shared.Redact(state), "error", err)
		if errors.Is(err, shared.ErrExchangeFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrExchangeFailed, err)
	}
	if token == nil || token.AccessToken == "" {
		b.logger.Error("token exchange returned no access token", "user", shared.Redact(state))
		return nil, fmt.Errorf("%w: %w", shared.ErrExchangeFailed, shared.ErrMissingToken)
	}

	session, err := b.store.Connect(ctx, state, token.AccessToken, token.RefreshToken, b.opts.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to store tokens: %w", err)
	}

	b.logger.Info("authorization completed", "user", shared.Redact(state))

	if b.opts.Warmup {
		b.warmup(ctx, state, token.AccessToken)
	}

	return session, nil
}

// warmup reads the player once. Its outcome never affects the connected state.
func (b *Bridge) warmup(ctx context.Context, identifier, accessToken string) {
	if _, err := b.provider.NowPlaying(ctx, accessToken); err != nil && !errors.Is(err, shared.ErrNothingPlaying) {
		b.logger.Debug("warm-up read failed", "user", shared.Redact(identifier), "error", err)
	}
}

// Status reports whether identifier has a connected session. Unknown and pending both report false.
func (b *Bridge) Status(ctx context.Context, identifier string) bool {
	session, err := b.store.Get(ctx, identifier)
	if err != nil {
		if !errors.Is(err, shared.ErrSessionNotFound) {
			b.logger.Error("status lookup failed", "user", shared.Redact(identifier), "error", err)
		}
		return false
	}
	return session.Connected()
}

// NowPlaying proxies the provider's current playback for a connected identifier and records last_seen.
//
// Returns [shared.ErrNotConnected] without a token, and [shared.ErrNothingPlaying] when idle or when the
// provider call fails for any reason.
func (b *Bridge) NowPlaying(ctx context.Context, identifier string) (*models.NowPlaying, error) {
	session, err := b.connected(ctx, identifier)
	if err != nil {
		return nil, err
	}

	np, err := b.provider.NowPlaying(ctx, session.AccessToken)
	if err != nil {
		return nil, b.collapse("now playing", identifier, err)
	}

	if err := b.store.Touch(ctx, identifier, b.opts.Now()); err != nil {
		b.logger.Warn("failed to record last_seen", "user", shared.Redact(identifier), "error", err)
	}

	return np, nil
}

// Devices passes the provider's device list through for a connected identifier.
//
// Failures follow the same policy as [Bridge.NowPlaying].
func (b *Bridge) Devices(ctx context.Context, identifier string) (json.RawMessage, error) {
	session, err := b.connected(ctx, identifier)
	if err != nil {
		return nil, err
	}

	devices, err := b.provider.Devices(ctx, session.AccessToken)
	if err != nil {
		return nil, b.collapse("devices", identifier, err)
	}
	return devices, nil
}

// connected returns the session for identifier when it holds a token.
//
// Only a missing identifier is a client error; a malformed one can never have been stored and reads as not connected.
func (b *Bridge) connected(ctx context.Context, identifier string) (*models.Session, error) {
	if identifier == "" {
		return nil, fmt.Errorf("%w: identifier is required", shared.ErrInvalidIdentifier)
	}
	if err := ValidateIdentifier(identifier); err != nil {
		return nil, shared.ErrNotConnected
	}

	session, err := b.store.Get(ctx, identifier)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			return nil, shared.ErrNotConnected
		}
		return nil, err
	}
	if !session.Connected() {
		return nil, shared.ErrNotConnected
	}
	return session, nil
}

// collapse folds upstream failures into [shared.ErrNothingPlaying].
func (b *Bridge) collapse(op, identifier string, err error) error {
	if errors.Is(err, shared.ErrNothingPlaying) {
		return shared.ErrNothingPlaying
	}
	b.logger.Warn("upstream read failed", "op", op, "user", shared.Redact(identifier), "error", err)
	return fmt.Errorf("%w: %v", shared.ErrNothingPlaying, err)
}
