package services

import (
	"context"
	"encoding/json"

	"github.com/desertthunder/slbridge/internal/models"
	"golang.org/x/oauth2"
)

// Provider is the identity provider and playback API the bridge authorizes against.
type Provider interface {
	// Name returns the name of the service (e.g., "Spotify")
	Name() string

	// AuthURL returns the consent URL carrying state as the correlation parameter.
	AuthURL(state string) string

	// Exchange trades an authorization code for tokens. It is never retried.
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)

	// NowPlaying reads the current playback with accessToken as a bearer credential.
	// Returns [shared.ErrNothingPlaying] when the player is idle.
	NowPlaying(ctx context.Context, accessToken string) (*models.NowPlaying, error)

	// Devices returns the provider's device list verbatim.
	Devices(ctx context.Context, accessToken string) (json.RawMessage, error)
}
