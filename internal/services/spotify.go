// Spotify API implementation of [Provider]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/slbridge/internal/models"
	"github.com/desertthunder/slbridge/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAccountsURL = "https://accounts.spotify.com"
	spotifyBaseURL     = "https://api.spotify.com/v1"
)

// Scopes requested on the consent screen: read-only playback state.
var spotifyScopes = []string{"user-read-playback-state", "user-read-currently-playing"}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a simplified Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a simplified Spotify album.
type SpotifyAlbum struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Images []SpotifyImage `json:"images"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Artists    []SpotifyArtist `json:"artists"`
	Album      SpotifyAlbum    `json:"album"`
	DurationMS int             `json:"duration_ms"`
	URI        string          `json:"uri"`
}

// SpotifyCurrentlyPlaying is the body of GET /me/player/currently-playing.
//
// Item is nil for ads and, without additional_types, for podcast episodes.
type SpotifyCurrentlyPlaying struct {
	IsPlaying            bool          `json:"is_playing"`
	ProgressMS           int           `json:"progress_ms"`
	CurrentlyPlayingType string        `json:"currently_playing_type"`
	Item                 *SpotifyTrack `json:"item"`
}

// Normalize maps the response to [models.NowPlaying]; only the first artist is reported.
func (c *SpotifyCurrentlyPlaying) Normalize() (*models.NowPlaying, error) {
	if c == nil || c.Item == nil {
		return nil, shared.ErrNothingPlaying
	}

	np := &models.NowPlaying{
		Track:      c.Item.Name,
		ProgressMS: c.ProgressMS,
		DurationMS: c.Item.DurationMS,
		IsPlaying:  c.IsPlaying,
	}
	if len(c.Item.Artists) > 0 {
		np.Artist = c.Item.Artists[0].Name
	}
	return np, nil
}

// SpotifyService implements [Provider] for the Spotify accounts service and Web API.
//
// It holds only client credentials; access tokens are passed in per call so one instance serves every caller.
type SpotifyService struct {
	config     *oauth2.Config
	apiURL     string
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
//
// Required keys: client_id, client_secret, redirect_uri. Optional: accounts_url, api_url.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		return nil, fmt.Errorf("%w: missing redirect_uri", shared.ErrMissingCredentials)
	}

	accountsURL := strings.TrimRight(credentials["accounts_url"], "/")
	if accountsURL == "" {
		accountsURL = spotifyAccountsURL
	}

	apiURL := strings.TrimRight(credentials["api_url"], "/")
	if apiURL == "" {
		apiURL = spotifyBaseURL
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   accountsURL + "/authorize",
			TokenURL:  accountsURL + "/api/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	return &SpotifyService{
		config:     config,
		apiURL:     apiURL,
		httpClient: http.DefaultClient,
	}, nil
}

// WithHTTPClient swaps the client used for token exchange and API reads.
func (s *SpotifyService) WithHTTPClient(c *http.Client) *SpotifyService {
	if c != nil {
		s.httpClient = c
	}
	return s
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// AuthURL returns the authorization-code consent URL with state passed through verbatim.
func (s *SpotifyService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange posts the code to the token endpoint with client credentials in a Basic authorization header.
func (s *SpotifyService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: authorization code", shared.ErrMissingArgument)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrExchangeFailed, err)
	}

	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: %w", shared.ErrExchangeFailed, shared.ErrMissingToken)
	}

	return token, nil
}

// NowPlaying reads GET /me/player/currently-playing.
func (s *SpotifyService) NowPlaying(ctx context.Context, accessToken string) (*models.NowPlaying, error) {
	body, err := s.doRequest(ctx, "/me/player/currently-playing", accessToken)
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, shared.ErrNothingPlaying
	}

	var playing SpotifyCurrentlyPlaying
	if err := json.Unmarshal(body, &playing); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}

	return playing.Normalize()
}

// Devices reads GET /me/player/devices and returns the body untouched.
func (s *SpotifyService) Devices(ctx context.Context, accessToken string) (json.RawMessage, error) {
	body, err := s.doRequest(ctx, "/me/player/devices", accessToken)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: device list is not JSON", shared.ErrAPIRequest)
	}
	return json.RawMessage(body), nil
}

// doRequest performs an authenticated GET against the Web API.
//
// A 204 yields an empty body and no error. 401 wraps [shared.ErrTokenExpired]; other non-2xx statuses wrap
// [shared.ErrAPIRequest].
func (s *SpotifyService) doRequest(ctx context.Context, endpoint, accessToken string) ([]byte, error) {
	if accessToken == "" {
		return nil, shared.ErrNotConnected
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.apiURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return nil, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %w", shared.ErrAPIRequest, shared.ErrTokenExpired)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrAPIRequest, err)
	}
	return body, nil
}
