package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// CallbackPath is the route the provider redirects back to. The registered redirect URI must end in it.
const CallbackPath = "/callback"

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Store       StoreConfig       `toml:"store"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
//
// AccountsURL and APIURL override the public Spotify hosts and exist for testing against a stub provider.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id" validate:"required"`
	ClientSecret string `toml:"client_secret" validate:"required"`
	RedirectURI  string `toml:"redirect_uri" validate:"required,url"`
	AccountsURL  string `toml:"accounts_url" validate:"omitempty,url"`
	APIURL       string `toml:"api_url" validate:"omitempty,url"`
}

// Map returns the credentials in the shape expected by services.NewSpotifyService.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
		"accounts_url":  s.AccountsURL,
		"api_url":       s.APIURL,
	}
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host          string  `toml:"host"`
	Port          int     `toml:"port" validate:"min=1,max=65535"`
	RequireAvatar bool    `toml:"require_avatar"`
	Warmup        bool    `toml:"warmup"`
	RateLimit     float64 `toml:"rate_limit" validate:"gte=0"` // inbound requests per second, 0 disables
	RateBurst     int     `toml:"rate_burst" validate:"gte=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects the session store backend. Both backends are volatile.
type StoreConfig struct {
	Driver string `toml:"driver" validate:"oneof=memory sqlite"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides credentials and port from the environment.
//
// Recognized variables: SPOTIFY_CLIENT_ID, SPOTIFY_CLIENT_SECRET, SPOTIFY_REDIRECT_URI and PORT.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Credentials.Spotify.RedirectURI = v
	}
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.Port = port
	}

	return nil
}

// Validate checks the configuration before the server accepts traffic.
//
// Missing or placeholder credentials yield [ErrMissingCredentials]; a redirect URI that does not point at
// [CallbackPath] yields [ErrCallbackMismatch]. Everything else is [ErrInvalidConfig].
func (c *Config) Validate() error {
	sp := c.Credentials.Spotify
	if isPlaceholder(sp.ClientID) || isPlaceholder(sp.ClientSecret) {
		return fmt.Errorf("%w: spotify client_id and client_secret must be set", ErrMissingCredentials)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidConfig, verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return CheckCallback(sp.RedirectURI)
}

// CheckCallback verifies the redirect URI is an absolute http(s) URL served by this process' callback route.
func CheckCallback(redirectURI string) error {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCallbackMismatch, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("%w: scheme %q", ErrCallbackMismatch, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrCallbackMismatch)
	}
	if u.Path != CallbackPath || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("%w: %s must end in %s", ErrCallbackMismatch, redirectURI, CallbackPath)
	}
	return nil
}

func isPlaceholder(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.HasPrefix(s, "your_")
}
