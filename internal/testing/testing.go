// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/desertthunder/slbridge/internal/models"
	"github.com/desertthunder/slbridge/internal/shared"
	"golang.org/x/oauth2"
)

// FakeProvider is a scriptable test double for [services.Provider].
type FakeProvider struct {
	mu sync.Mutex

	// Token is returned by Exchange when ExchangeErr is nil.
	Token       *oauth2.Token
	ExchangeErr error

	// Playing is returned by NowPlaying when PlayingErr is nil; nil means idle.
	Playing    *models.NowPlaying
	PlayingErr error

	DeviceList json.RawMessage
	DevicesErr error

	Codes        []string // codes passed to Exchange
	BearerTokens []string // access tokens passed to NowPlaying and Devices
}

// NewFakeProvider returns a provider whose exchange yields access/refresh tokens "access-token"/"refresh-token".
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		Token: &oauth2.Token{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer"},
	}
}

func (f *FakeProvider) Name() string { return "fake" }

func (f *FakeProvider) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?response_type=code&state=" + state
}

func (f *FakeProvider) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Codes = append(f.Codes, code)
	if f.ExchangeErr != nil {
		return nil, f.ExchangeErr
	}
	return f.Token, nil
}

func (f *FakeProvider) NowPlaying(_ context.Context, accessToken string) (*models.NowPlaying, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.BearerTokens = append(f.BearerTokens, accessToken)
	if f.PlayingErr != nil {
		return nil, f.PlayingErr
	}
	if f.Playing == nil {
		return nil, shared.ErrNothingPlaying
	}
	np := *f.Playing
	return &np, nil
}

func (f *FakeProvider) Devices(_ context.Context, accessToken string) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.BearerTokens = append(f.BearerTokens, accessToken)
	if f.DevicesErr != nil {
		return nil, f.DevicesErr
	}
	return f.DeviceList, nil
}

// Calls returns how many exchanges and bearer calls were made.
func (f *FakeProvider) Calls() (exchanges, reads int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Codes), len(f.BearerTokens)
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}
