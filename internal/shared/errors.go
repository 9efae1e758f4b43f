package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")
	ErrCallbackMismatch   = fmt.Errorf("redirect_uri does not match the callback route")

	// Authorization flow errors
	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrNotConnected    = fmt.Errorf("not connected")
	ErrExchangeFailed  = fmt.Errorf("token exchange failed")
	ErrMissingToken    = fmt.Errorf("provider returned no access token")
	ErrAuthDenied      = fmt.Errorf("authorization denied by provider")
	ErrTokenExpired    = fmt.Errorf("access token expired or revoked")

	// API and service errors
	ErrAPIRequest     = fmt.Errorf("API request failed")
	ErrNothingPlaying = fmt.Errorf("nothing playing")

	// Input validation errors
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrInvalidIdentifier = fmt.Errorf("invalid identifier")
	ErrInvalidProof      = fmt.Errorf("invalid avatar proof")
	ErrMissingArgument   = fmt.Errorf("missing required argument")
)
