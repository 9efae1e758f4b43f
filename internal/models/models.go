package models

import (
	"fmt"
	"time"
)

// State is the authorization state of a [Session].
type State string

const (
	StatePending   State = "pending"
	StateConnected State = "connected"
)

// Session is one caller's authorization record.
//
// A session exists only after an authorization attempt was initiated for its identifier.
// [StateConnected] implies a non-empty AccessToken. RefreshToken is retained but never used.
type Session struct {
	Identifier   string
	Avatar       string
	State        State
	AccessToken  string
	RefreshToken string
	CreatedAt    time.Time
	ConnectedAt  *time.Time
	LastSeen     *time.Time
}

// NewSession returns a pending session for identifier.
func NewSession(identifier, avatar string, now time.Time) *Session {
	return &Session{
		Identifier: identifier,
		Avatar:     avatar,
		State:      StatePending,
		CreatedAt:  now,
	}
}

// Connected reports whether the session holds a usable access token.
func (s *Session) Connected() bool {
	return s != nil && s.State == StateConnected && s.AccessToken != ""
}

// Connect moves the session to [StateConnected] with the given tokens.
//
// Re-connecting an already connected session overwrites its tokens.
func (s *Session) Connect(access, refresh string, now time.Time) error {
	if access == "" {
		return fmt.Errorf("connect %s: empty access token", s.Identifier)
	}
	s.State = StateConnected
	s.AccessToken = access
	s.RefreshToken = refresh
	s.ConnectedAt = &now
	return nil
}

// Touch records a successful poll.
func (s *Session) Touch(now time.Time) {
	s.LastSeen = &now
}

// Validate checks the session invariants.
func (s *Session) Validate() error {
	if s.Identifier == "" {
		return fmt.Errorf("session identifier is required")
	}
	switch s.State {
	case StatePending:
	case StateConnected:
		if s.AccessToken == "" {
			return fmt.Errorf("connected session %s has no access token", s.Identifier)
		}
	default:
		return fmt.Errorf("session %s has unknown state %q", s.Identifier, s.State)
	}
	return nil
}

// Clone returns a deep copy so stores never hand out shared pointers.
func (s *Session) Clone() *Session {
	c := *s
	if s.ConnectedAt != nil {
		t := *s.ConnectedAt
		c.ConnectedAt = &t
	}
	if s.LastSeen != nil {
		t := *s.LastSeen
		c.LastSeen = &t
	}
	return &c
}

// NowPlaying is the normalized "currently playing" payload returned to pollers.
type NowPlaying struct {
	Track      string `json:"track"`
	Artist     string `json:"artist"`
	ProgressMS int    `json:"progress_ms"`
	DurationMS int    `json:"duration_ms"`
	IsPlaying  bool   `json:"is_playing"`
}
