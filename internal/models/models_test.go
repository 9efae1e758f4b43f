package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSession(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("NewSession is pending", func(t *testing.T) {
		s := NewSession("u1", "", now)
		if s.State != StatePending || s.Connected() {
			t.Errorf("expected pending, not connected, got %+v", s)
		}
		if err := s.Validate(); err != nil {
			t.Errorf("Validate() = %v", err)
		}
	})

	t.Run("Connect", func(t *testing.T) {
		s := NewSession("u1", "", now)
		if err := s.Connect("access", "refresh", now); err != nil {
			t.Fatalf("Connect() = %v", err)
		}
		if !s.Connected() || s.AccessToken != "access" || s.RefreshToken != "refresh" {
			t.Errorf("expected connected session with both tokens, got %+v", s)
		}
		if s.ConnectedAt == nil || !s.ConnectedAt.Equal(now) {
			t.Errorf("ConnectedAt = %v", s.ConnectedAt)
		}
	})

	t.Run("Connect rejects empty token", func(t *testing.T) {
		s := NewSession("u1", "", now)
		if err := s.Connect("", "refresh", now); err == nil {
			t.Fatal("expected error")
		}
		if s.State != StatePending || s.RefreshToken != "" {
			t.Errorf("session mutated on failed connect: %+v", s)
		}
	})

	t.Run("Validate", func(t *testing.T) {
		bad := []*Session{
			{State: StatePending},
			{Identifier: "u1", State: StateConnected},
			{Identifier: "u1", State: "gone"},
		}
		for _, s := range bad {
			if err := s.Validate(); err == nil {
				t.Errorf("expected invalid: %+v", s)
			}
		}
	})

	t.Run("Clone is deep", func(t *testing.T) {
		s := NewSession("u1", "", now)
		s.Touch(now)
		c := s.Clone()
		c.LastSeen = nil
		c.Identifier = "other"
		if s.LastSeen == nil || s.Identifier != "u1" {
			t.Errorf("clone shares state with original: %+v", s)
		}

		later := now.Add(time.Minute)
		c2 := s.Clone()
		*c2.LastSeen = later
		if !s.LastSeen.Equal(now) {
			t.Errorf("clone shares LastSeen pointer")
		}
	})
}

func TestNowPlayingJSON(t *testing.T) {
	data, err := json.Marshal(NowPlaying{Track: "Song X", Artist: "Artist Y", ProgressMS: 1000, DurationMS: 200000, IsPlaying: true})
	if err != nil {
		t.Fatalf("Marshal() = %v", err)
	}
	want := `{"track":"Song X","artist":"Artist Y","progress_ms":1000,"duration_ms":200000,"is_playing":true}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
