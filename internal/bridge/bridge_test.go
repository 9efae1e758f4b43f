package bridge

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/slbridge/internal/models"
	"github.com/desertthunder/slbridge/internal/repositories"
	"github.com/desertthunder/slbridge/internal/shared"
	tu "github.com/desertthunder/slbridge/internal/testing"
	"golang.org/x/oauth2"
)

var now = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

type fixture struct {
	bridge   *Bridge
	store    *repositories.MemoryStore
	provider *tu.FakeProvider
	logs     *bytes.Buffer
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	var logs bytes.Buffer
	store := repositories.NewMemoryStore()
	provider := tu.NewFakeProvider()
	opts.Now = func() time.Time { return now }

	return &fixture{
		bridge:   New(store, provider, shared.NewLogger(&logs), opts),
		store:    store,
		provider: provider,
		logs:     &logs,
	}
}

func (f *fixture) count(t *testing.T) int {
	t.Helper()
	n, err := f.store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() = %v", err)
	}
	return n
}

func (f *fixture) connect(t *testing.T, id string) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.bridge.Initiate(ctx, id, ""); err != nil {
		t.Fatalf("Initiate() = %v", err)
	}
	if _, err := f.bridge.Complete(ctx, "code-"+id, id, ""); err != nil {
		t.Fatalf("Complete() = %v", err)
	}
}

func TestInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates One Pending Session", func(t *testing.T) {
		f := newFixture(t, Options{})

		authURL, err := f.bridge.Initiate(ctx, "U1", "")
		if err != nil {
			t.Fatalf("Initiate() = %v", err)
		}
		if !strings.Contains(authURL, "state=U1") {
			t.Errorf("auth URL should carry the identifier as state: %s", authURL)
		}

		s, err := f.store.Get(ctx, "U1")
		if err != nil {
			t.Fatalf("Get() = %v", err)
		}
		if s.State != models.StatePending {
			t.Errorf("expected pending, got %s", s.State)
		}
		if f.count(t) != 1 {
			t.Errorf("expected exactly one session, got %d", f.count(t))
		}
	})

	t.Run("Fresh Identifiers Do Not Overwrite Each Other", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")

		if _, err := f.bridge.Initiate(ctx, "U2", ""); err != nil {
			t.Fatalf("Initiate() = %v", err)
		}
		if !f.bridge.Status(ctx, "U1") {
			t.Error("initiating U2 must not disturb U1")
		}
		if f.count(t) != 2 {
			t.Errorf("expected two sessions, got %d", f.count(t))
		}
	})

	t.Run("Re-Authorizing Resets To Pending", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")

		if _, err := f.bridge.Initiate(ctx, "U1", ""); err != nil {
			t.Fatalf("Initiate() = %v", err)
		}
		if f.bridge.Status(ctx, "U1") {
			t.Error("re-initiated session should be pending")
		}
		if f.count(t) != 1 {
			t.Errorf("expected one session, got %d", f.count(t))
		}
	})

	rejects := []struct {
		name     string
		id       string
		avatar   string
		required bool
		wantErr  error
	}{
		{name: "missing identifier", id: "", wantErr: shared.ErrInvalidIdentifier},
		{name: "identifier with space", id: "a b", wantErr: shared.ErrInvalidIdentifier},
		{name: "identifier with control char", id: "a\nb", wantErr: shared.ErrInvalidIdentifier},
		{name: "identifier too long", id: strings.Repeat("x", 257), wantErr: shared.ErrInvalidIdentifier},
		{name: "malformed avatar", id: "U1", avatar: "not-a-uuid", wantErr: shared.ErrInvalidProof},
		{name: "urn avatar", id: "U1", avatar: "urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8", wantErr: shared.ErrInvalidProof},
		{name: "avatar required", id: "U1", required: true, wantErr: shared.ErrInvalidProof},
	}
	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Options{RequireAvatar: tc.required})

			if _, err := f.bridge.Initiate(ctx, tc.id, tc.avatar); !errors.Is(err, tc.wantErr) {
				t.Errorf("Initiate() error = %v, want %v", err, tc.wantErr)
			}
			if f.count(t) != 0 {
				t.Error("rejected input must not create a session")
			}
		})
	}

	t.Run("Valid Avatar Is Stored", func(t *testing.T) {
		f := newFixture(t, Options{RequireAvatar: true})
		avatar := "6ba7b810-9dad-11d1-80b4-00c04fd430c8"

		if _, err := f.bridge.Initiate(ctx, "U1", avatar); err != nil {
			t.Fatalf("Initiate() = %v", err)
		}
		s, _ := f.store.Get(ctx, "U1")
		if s.Avatar != avatar {
			t.Errorf("Avatar = %q, want %q", s.Avatar, avatar)
		}
	})
}

func TestComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("Pending To Connected", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.bridge.Initiate(ctx, "U1", "")

		s, err := f.bridge.Complete(ctx, "ABC", "U1", "")
		if err != nil {
			t.Fatalf("Complete() = %v", err)
		}
		if !s.Connected() || s.AccessToken != "access-token" || s.RefreshToken != "refresh-token" {
			t.Errorf("unexpected session %+v", s)
		}
		if len(f.provider.Codes) != 1 || f.provider.Codes[0] != "ABC" {
			t.Errorf("expected one exchange of ABC, got %v", f.provider.Codes)
		}
		if !f.bridge.Status(ctx, "U1") {
			t.Error("Status() should report connected")
		}
	})

	t.Run("Unknown State Never Mutates The Store", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.bridge.Initiate(ctx, "U1", "")

		if _, err := f.bridge.Complete(ctx, "ABC", "UNKNOWN", ""); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("expected ErrSessionNotFound, got %v", err)
		}
		if f.count(t) != 1 {
			t.Errorf("store size changed to %d", f.count(t))
		}
		if _, err := f.store.Get(ctx, "UNKNOWN"); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Error("unknown state must not be created")
		}
		if exchanges, _ := f.provider.Calls(); exchanges != 0 {
			t.Error("no exchange should be attempted for an unknown state")
		}
	})

	t.Run("Missing State Or Code", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.bridge.Initiate(ctx, "U1", "")

		if _, err := f.bridge.Complete(ctx, "ABC", "", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument for state, got %v", err)
		}
		if _, err := f.bridge.Complete(ctx, "", "U1", ""); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument for code, got %v", err)
		}
		if f.bridge.Status(ctx, "U1") {
			t.Error("session must stay pending")
		}
	})

	t.Run("Provider Denied Consent", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.bridge.Initiate(ctx, "U1", "")

		if _, err := f.bridge.Complete(ctx, "", "U1", "access_denied"); !errors.Is(err, shared.ErrAuthDenied) {
			t.Errorf("expected ErrAuthDenied, got %v", err)
		}
		if exchanges, _ := f.provider.Calls(); exchanges != 0 {
			t.Error("no exchange after denial")
		}
	})

	failures := []struct {
		name  string
		setup func(p *tu.FakeProvider)
	}{
		{name: "exchange error", setup: func(p *tu.FakeProvider) { p.ExchangeErr = errors.New("invalid_grant") }},
		{name: "empty access token", setup: func(p *tu.FakeProvider) { p.Token = &oauth2.Token{RefreshToken: "r"} }},
		{name: "nil token", setup: func(p *tu.FakeProvider) { p.Token = nil }},
	}
	for _, tc := range failures {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, Options{})
			f.bridge.Initiate(ctx, "U1", "")
			tc.setup(f.provider)

			if _, err := f.bridge.Complete(ctx, "ABC", "U1", ""); !errors.Is(err, shared.ErrExchangeFailed) {
				t.Errorf("expected ErrExchangeFailed, got %v", err)
			}

			s, _ := f.store.Get(ctx, "U1")
			if s.State != models.StatePending || s.AccessToken != "" || s.RefreshToken != "" {
				t.Errorf("failed exchange must leave the session untouched: %+v", s)
			}
			if exchanges, _ := f.provider.Calls(); exchanges != 1 {
				t.Errorf("exchange must not be retried, got %d attempts", exchanges)
			}
		})
	}

	t.Run("Failed Re-Authorization Keeps Previous Tokens", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")

		f.provider.ExchangeErr = errors.New("boom")
		if _, err := f.bridge.Complete(ctx, "XYZ", "U1", ""); !errors.Is(err, shared.ErrExchangeFailed) {
			t.Fatalf("expected ErrExchangeFailed, got %v", err)
		}
		if !f.bridge.Status(ctx, "U1") {
			t.Error("connected session should survive a failed second exchange")
		}
	})

	t.Run("Warm-Up Failure Is Swallowed", func(t *testing.T) {
		f := newFixture(t, Options{Warmup: true})
		f.provider.PlayingErr = errors.New("upstream down")
		f.bridge.Initiate(ctx, "U1", "")

		if _, err := f.bridge.Complete(ctx, "ABC", "U1", ""); err != nil {
			t.Fatalf("Complete() = %v", err)
		}
		if _, reads := f.provider.Calls(); reads != 1 {
			t.Errorf("expected one warm-up read, got %d", reads)
		}
		if !f.bridge.Status(ctx, "U1") {
			t.Error("warm-up failure must not affect connected state")
		}
		s, _ := f.store.Get(ctx, "U1")
		if s.LastSeen != nil {
			t.Error("warm-up must not record last_seen")
		}
	})

	t.Run("No Warm-Up When Disabled", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")
		if _, reads := f.provider.Calls(); reads != 0 {
			t.Errorf("expected no reads, got %d", reads)
		}
	})
}

func TestStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Options{})

	if f.bridge.Status(ctx, "nobody") {
		t.Error("unknown identifier should not be connected")
	}

	f.bridge.Initiate(ctx, "pending", "")
	if f.bridge.Status(ctx, "pending") {
		t.Error("pending identifier should not be connected")
	}

	f.connect(t, "done")
	if !f.bridge.Status(ctx, "done") {
		t.Error("connected identifier should be connected")
	}
}

func TestNowPlaying(t *testing.T) {
	ctx := context.Background()

	t.Run("Active Item", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")
		f.provider.Playing = &models.NowPlaying{Track: "Song X", Artist: "Artist Y", ProgressMS: 1000, DurationMS: 200000, IsPlaying: true}

		np, err := f.bridge.NowPlaying(ctx, "U1")
		if err != nil {
			t.Fatalf("NowPlaying() = %v", err)
		}
		if *np != *f.provider.Playing {
			t.Errorf("NowPlaying() = %+v, want %+v", np, f.provider.Playing)
		}
		if got := f.provider.BearerTokens[len(f.provider.BearerTokens)-1]; got != "access-token" {
			t.Errorf("stored access token should be used, got %q", got)
		}

		s, _ := f.store.Get(ctx, "U1")
		if s.LastSeen == nil || !s.LastSeen.Equal(now) {
			t.Errorf("LastSeen = %v, want %v", s.LastSeen, now)
		}
	})

	t.Run("Idle Is Nothing Playing", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")

		if _, err := f.bridge.NowPlaying(ctx, "U1"); !errors.Is(err, shared.ErrNothingPlaying) {
			t.Errorf("expected ErrNothingPlaying, got %v", err)
		}
		s, _ := f.store.Get(ctx, "U1")
		if s.LastSeen != nil {
			t.Error("idle poll must not record last_seen")
		}
	})

	t.Run("Upstream Failure Collapses", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")
		f.provider.PlayingErr = shared.ErrTokenExpired

		_, err := f.bridge.NowPlaying(ctx, "U1")
		if !errors.Is(err, shared.ErrNothingPlaying) {
			t.Errorf("expected ErrNothingPlaying, got %v", err)
		}
		if errors.Is(err, shared.ErrNotConnected) {
			t.Error("upstream failure must not look like a missing session")
		}
		if !strings.Contains(f.logs.String(), "upstream read failed") {
			t.Error("collapsed failure should be logged")
		}
	})

	t.Run("Unknown And Pending Are Not Connected", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.bridge.Initiate(ctx, "pending", "")

		for _, id := range []string{"UNKNOWN", "pending"} {
			if _, err := f.bridge.NowPlaying(ctx, id); !errors.Is(err, shared.ErrNotConnected) {
				t.Errorf("%s: expected ErrNotConnected, got %v", id, err)
			}
		}
		if _, reads := f.provider.Calls(); reads != 0 {
			t.Error("provider must not be called without a token")
		}
	})

	t.Run("Missing Identifier", func(t *testing.T) {
		f := newFixture(t, Options{})
		if _, err := f.bridge.NowPlaying(ctx, ""); !errors.Is(err, shared.ErrInvalidIdentifier) {
			t.Errorf("expected ErrInvalidIdentifier, got %v", err)
		}
	})

	t.Run("Malformed Identifier Is Not Connected", func(t *testing.T) {
		f := newFixture(t, Options{})
		for _, id := range []string{"a b", strings.Repeat("x", 257)} {
			if _, err := f.bridge.NowPlaying(ctx, id); !errors.Is(err, shared.ErrNotConnected) {
				t.Errorf("NowPlaying(%q): expected ErrNotConnected, got %v", id, err)
			}
			if _, err := f.bridge.Devices(ctx, id); !errors.Is(err, shared.ErrNotConnected) {
				t.Errorf("Devices(%q): expected ErrNotConnected, got %v", id, err)
			}
		}
	})
}

func TestDevices(t *testing.T) {
	ctx := context.Background()

	t.Run("Passthrough", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")
		f.provider.DeviceList = []byte(`{"devices":[]}`)

		raw, err := f.bridge.Devices(ctx, "U1")
		if err != nil {
			t.Fatalf("Devices() = %v", err)
		}
		if string(raw) != `{"devices":[]}` {
			t.Errorf("Devices() = %s", raw)
		}
	})

	t.Run("Upstream Failure Collapses", func(t *testing.T) {
		f := newFixture(t, Options{})
		f.connect(t, "U1")
		f.provider.DevicesErr = shared.ErrAPIRequest

		if _, err := f.bridge.Devices(ctx, "U1"); !errors.Is(err, shared.ErrNothingPlaying) {
			t.Errorf("expected ErrNothingPlaying, got %v", err)
		}
	})

	t.Run("Not Connected", func(t *testing.T) {
		f := newFixture(t, Options{})
		if _, err := f.bridge.Devices(ctx, "U1"); !errors.Is(err, shared.ErrNotConnected) {
			t.Errorf("expected ErrNotConnected, got %v", err)
		}
	})
}

func TestValidateAvatar(t *testing.T) {
	if err := ValidateAvatar("", false); err != nil {
		t.Errorf("optional empty avatar should pass, got %v", err)
	}
	if err := ValidateAvatar("6BA7B810-9DAD-11D1-80B4-00C04FD430C8", true); err != nil {
		t.Errorf("upper-case UUID should pass, got %v", err)
	}
	if err := ValidateAvatar("6ba7b8109dad11d180b400c04fd430c8", false); !errors.Is(err, shared.ErrInvalidProof) {
		t.Errorf("hyphenless UUID should be rejected, got %v", err)
	}
}
