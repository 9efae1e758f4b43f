package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/slbridge/internal/models"
	"github.com/desertthunder/slbridge/internal/shared"
)

// SessionStore persists authorization sessions for the lifetime of the process.
type SessionStore interface {
	// Begin stores s, replacing any record with the same identifier.
	Begin(ctx context.Context, s *models.Session) error

	// Get returns a copy of the session for identifier or [shared.ErrSessionNotFound].
	Get(ctx context.Context, identifier string) (*models.Session, error)

	// Connect records tokens for an existing session and marks it connected.
	// Returns [shared.ErrSessionNotFound] without creating anything when the identifier is unknown.
	Connect(ctx context.Context, identifier, access, refresh string, at time.Time) (*models.Session, error)

	// Touch updates last_seen for an existing session.
	Touch(ctx context.Context, identifier string, at time.Time) error

	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int, error)

	// Close releases resources; the data is gone afterwards.
	Close() error
}

var (
	_ SessionStore = (*MemoryStore)(nil)
	_ SessionStore = (*SQLiteStore)(nil)
)

// NewSessionStore builds the backend named by driver ("memory" or "sqlite").
func NewSessionStore(driver string) (SessionStore, error) {
	switch driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore()
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", shared.ErrInvalidConfig, driver)
	}
}
