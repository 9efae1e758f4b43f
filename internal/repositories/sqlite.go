package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/slbridge/internal/models"
	"github.com/desertthunder/slbridge/internal/shared"
)

// SQLiteStore is a [SessionStore] backed by a private in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a fresh in-memory database with the session schema.
func NewSQLiteStore() (*SQLiteStore, error) {
	db, err := shared.NewMemoryDatabase()
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (r *SQLiteStore) Begin(ctx context.Context, s *models.Session) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", shared.ErrInvalidInput)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO sessions (identifier, avatar, state, access_token, refresh_token, created_at, connected_at, last_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET
			avatar = excluded.avatar,
			state = excluded.state,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			created_at = excluded.created_at,
			connected_at = excluded.connected_at,
			last_seen = excluded.last_seen
	`

	_, err := r.db.ExecContext(ctx, query,
		s.Identifier, s.Avatar, string(s.State), s.AccessToken, s.RefreshToken,
		s.CreatedAt, nullTime(s.ConnectedAt), nullTime(s.LastSeen),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (r *SQLiteStore) Get(ctx context.Context, identifier string) (*models.Session, error) {
	query := `
		SELECT identifier, avatar, state, access_token, refresh_token, created_at, connected_at, last_seen
		FROM sessions
		WHERE identifier = ?
	`

	var (
		s           models.Session
		state       string
		connectedAt sql.NullTime
		lastSeen    sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, identifier).Scan(
		&s.Identifier, &s.Avatar, &state, &s.AccessToken, &s.RefreshToken, &s.CreatedAt, &connectedAt, &lastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	s.State = models.State(state)
	if connectedAt.Valid {
		s.ConnectedAt = &connectedAt.Time
	}
	if lastSeen.Valid {
		s.LastSeen = &lastSeen.Time
	}
	return &s, nil
}

func (r *SQLiteStore) Connect(ctx context.Context, identifier, access, refresh string, at time.Time) (*models.Session, error) {
	if access == "" {
		return nil, fmt.Errorf("%w: connect %s", shared.ErrMissingToken, identifier)
	}

	query := `
		UPDATE sessions
		SET state = ?, access_token = ?, refresh_token = ?, connected_at = ?
		WHERE identifier = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(models.StateConnected), access, refresh, at, identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to connect session: %w", err)
	}
	if err := requireRow(result); err != nil {
		return nil, err
	}

	return r.Get(ctx, identifier)
}

func (r *SQLiteStore) Touch(ctx context.Context, identifier string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, "UPDATE sessions SET last_seen = ? WHERE identifier = ?", at, identifier)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return requireRow(result)
}

func (r *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}

// Close closes the database, discarding every session.
func (r *SQLiteStore) Close() error {
	return r.db.Close()
}

func requireRow(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return shared.ErrSessionNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
