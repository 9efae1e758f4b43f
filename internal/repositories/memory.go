package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/slbridge/internal/models"
	"github.com/desertthunder/slbridge/internal/shared"
)

// MemoryStore is a thread-safe in-memory [SessionStore].
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// NewMemoryStore creates an empty [MemoryStore].
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.Session)}
}

func (m *MemoryStore) Begin(_ context.Context, s *models.Session) error {
	if s == nil {
		return fmt.Errorf("%w: nil session", shared.ErrInvalidInput)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[s.Identifier] = s.Clone()
	return nil
}

func (m *MemoryStore) Get(_ context.Context, identifier string) (*models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[identifier]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Connect(_ context.Context, identifier, access, refresh string, at time.Time) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[identifier]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}

	next := s.Clone()
	if err := next.Connect(access, refresh, at); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrMissingToken, err)
	}

	m.sessions[identifier] = next
	return next.Clone(), nil
}

func (m *MemoryStore) Touch(_ context.Context, identifier string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[identifier]
	if !ok {
		return shared.ErrSessionNotFound
	}
	s.Touch(at)
	return nil
}

func (m *MemoryStore) Count(context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions), nil
}

// Close drops every session.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.sessions)
	return nil
}
