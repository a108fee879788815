package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repository used by tests and local tooling.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]Session
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Session)}
}

func (m *MemoryRepo) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.NewString()
	s.LastAccessedAt = s.CreatedAt
	m.rows[s.ID] = *s
	return nil
}

func (m *MemoryRepo) GetByTokenHash(_ context.Context, tokenHash string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.TokenHash == tokenHash {
			return s, nil
		}
	}
	return Session{}, ErrNotFound
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryRepo) ListByUserID(_ context.Context, userID string) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.rows {
		if s.UserID == userID && s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAccessedAt.After(out[j].LastAccessedAt) })
	return out, nil
}

func (m *MemoryRepo) Touch(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[id]; ok {
		s.LastAccessedAt = at
		m.rows[id] = s
	}
	return nil
}

func (m *MemoryRepo) Deactivate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[id]; ok {
		s.IsActive = false
		m.rows[id] = s
	}
	return nil
}

func (m *MemoryRepo) DeactivateAllForUser(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.rows {
		if s.UserID == userID && s.IsActive {
			s.IsActive = false
			m.rows[id] = s
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) ExtendActive(_ context.Context, id string, expiresAt, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[id]
	if !ok || !s.ValidAt(now) {
		return false, nil
	}
	s.ExpiresAt = expiresAt
	m.rows[id] = s
	return true, nil
}

func (m *MemoryRepo) DeleteInvalid(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.rows {
		if s.ExpiresAt.Before(now) || !s.IsActive {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored rows, valid or not.
func (m *MemoryRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
