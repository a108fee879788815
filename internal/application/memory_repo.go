package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-process Repository with the same compare-and-swap
// semantics as PostgresRepo.
type MemoryRepo struct {
	mu   sync.Mutex
	rows map[string]Application
	now  func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Application), now: time.Now}
}

func (m *MemoryRepo) Create(_ context.Context, a *Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a.ID = uuid.NewString()
	a.CreatedAt = m.now()
	a.UpdatedAt = a.CreatedAt
	m.rows[a.ID] = *a
	return nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryRepo) List(_ context.Context, q Query) ([]Application, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(q.Q)
	matched := []Application{}
	for _, a := range m.rows {
		if len(q.Statuses) > 0 && !containsStatus(q.Statuses, a.Status) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(a.FullName+" "+a.Email+" "+a.CompanyName), needle) {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := min(q.Offset, total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

func (m *MemoryRepo) UpdateStatus(_ context.Context, id string, from string, to Status, notes *string) (Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return Application{}, ErrNotFound
	}
	if string(a.Status) != from {
		return Application{}, ErrConcurrentUpdate
	}
	a.Status = to
	if notes != nil {
		a.AdminNotes = *notes
	}
	a.UpdatedAt = m.now()
	m.rows[id] = a
	return a, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *MemoryRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, a := range m.rows {
		counts[string(a.Status)]++
	}
	return counts, nil
}

func containsStatus(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
