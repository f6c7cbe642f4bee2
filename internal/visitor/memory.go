package visitor

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/quizdeck/backend/internal/domain/progress"
)

// MemoryStore keeps visitor state in process memory. Expired entries are
// invisible to Get and removed by Sweep.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
	expires map[string]time.Time
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string][]byte),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Entries are stored serialized so callers never share a Progress with the store.
func (m *MemoryStore) Get(_ context.Context, token string) (*progress.Progress, error) {
	m.mu.RLock()
	data, ok := m.entries[token]
	exp := m.expires[token]
	m.mu.RUnlock()

	if !ok || (!exp.IsZero() && m.now().After(exp)) {
		return nil, ErrNotFound
	}

	var p progress.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *MemoryStore) Save(_ context.Context, p *progress.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[p.Token] = data
	m.expires[p.Token] = p.ExpiresAt
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, token)
	delete(m.expires, token)
	return nil
}

// Sweep removes every entry expired at now and returns how many were removed.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for token, exp := range m.expires {
		if !exp.IsZero() && now.After(exp) {
			delete(m.entries, token)
			delete(m.expires, token)
			removed++
		}
	}
	return removed
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
