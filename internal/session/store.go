package session

import (
	"context"
	"sync"
	"time"

	"autopost/internal/model"
)

const DefaultTTL = 24 * time.Hour

type Store interface {
	Get(ctx context.Context, id string) (model.AuthSession, error)
	Save(ctx context.Context, id string, s model.AuthSession) error
}

type entry struct {
	session  model.AuthSession
	lastSeen time.Time
}

// MemoryStore keeps sessions in process memory. A session idle for longer
// than the TTL reads back empty.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (model.AuthSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return model.AuthSession{}, nil
	}
	if m.now().Sub(e.lastSeen) > m.ttl {
		delete(m.entries, id)
		return model.AuthSession{}, nil
	}

	e.lastSeen = m.now()
	m.entries[id] = e
	return e.session, nil
}

func (m *MemoryStore) Save(ctx context.Context, id string, s model.AuthSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[id] = entry{session: s, lastSeen: m.now()}
	m.sweep()
	return nil
}

// sweep drops expired sessions; callers hold mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for id, e := range m.entries {
		if now.Sub(e.lastSeen) > m.ttl {
			delete(m.entries, id)
		}
	}
}
