package session

import (
	"context"
	"sync"
	"time"

	"github.com/Domenick1991/dirabasi/internal/domain"
)

// Store persists selections per session id. Update must apply fn atomically with respect to
// other updates of the same session; when fn returns an error nothing is written.
type Store interface {
	Load(ctx context.Context, sid string) (domain.Selection, error)
	Update(ctx context.Context, sid string, fn func(*domain.Selection) error) (domain.Selection, error)
	Delete(ctx context.Context, sid string) error
}

type memoryEntry struct {
	selection domain.Selection
	touched   time.Time
}

// MemoryStore keeps selections in process memory; entries idle longer than ttl are dropped lazily.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, sid string) (domain.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(sid)
	if !ok {
		return domain.Selection{}, nil
	}
	return clone(e.selection), nil
}

func (m *MemoryStore) Update(_ context.Context, sid string, fn func(*domain.Selection) error) (domain.Selection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, _ := m.live(sid)
	next := clone(e.selection)
	if err := fn(&next); err != nil {
		return domain.Selection{}, err
	}
	m.entries[sid] = memoryEntry{selection: next, touched: m.now()}
	return clone(next), nil
}

func (m *MemoryStore) Delete(_ context.Context, sid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sid)
	return nil
}

// live must be called with mu held.
func (m *MemoryStore) live(sid string) (memoryEntry, bool) {
	e, ok := m.entries[sid]
	if !ok {
		return memoryEntry{}, false
	}
	if m.ttl > 0 && m.now().Sub(e.touched) > m.ttl {
		delete(m.entries, sid)
		return memoryEntry{}, false
	}
	return e, true
}

var _ Store = (*MemoryStore)(nil)
