package cart

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Store persists carts by session id. Implementations must keep an index
// of sessions by UpdatedAt for the idle sweep.
type Store interface {
	// Load returns the cart, or ok=false when the session has none.
	Load(ctx context.Context, sessionID string) (cart *Cart, ok bool, err error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID string) error
	// ListIdle returns up to limit session ids last updated at or before cutoff.
	ListIdle(ctx context.Context, cutoff time.Time, limit int) ([]string, error)
}

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string]*Cart{}}
}

func (m *MemoryStore) Load(_ context.Context, sessionID string) (*Cart, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cart, ok := m.carts[sessionID]
	if !ok {
		return nil, false, nil
	}
	return cart.clone(), true, nil
}

func (m *MemoryStore) Save(_ context.Context, cart *Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.SessionID] = cart.clone()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, sessionID)
	return nil
}

func (m *MemoryStore) ListIdle(_ context.Context, cutoff time.Time, limit int) ([]string, error) {
	m.mu.RLock()
	type entry struct {
		id        string
		updatedAt time.Time
	}
	idle := []entry{}
	for id, cart := range m.carts {
		if !cart.UpdatedAt.After(cutoff) {
			idle = append(idle, entry{id: id, updatedAt: cart.UpdatedAt})
		}
	}
	m.mu.RUnlock()

	sort.Slice(idle, func(i, j int) bool {
		return idle[i].updatedAt.Before(idle[j].updatedAt)
	})
	if limit > 0 && len(idle) > limit {
		idle = idle[:limit]
	}
	ids := make([]string, 0, len(idle))
	for _, e := range idle {
		ids = append(ids, e.id)
	}
	return ids, nil
}
