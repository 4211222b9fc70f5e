package snapshot

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps snapshots in process memory. It is the dev
// server's default store.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string]*Snapshot
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snaps: make(map[string]*Snapshot)}
}

// Save implements Store.
func (m *MemoryStore) Save(ctx context.Context, snap *Snapshot) (string, error) {
	stored := *snap
	stored.ID = newID()
	if stored.TakenAt.IsZero() {
		stored.TakenAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.snaps[stored.ID] = &stored
	m.mu.Unlock()

	snap.ID = stored.ID
	return stored.ID, nil
}

// Get implements Store.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap, ok := m.snaps[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *snap
	return &copied, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snaps, id)
	return nil
}

// Len returns the number of stored snapshots.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.snaps)
}
