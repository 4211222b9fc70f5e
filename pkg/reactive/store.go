package reactive

import "sync"

// depList holds the computations subscribed to one (store, key) pair.
// It is created lazily on first tracked read and survives for the life
// of the store, even while empty.
type depList struct {
	// subs are the computations subscribed to this key, in
	// subscription order. Trigger order follows this order.
	subs []*Computation

	// subMu protects the subs slice.
	subMu sync.RWMutex
}

// subscribe adds a computation to this key's subscribers.
// Deduplicates by computation ID so reading the same key twice within
// one run registers the dependency once.
func (d *depList) subscribe(c *Computation) {
	if c == nil {
		return
	}

	d.subMu.Lock()
	defer d.subMu.Unlock()

	cid := c.ID()
	for _, existing := range d.subs {
		if existing.ID() == cid {
			return
		}
	}

	d.subs = append(d.subs, c)
}

// unsubscribe removes a computation from this key's subscribers.
// Removal preserves the order of the remaining subscribers: triggering
// follows subscription order, so a swap-remove would reorder survivors.
func (d *depList) unsubscribe(c *Computation) {
	if c == nil {
		return
	}

	d.subMu.Lock()
	defer d.subMu.Unlock()

	cid := c.ID()
	for i, existing := range d.subs {
		if existing.ID() == cid {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// trigger re-runs every subscriber, synchronously, in subscription
// order. The list is snapshotted first so re-entrant subscribes and
// unsubscribes during a rerun cannot corrupt the iteration.
func (d *depList) trigger() {
	d.subMu.RLock()
	subs := make([]*Computation, len(d.subs))
	copy(subs, d.subs)
	d.subMu.RUnlock()

	for _, c := range subs {
		c.rerun()
	}
}

// Store is a reactive key/value container. External code reads and
// writes through Get and Set; every access passes through dependency
// tracking, which is what makes the container reactive. Values are
// stored shallowly: a map or struct assigned as a value is not itself
// made reactive.
type Store struct {
	id uint64

	mu     sync.RWMutex
	values map[string]any

	// deps maps keys to their subscriber lists. A key gains an entry
	// on first tracked read, possibly before it holds a value, so a
	// later first write can trigger dependents that read the absent
	// key.
	depsMu sync.Mutex
	deps   map[string]*depList
}

// NewStore creates a Store seeded with the given initial values.
// A nil initial map is allowed and yields an empty store.
func NewStore(initial map[string]any) *Store {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Store{
		id:     nextID(),
		values: values,
		deps:   make(map[string]*depList),
	}
}

// depsFor returns the subscriber list for key, creating it if needed.
func (s *Store) depsFor(key string) *depList {
	s.depsMu.Lock()
	defer s.depsMu.Unlock()

	d, ok := s.deps[key]
	if !ok {
		d = &depList{}
		s.deps[key] = d
	}
	return d
}

// Get returns the value stored under key, or nil if the key is absent.
// If a computation is running on this goroutine, it is subscribed to
// the key; an absent key still participates, so the first write to it
// will trigger the subscriber.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	value := s.values[key]
	s.mu.RUnlock()

	if c := currentComputation(); c != nil {
		d := s.depsFor(key)
		d.subscribe(c)
		c.addSource(d)
	}

	return value
}

// Peek returns the value under key without subscribing the current
// computation. Useful for reads that must not create a dependency.
func (s *Store) Peek(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// Has reports whether key currently holds a value. Has does not track.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Keys returns the keys currently holding values, in no particular
// order. Keys does not track.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Set stores value under key, then synchronously re-runs every
// computation subscribed to the key. With no subscribers, Set only
// stores. The reruns happen inside this call: a rerun that writes
// further keys triggers those subscribers before Set returns.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	s.depsMu.Lock()
	d := s.deps[key]
	s.depsMu.Unlock()

	if d != nil {
		d.trigger()
	}
}

// Delete removes key from the store and triggers its subscribers, which
// will observe the key as absent on their rerun.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	_, existed := s.values[key]
	delete(s.values, key)
	s.mu.Unlock()

	if !existed {
		return
	}

	s.depsMu.Lock()
	d := s.deps[key]
	s.depsMu.Unlock()

	if d != nil {
		d.trigger()
	}
}

// ID returns the unique identifier for this store.
func (s *Store) ID() uint64 {
	return s.id
}
