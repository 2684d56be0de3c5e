package cart

import (
	"sync"
	"time"

	"github.com/ikkim/tene-backend/pkg/logger"
)

// PersistenceFactory builds the persistence for one session's cart
type PersistenceFactory func(sessionID string) Persistence

type registryEntry struct {
	store      *Store
	lastAccess time.Time
	inUse      int // open Acquire handles; pinned entries are never evicted
}

// Registry hands out one Store per shopper session, hydrating lazily.
// Idle stores can be evicted; their state is already persisted.
type Registry struct {
	mu       sync.Mutex
	entries  map[string]*registryEntry
	factory  PersistenceFactory
	onCreate []func(sessionID string, store *Store)
	now      func() time.Time
}

type RegistryOption func(*Registry)

// WithClock overrides time.Now, for tests
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

func NewRegistry(factory PersistenceFactory, opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[string]*registryEntry),
		factory: factory,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnCreate runs fn for every store the registry hydrates from now on
func (r *Registry) OnCreate(fn func(sessionID string, store *Store)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onCreate = append(r.onCreate, fn)
}

// Get returns the session's store, hydrating it on first use. The store is
// not pinned; use Acquire when it is held across a request.
func (r *Registry) Get(sessionID string) *Store {
	return r.load(sessionID, false)
}

// Acquire returns the session's store pinned against eviction until release
// is called. release is safe to call more than once.
func (r *Registry) Acquire(sessionID string) (store *Store, release func()) {
	store = r.load(sessionID, true)

	var once sync.Once
	return store, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if e, ok := r.entries[sessionID]; ok && e.store == store {
				e.inUse--
				e.lastAccess = r.now()
			}
		})
	}
}

func (r *Registry) load(sessionID string, pin bool) *Store {
	r.mu.Lock()
	if e, ok := r.entries[sessionID]; ok {
		e.lastAccess = r.now()
		if pin {
			e.inUse++
		}
		r.mu.Unlock()
		return e.store
	}

	store := NewStore(r.factory(sessionID))
	e := &registryEntry{store: store, lastAccess: r.now()}
	if pin {
		e.inUse = 1
	}
	r.entries[sessionID] = e
	hooks := append([]func(string, *Store){}, r.onCreate...)
	r.mu.Unlock()

	logger.Debug("Cart hydrated for session", map[string]interface{}{
		"session_id": sessionID,
		"items":      len(store.Items()),
	})
	for _, fn := range hooks {
		fn(sessionID, store)
	}
	return store
}

// Peek returns the session's store without hydrating or touching it
func (r *Registry) Peek(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		return nil, false
	}
	return e.store, true
}

// EvictIdle drops unpinned stores not accessed within ttl and returns how many went
func (r *Registry) EvictIdle(ttl time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	evicted := 0
	for id, e := range r.entries {
		if e.inUse == 0 && e.lastAccess.Before(cutoff) {
			delete(r.entries, id)
			evicted++
		}
	}
	return evicted
}

// Len is the number of stores held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
