package session

import (
	"context"
	"sync"
	"time"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// MemoryRegistry keeps signed-in sessions in process memory. Suitable for a
// single portal instance.
//
// A session only takes memory once something is stored in it. Entries expire
// SESSION_TTL after their last Set, are removed on Clear, and expired entries
// are swept on write.
type MemoryRegistry struct {
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	entries   map[string]*memoryEntry
	lastSweep time.Time
}

type memoryEntry struct {
	token     domain.Credential
	identity  domain.UserIdentity
	expiresAt time.Time
}

func NewMemoryRegistry(ttl time.Duration) *MemoryRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &MemoryRegistry{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*memoryEntry),
	}
}

// Store returns the store for sessionID. Looking a session up never
// allocates an entry.
func (r *MemoryRegistry) Store(sessionID string) ports.CredentialStore {
	return &memorySession{registry: r, id: sessionID}
}

func (r *MemoryRegistry) Ping(_ context.Context) error {
	return nil
}

// Len reports how many sessions hold credentials, expired ones included
// until the next sweep.
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops every expired entry and reports how many went.
func (r *MemoryRegistry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sweepLocked(r.now())
}

func (r *MemoryRegistry) sweepLocked(now time.Time) int {
	n := 0
	for id, e := range r.entries {
		if !now.Before(e.expiresAt) {
			delete(r.entries, id)
			n++
		}
	}
	r.lastSweep = now
	return n
}

// lookup returns a copy of the live entry for id. Expired entries are
// dropped on the spot.
func (r *MemoryRegistry) lookup(id string) (memoryEntry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !r.now().Before(e.expiresAt) {
		delete(r.entries, id)
		return memoryEntry{}, false
	}
	return *e, true
}

func (r *MemoryRegistry) set(id string, token domain.Credential, identity domain.UserIdentity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	// A full pass at most once per TTL keeps writes cheap.
	if now.Sub(r.lastSweep) >= r.ttl {
		r.sweepLocked(now)
	}
	r.entries[id] = &memoryEntry{token: token, identity: identity, expiresAt: now.Add(r.ttl)}
}

func (r *MemoryRegistry) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// memorySession is the CredentialStore view of one registry entry.
type memorySession struct {
	registry *MemoryRegistry
	id       string
}

func (s *memorySession) Get(_ context.Context) (domain.Credential, bool) {
	e, ok := s.registry.lookup(s.id)
	if !ok || e.token == "" {
		return "", false
	}
	return e.token, true
}

func (s *memorySession) Identity(_ context.Context) (*domain.UserIdentity, bool) {
	e, ok := s.registry.lookup(s.id)
	if !ok {
		return nil, false
	}
	id := e.identity
	return &id, true
}

func (s *memorySession) Set(_ context.Context, token domain.Credential, identity domain.UserIdentity) error {
	s.registry.set(s.id, token, identity)
	return nil
}

func (s *memorySession) Clear(_ context.Context) error {
	s.registry.remove(s.id)
	return nil
}
