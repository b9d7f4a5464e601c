// Package session holds credential stores and the plumbing that binds a store
// to a browser session.
package session

import (
	"context"
	"sync"

	"github.com/revtickets/portal/internal/core/domain"
)

// MemoryStore is a process-wide credential store. Reads and writes are atomic
// with respect to each other; token and identity always change together.
type MemoryStore struct {
	mu       sync.RWMutex
	token    domain.Credential
	identity *domain.UserIdentity
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Identity returns a copy so callers cannot mutate the stored snapshot.
func (s *MemoryStore) Identity(_ context.Context) (*domain.UserIdentity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil, false
	}
	id := *s.identity
	return &id, true
}

func (s *MemoryStore) Set(_ context.Context, token domain.Credential, identity domain.UserIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.identity = &identity
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.identity = nil
	return nil
}
