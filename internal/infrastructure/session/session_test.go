package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/revtickets/portal/internal/core/domain"
)

var ana = domain.UserIdentity{Name: "Ana", Email: "ana@example.com", Phone: "555", Role: domain.RoleUser}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, ok := s.Get(ctx); ok {
		t.Fatalf("new store must be empty")
	}
	if _, ok := s.Identity(ctx); ok {
		t.Fatalf("new store must have no identity")
	}

	if err := s.Set(ctx, "abc123", ana); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tok, ok := s.Get(ctx); !ok || tok != "abc123" {
		t.Fatalf("unexpected token %q", tok)
	}

	if err := s.Set(ctx, "def456", domain.UserIdentity{Name: "Bo", Email: "bo@example.com", Role: domain.RoleAdmin}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if tok, _ := s.Get(ctx); tok != "def456" {
		t.Fatalf("set must overwrite, got %q", tok)
	}
	if id, _ := s.Identity(ctx); id.Role != domain.RoleAdmin {
		t.Fatalf("identity not overwritten: %+v", id)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := s.Get(ctx); ok {
		t.Fatalf("token survived clear")
	}
	if _, ok := s.Identity(ctx); ok {
		t.Fatalf("identity survived clear")
	}
}

func TestMemoryStore_IdentityIsACopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "abc123", ana)

	id, _ := s.Identity(ctx)
	id.Role = domain.RoleAdmin

	again, _ := s.Identity(ctx)
	if again.Role != domain.RoleUser {
		t.Fatalf("stored identity was mutated through a snapshot")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = s.Set(ctx, "abc123", ana)
		}()
		go func() {
			defer wg.Done()
			if tok, ok := s.Get(ctx); ok && tok != "abc123" {
				t.Errorf("torn read: %q", tok)
			}
		}()
	}
	wg.Wait()
}

func TestMemoryRegistry_IsolatesSessions(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry(time.Hour)

	if err := r.Store("a").Set(ctx, "token-a", ana); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := r.Store("b").Get(ctx); ok {
		t.Fatalf("session b sees session a's token")
	}
	if tok, _ := r.Store("a").Get(ctx); tok != "token-a" {
		t.Fatalf("session a lost its token")
	}
	if r.Len() != 1 {
		t.Fatalf("expected only the written session to be tracked, got %d", r.Len())
	}
}

func TestMemoryRegistry_LookupDoesNotAllocate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry(time.Hour)

	for i := 0; i < 1000; i++ {
		s := r.Store(fmt.Sprintf("anon-%d", i))
		if _, ok := s.Get(ctx); ok {
			t.Fatalf("anonymous session has a token")
		}
		if _, ok := s.Identity(ctx); ok {
			t.Fatalf("anonymous session has an identity")
		}
		_ = s.Clear(ctx)
	}
	if r.Len() != 0 {
		t.Fatalf("expected no retained sessions, got %d", r.Len())
	}
}

func TestMemoryRegistry_ClearRemovesEntry(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRegistry(time.Hour)
	s := r.Store("a")

	_ = s.Set(ctx, "token-a", ana)
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("entry survived clear")
	}
	if _, ok := s.Get(ctx); ok {
		t.Fatalf("token survived clear")
	}
}

func TestMemoryRegistry_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRegistry(time.Hour)
	r.now = func() time.Time { return clock }

	_ = r.Store("a").Set(ctx, "token-a", ana)
	_ = r.Store("b").Set(ctx, "token-b", ana)

	clock = clock.Add(59 * time.Minute)
	if tok, ok := r.Store("a").Get(ctx); !ok || tok != "token-a" {
		t.Fatalf("session expired early")
	}

	clock = clock.Add(time.Minute)
	if _, ok := r.Store("a").Get(ctx); ok {
		t.Fatalf("expired token still served")
	}
	if _, ok := r.Store("b").Identity(ctx); ok {
		t.Fatalf("expired identity still served")
	}
	if r.Len() != 0 {
		t.Fatalf("expired entries not dropped on read, %d left", r.Len())
	}
}

func TestMemoryRegistry_SweepOnWrite(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRegistry(time.Hour)
	r.now = func() time.Time { return clock }

	for i := 0; i < 10; i++ {
		_ = r.Store(fmt.Sprintf("old-%d", i)).Set(ctx, "t", ana)
	}

	clock = clock.Add(2 * time.Hour)
	_ = r.Store("fresh").Set(ctx, "t", ana)

	if r.Len() != 1 {
		t.Fatalf("expected only the fresh session after sweep, got %d", r.Len())
	}
	if n := r.Sweep(); n != 0 {
		t.Fatalf("nothing left to sweep, swept %d", n)
	}
}

func TestContextStore(t *testing.T) {
	ctx := context.Background()
	var cs ContextStore

	if _, ok := cs.Get(ctx); ok {
		t.Fatalf("context without store must have no token")
	}
	if err := cs.Set(ctx, "x", ana); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated writing without a session, got %v", err)
	}
	if err := cs.Clear(ctx); err != nil {
		t.Fatalf("clear without session must succeed, got %v", err)
	}

	bound := NewMemoryStore()
	ctx = WithStore(ctx, bound)
	if err := cs.Set(ctx, "abc123", ana); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tok, ok := bound.Get(ctx); !ok || tok != "abc123" {
		t.Fatalf("write did not reach bound store")
	}
	if id, ok := cs.Identity(ctx); !ok || id.Email != ana.Email {
		t.Fatalf("identity not read through context")
	}
}
