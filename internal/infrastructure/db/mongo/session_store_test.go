package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/core/domain"
)

func TestMongoSession_Mapping(t *testing.T) {
	expires := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := domain.UserIdentity{Name: "Ana", Email: "ana@example.com", Phone: "555", Role: domain.RoleAdmin}

	doc := toMongoSession("sid", "tok", u, expires)
	if doc.ID != "sid" || doc.Token != "tok" || !doc.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Identity.Role != "ADMIN" {
		t.Fatalf("expected ADMIN role, got %s", doc.Identity.Role)
	}

	back := doc.identity()
	if *back != u {
		t.Fatalf("identity did not survive mapping: %+v", back)
	}
}

// Requires a running MongoDB; set MONGO_URI to enable.
func TestSessionStore_RoundTrip(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "portal_test"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer Disconnect(client, 5*time.Second)

	reg := NewSessionRegistry(db, time.Minute, zerolog.Nop())
	if err := reg.EnsureIndexes(ctx); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	store := reg.Store(uuid.NewString())

	if err := store.Set(ctx, "abc123", domain.UserIdentity{Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if tok, ok := store.Get(ctx); !ok || tok != "abc123" {
		t.Fatalf("unexpected token %q %v", tok, ok)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok := store.Identity(ctx); ok {
		t.Fatalf("identity survived clear")
	}
}

func TestSessionStore_ExpiredIsAbsent(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}
	ctx := context.Background()
	client, db, err := Connect(ctx, Config{URI: uri, Database: "portal_test"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer Disconnect(client, 5*time.Second)

	reg := NewSessionRegistry(db, time.Minute, zerolog.Nop())
	store := reg.Store(uuid.NewString())
	if err := store.Set(ctx, "abc123", domain.UserIdentity{Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("set: %v", err)
	}

	reg.now = func() time.Time { return time.Now().UTC().Add(2 * time.Minute) }
	if _, ok := store.Get(ctx); ok {
		t.Fatalf("expired session still readable")
	}
}

func TestConfig_ClientOptions(t *testing.T) {
	opts := Config{URI: "mongodb://db:27017"}.clientOptions()
	if opts.AppName == nil || *opts.AppName != "portal" {
		t.Fatalf("expected default app name, got %v", opts.AppName)
	}
	if len(opts.Hosts) != 1 || opts.Hosts[0] != "db:27017" {
		t.Fatalf("unexpected hosts: %v", opts.Hosts)
	}
}
