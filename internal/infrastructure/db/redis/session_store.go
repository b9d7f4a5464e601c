package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
)

const defaultSessionTTL = 24 * time.Hour

// SessionRegistry stores credentials per browser session in Redis.
// Key format: session:<id>:token and session:<id>:identity (JSON).
type SessionRegistry struct {
	client *redis.Client
	ttl    time.Duration
	log    zerolog.Logger
}

// NewSessionRegistry creates a SessionRegistry wrapping the given Redis client.
// Both keys of a session expire together after ttl.
func NewSessionRegistry(client *redis.Client, ttl time.Duration, log zerolog.Logger) *SessionRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRegistry{client: client, ttl: ttl, log: log}
}

func (r *SessionRegistry) Store(sessionID string) ports.CredentialStore {
	return &sessionStore{registry: r, id: sessionID}
}

func (r *SessionRegistry) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func tokenKey(id string) string    { return fmt.Sprintf("session:%s:token", id) }
func identityKey(id string) string { return fmt.Sprintf("session:%s:identity", id) }

type sessionStore struct {
	registry *SessionRegistry
	id       string
}

func (s *sessionStore) Get(ctx context.Context) (domain.Credential, bool) {
	v, err := s.registry.client.Get(ctx, tokenKey(s.id)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.registry.log.Warn().Err(err).Str("session_id", s.id).Msg("read session token")
		}
		return "", false
	}
	return domain.Credential(v), v != ""
}

func (s *sessionStore) Identity(ctx context.Context) (*domain.UserIdentity, bool) {
	raw, err := s.registry.client.Get(ctx, identityKey(s.id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.registry.log.Warn().Err(err).Str("session_id", s.id).Msg("read session identity")
		}
		return nil, false
	}
	var id domain.UserIdentity
	if err := json.Unmarshal(raw, &id); err != nil {
		s.registry.log.Warn().Err(err).Str("session_id", s.id).Msg("decode session identity")
		return nil, false
	}
	return &id, true
}

func (s *sessionStore) Set(ctx context.Context, token domain.Credential, identity domain.UserIdentity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	_, err = s.registry.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, tokenKey(s.id), string(token), s.registry.ttl)
		p.Set(ctx, identityKey(s.id), raw, s.registry.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *sessionStore) Clear(ctx context.Context) error {
	if err := s.registry.client.Del(ctx, tokenKey(s.id), identityKey(s.id)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
