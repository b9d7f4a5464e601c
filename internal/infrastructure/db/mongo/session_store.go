package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
)

const (
	sessionCollection = "portal_sessions"
	defaultSessionTTL = 24 * time.Hour
)

// SessionRegistry stores credentials per browser session, one document per
// session. Expired documents are reaped by a TTL index on expires_at and are
// ignored on read until the reaper catches up.
type SessionRegistry struct {
	coll *mongo.Collection
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time
}

func NewSessionRegistry(db *mongo.Database, ttl time.Duration, log zerolog.Logger) *SessionRegistry {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionRegistry{
		coll: db.Collection(sessionCollection),
		ttl:  ttl,
		log:  log,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// EnsureIndexes creates the TTL index. Safe to call on every start.
func (r *SessionRegistry) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}

func (r *SessionRegistry) Store(sessionID string) ports.CredentialStore {
	return &sessionStore{registry: r, id: sessionID}
}

func (r *SessionRegistry) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

type mongoIdentity struct {
	Name  string `bson:"name"`
	Email string `bson:"email"`
	Phone string `bson:"phone,omitempty"`
	Role  string `bson:"role"`
}

type mongoSession struct {
	ID        string        `bson:"_id"`
	Token     string        `bson:"token"`
	Identity  mongoIdentity `bson:"identity"`
	ExpiresAt time.Time     `bson:"expires_at"`
}

func toMongoSession(id string, token domain.Credential, u domain.UserIdentity, expiresAt time.Time) mongoSession {
	return mongoSession{
		ID:    id,
		Token: string(token),
		Identity: mongoIdentity{
			Name:  u.Name,
			Email: u.Email,
			Phone: u.Phone,
			Role:  string(u.Role),
		},
		ExpiresAt: expiresAt,
	}
}

func (m mongoSession) identity() *domain.UserIdentity {
	return &domain.UserIdentity{
		Name:  m.Identity.Name,
		Email: m.Identity.Email,
		Phone: m.Identity.Phone,
		Role:  domain.ParseRole(m.Identity.Role),
	}
}

type sessionStore struct {
	registry *SessionRegistry
	id       string
}

func (s *sessionStore) load(ctx context.Context) (*mongoSession, bool) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": s.id, "expires_at": bson.M{"$gt": s.registry.now()}}
	var doc mongoSession
	if err := s.registry.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			s.registry.log.Warn().Err(err).Str("session_id", s.id).Msg("read session")
		}
		return nil, false
	}
	return &doc, true
}

func (s *sessionStore) Get(ctx context.Context) (domain.Credential, bool) {
	doc, ok := s.load(ctx)
	if !ok || doc.Token == "" {
		return "", false
	}
	return domain.Credential(doc.Token), true
}

func (s *sessionStore) Identity(ctx context.Context) (*domain.UserIdentity, bool) {
	doc, ok := s.load(ctx)
	if !ok {
		return nil, false
	}
	return doc.identity(), true
}

func (s *sessionStore) Set(ctx context.Context, token domain.Credential, identity domain.UserIdentity) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoSession(s.id, token, identity, s.registry.now().Add(s.registry.ttl))
	_, err := s.registry.coll.ReplaceOne(ctx, bson.M{"_id": s.id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *sessionStore) Clear(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.registry.coll.DeleteOne(ctx, bson.M{"_id": s.id}); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
