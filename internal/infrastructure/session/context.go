package session

import (
	"context"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
)

type storeKey struct{}

// WithStore binds a credential store to ctx. Outbound requests made with the
// returned context are authenticated from that store.
func WithStore(ctx context.Context, store ports.CredentialStore) context.Context {
	return context.WithValue(ctx, storeKey{}, store)
}

// FromContext returns the store bound to ctx, or an empty store when none is.
func FromContext(ctx context.Context) ports.CredentialStore {
	if s, ok := ctx.Value(storeKey{}).(ports.CredentialStore); ok && s != nil {
		return s
	}
	return emptyStore{}
}

// ContextStore is a CredentialStore that delegates every call to the store
// bound to the call's context. It lets session-agnostic components (the
// outbound authenticator, the auth service) serve many browser sessions.
type ContextStore struct{}

func (ContextStore) Get(ctx context.Context) (domain.Credential, bool) {
	return FromContext(ctx).Get(ctx)
}

func (ContextStore) Identity(ctx context.Context) (*domain.UserIdentity, bool) {
	return FromContext(ctx).Identity(ctx)
}

func (ContextStore) Set(ctx context.Context, token domain.Credential, identity domain.UserIdentity) error {
	return FromContext(ctx).Set(ctx, token, identity)
}

func (ContextStore) Clear(ctx context.Context) error {
	return FromContext(ctx).Clear(ctx)
}

// emptyStore is the store of a request that carries no session.
type emptyStore struct{}

func (emptyStore) Get(context.Context) (domain.Credential, bool) { return "", false }

func (emptyStore) Identity(context.Context) (*domain.UserIdentity, bool) { return nil, false }

func (emptyStore) Set(context.Context, domain.Credential, domain.UserIdentity) error {
	return domain.ErrUnauthenticated
}

func (emptyStore) Clear(context.Context) error { return nil }
