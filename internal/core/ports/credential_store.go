package ports

import (
	"context"

	"github.com/revtickets/portal/internal/core/domain"
)

// CredentialStore holds the bearer token and the identity of one signed-in
// client. Absence is a valid state: Get and Identity never fail, a backend
// read error is reported as "absent".
type CredentialStore interface {
	Get(ctx context.Context) (domain.Credential, bool)
	Identity(ctx context.Context) (*domain.UserIdentity, bool)
	Set(ctx context.Context, token domain.Credential, identity domain.UserIdentity) error
	Clear(ctx context.Context) error
}

// SessionRegistry hands out the credential store owned by a browser session.
type SessionRegistry interface {
	Store(sessionID string) CredentialStore
	Ping(ctx context.Context) error
}
