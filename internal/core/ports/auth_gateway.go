package ports

import (
	"context"

	"github.com/revtickets/portal/internal/core/domain"
)

// LoginResult is what the upstream API returns on a successful login. User is
// nil when the API only hands back a token.
type LoginResult struct {
	Token domain.Credential
	User  *domain.UserIdentity
}

// AuthGateway performs the login call against the upstream API.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}
