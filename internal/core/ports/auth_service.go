package ports

import (
	"context"

	"github.com/revtickets/portal/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.UserIdentity, error)
	CurrentUser(ctx context.Context) (*domain.UserIdentity, bool)
	Logout(ctx context.Context) error
}
