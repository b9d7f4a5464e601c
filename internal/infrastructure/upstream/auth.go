package upstream

import (
	"context"
	"errors"
	"net/http"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
	"github.com/revtickets/portal/internal/pkg/validation"
)

const loginPath = "/auth/login"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	Token string               `json:"token"`
	User  *domain.UserIdentity `json:"user"`
}

// AuthClient performs the login call.
type AuthClient struct {
	api       *API
	validator *validation.Validator
}

func NewAuthClient(api *API, v *validation.Validator) *AuthClient {
	return &AuthClient{api: api, validator: v}
}

// Login posts the credentials. 401 and 403 map to domain.ErrInvalidCredentials.
// A user object that fails validation is discarded so the caller falls back
// to the token claims.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	var env envelope[*loginData]
	err := c.api.post(ctx, loginPath, loginRequest{Email: email, Password: password}, &env)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if env.Data == nil || env.Data.Token == "" {
		return nil, domain.ErrMalformedPayload
	}

	user := env.Data.User
	if user != nil {
		user.Role = domain.ParseRole(string(user.Role))
		if c.validator.Validate(user) != nil {
			user = nil
		}
	}
	return &ports.LoginResult{Token: domain.Credential(env.Data.Token), User: user}, nil
}
