package handler

import "github.com/revtickets/portal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type loginResponse struct {
	User *domain.UserIdentity `json:"user"`
}

// redirectResponse is returned instead of a redirect to clients that ask for
// JSON, so single-page frontends can navigate themselves.
type redirectResponse struct {
	Redirect string `json:"redirect"`
}
