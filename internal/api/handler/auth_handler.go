package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
)

// SessionRotator hands out a new session for a sign-in and switches the
// client to it once the sign-in succeeds.
type SessionRotator interface {
	Fresh(ctx context.Context) (string, context.Context)
	Commit(c echo.Context, id string) error
}

type AuthHandler struct {
	authService ports.AuthService
	sessions    SessionRotator
	profilePath string
}

func NewAuthHandler(authService ports.AuthService, sessions SessionRotator, profilePath string) *AuthHandler {
	return &AuthHandler{authService: authService, sessions: sessions, profilePath: profilePath}
}

// Login signs the browser in against the upstream API. Credentials land in a
// brand new session; the pre-login session ID is retired only on success.
//
// @Summary      Login
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Success      303
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	}

	id, ctx := h.sessions.Fresh(c.Request().Context())
	user, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		return err
	}
	if err := h.sessions.Commit(c, id); err != nil {
		return err
	}

	if wantsJSON(c) {
		return c.JSON(http.StatusOK, loginResponse{User: user})
	}
	return c.Redirect(http.StatusSeeOther, h.profilePath)
}
