package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/api/middleware"
	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
	"github.com/revtickets/portal/internal/core/service"
)

// ProfileHandler serves the profile screen. Every request builds a fresh
// controller; state never crosses requests.
type ProfileHandler struct {
	auth    ports.AuthService
	reviews ports.ReviewClient
	routes  ports.Routes
	session middleware.SessionOptions
	log     zerolog.Logger
}

func NewProfileHandler(auth ports.AuthService, reviews ports.ReviewClient, routes ports.Routes, session middleware.SessionOptions, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{auth: auth, reviews: reviews, routes: routes, session: session, log: log}
}

func (h *ProfileHandler) controller(c echo.Context) (*service.ProfileController, *redirectNavigator) {
	nav := &redirectNavigator{}
	sid, _ := c.Get(middleware.SessionIDKey).(string)
	log := h.log.With().Str("session_id", sid).Logger()
	return service.NewProfileController(h.auth, h.reviews, nav, h.routes, log), nav
}

// Show renders the profile of the signed-in user.
//
// Administrators are redirected to the admin area. Everyone else gets their
// identity and their reviews; a failed review fetch renders as an empty list
// with state FAILED.
//
// @Summary      Current user's profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  service.ProfileView
// @Success      303
// @Router       /profile [get]
func (h *ProfileHandler) Show(c echo.Context) error {
	ctx := c.Request().Context()
	ctrl, nav := h.controller(c)
	ctrl.Init(ctx)

	view := ctrl.Wait(ctx)
	if nav.route != "" {
		return navigate(c, nav.route)
	}
	return c.JSON(http.StatusOK, view)
}

// Bookings moves to the user's bookings.
//
// @Summary      Go to my bookings
// @Tags         profile
// @Success      303
// @Router       /profile/bookings [post]
func (h *ProfileHandler) Bookings(c echo.Context) error {
	ctrl, nav := h.controller(c)
	ctrl.GoToBookings()
	return navigate(c, nav.route)
}

// Admin moves to the admin area.
//
// @Summary      Go to the admin dashboard
// @Tags         profile
// @Produce      json
// @Success      303
// @Failure      403  {object}  errorResponse
// @Router       /profile/admin [post]
func (h *ProfileHandler) Admin(c echo.Context) error {
	ctrl, nav := h.controller(c)
	if err := ctrl.GoToAdmin(c.Request().Context()); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, errorResponse{Error: "access forbidden"})
		}
		return err
	}
	return navigate(c, nav.route)
}

// Logout clears the session and moves to the login screen.
//
// @Summary      Logout
// @Tags         profile
// @Success      303
// @Router       /profile/logout [post]
func (h *ProfileHandler) Logout(c echo.Context) error {
	ctrl, nav := h.controller(c)
	ctrl.Logout(c.Request().Context())
	middleware.ExpireSession(c, h.session)
	return navigate(c, nav.route)
}
