package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// wantsJSON reports whether the client prefers a JSON body over a redirect.
func wantsJSON(c echo.Context) bool {
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

// navigate sends the browser to route: 303 for page requests, a JSON body
// naming the route for API clients.
func navigate(c echo.Context, route string) error {
	if wantsJSON(c) {
		return c.JSON(http.StatusOK, redirectResponse{Redirect: route})
	}
	return c.Redirect(http.StatusSeeOther, route)
}
