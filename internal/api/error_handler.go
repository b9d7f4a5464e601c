package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// domainStatus maps sentinel errors to the status and message clients see.
// Order matters: the first match wins.
var domainStatus = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "not signed in"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrUpstream, http.StatusBadGateway, "upstream unavailable"},
	{domain.ErrMalformedPayload, http.StatusBadGateway, "upstream unavailable"},
}

// NewHTTPErrorHandler renders every error returned by a handler as
// {"error": "<message>"}. Unknown errors are logged and reported as 500
// without leaking their cause.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err)
		if code >= http.StatusInternalServerError {
			evt := log.Warn()
			if code == http.StatusInternalServerError {
				evt = log.Error()
			}
			evt.Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Int("status", code).
				Msg("request failed")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, ds := range domainStatus {
		if errors.Is(err, ds.err) {
			return ds.code, ds.msg
		}
	}
	return http.StatusInternalServerError, "internal server error"
}
