package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/revtickets/portal/internal/core/ports"
	"github.com/revtickets/portal/internal/infrastructure/session"
)

// SessionIDKey is the echo context key holding the browser session ID.
const SessionIDKey = "session_id"

// SessionOptions controls the session cookie.
type SessionOptions struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session resolves the browser session from its cookie, issuing a new one when
// the cookie is missing or malformed, and binds that session's credential
// store to the request context.
func Session(registry ports.SessionRegistry, opts SessionOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(opts.CookieName); err == nil {
				if _, perr := uuid.Parse(ck.Value); perr == nil {
					id = ck.Value
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(sessionCookie(opts, id, opts.TTL))
			}

			c.Set(SessionIDKey, id)
			req := c.Request()
			c.SetRequest(req.WithContext(session.WithStore(req.Context(), registry.Store(id))))

			return next(c)
		}
	}
}

// Rotator replaces the session ID when a session changes privilege, so an ID
// handed out before sign-in is never the one that carries the credential.
type Rotator struct {
	Registry ports.SessionRegistry
	Options  SessionOptions
}

// Fresh returns a new session ID and ctx bound to its (empty) store. Nothing
// reaches the client until Commit.
func (r Rotator) Fresh(ctx context.Context) (string, context.Context) {
	id := uuid.NewString()
	return id, session.WithStore(ctx, r.Registry.Store(id))
}

// Commit switches the client to id: the previous session's credentials are
// cleared, the cookie is replaced and the request is rebound to the new store.
func (r Rotator) Commit(c echo.Context, id string) error {
	req := c.Request()
	if old, _ := c.Get(SessionIDKey).(string); old != "" && old != id {
		if err := r.Registry.Store(old).Clear(req.Context()); err != nil {
			return err
		}
	}

	dropSetCookie(c.Response().Header(), r.Options.CookieName)
	c.SetCookie(sessionCookie(r.Options, id, r.Options.TTL))
	c.Set(SessionIDKey, id)
	c.SetRequest(req.WithContext(session.WithStore(req.Context(), r.Registry.Store(id))))
	return nil
}

// dropSetCookie removes pending Set-Cookie headers for name so the response
// carries a single session cookie.
func dropSetCookie(h http.Header, name string) {
	var kept []string
	for _, v := range h.Values(echo.HeaderSetCookie) {
		if !strings.HasPrefix(v, name+"=") {
			kept = append(kept, v)
		}
	}
	h.Del(echo.HeaderSetCookie)
	for _, v := range kept {
		h.Add(echo.HeaderSetCookie, v)
	}
}

// ExpireSession tells the browser to drop its session cookie.
func ExpireSession(c echo.Context, opts SessionOptions) {
	c.SetCookie(sessionCookie(opts, "", -1))
}

func sessionCookie(opts SessionOptions, value string, ttl time.Duration) *http.Cookie {
	ck := &http.Cookie{
		Name:     opts.CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		ck.MaxAge = -1
	} else if ttl > 0 {
		ck.MaxAge = int(ttl.Seconds())
	}
	return ck
}
