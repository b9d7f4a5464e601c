package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/infrastructure/session"
)

var testOpts = SessionOptions{CookieName: "portal_session", TTL: time.Hour}

func TestSession_IssuesCookieForNewVisitor(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	registry := session.NewMemoryRegistry(time.Hour)
	handler := Session(registry, testOpts)(func(c echo.Context) error {
		id, _ := c.Get(SessionIDKey).(string)
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("session id is not a uuid: %q", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "portal_session" {
		t.Fatalf("expected session cookie, got %+v", cookies)
	}
	if !cookies[0].HttpOnly || cookies[0].MaxAge != 3600 {
		t.Fatalf("unexpected cookie attributes: %+v", cookies[0])
	}
}

func TestSession_BindsExistingSessionStore(t *testing.T) {
	e := echo.New()
	registry := session.NewMemoryRegistry(time.Hour)
	id := uuid.NewString()
	if err := registry.Store(id).Set(context.Background(), "abc123", domain.UserIdentity{Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: id})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Session(registry, testOpts)(func(c echo.Context) error {
		called = true
		if c.Get(SessionIDKey) != id {
			t.Fatalf("session id not propagated")
		}
		tok, ok := session.FromContext(c.Request().Context()).Get(c.Request().Context())
		if !ok || tok != "abc123" {
			t.Fatalf("store not bound to request context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("existing session must not be reissued")
	}
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(&http.Cookie{Name: "portal_session", Value: "../../etc/passwd"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(session.NewMemoryRegistry(time.Hour), testOpts)(func(c echo.Context) error {
		if c.Get(SessionIDKey) == "../../etc/passwd" {
			t.Fatalf("malformed session id accepted")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatalf("expected a fresh session cookie")
	}
}

func TestExpireSession(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/profile/logout", nil), rec)

	ExpireSession(c, testOpts)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}

func TestRotator_ReplacesSessionOnCommit(t *testing.T) {
	e := echo.New()
	registry := session.NewMemoryRegistry(time.Hour)
	rotator := Rotator{Registry: registry, Options: testOpts}
	ana := domain.UserIdentity{Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser}

	// A visitor arrives without a cookie; the middleware issues one.
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var oldID, newID string
	handler := Session(registry, testOpts)(func(c echo.Context) error {
		oldID, _ = c.Get(SessionIDKey).(string)
		// Something was stored under the pre-login ID.
		if err := registry.Store(oldID).Set(c.Request().Context(), "planted", ana); err != nil {
			t.Fatalf("seed: %v", err)
		}

		var ctx context.Context
		newID, ctx = rotator.Fresh(c.Request().Context())
		if err := session.FromContext(ctx).Set(ctx, "abc123", ana); err != nil {
			t.Fatalf("set on fresh session: %v", err)
		}
		return rotator.Commit(c, newID)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if newID == oldID {
		t.Fatalf("session id was not rotated")
	}
	if _, ok := registry.Store(oldID).Get(context.Background()); ok {
		t.Fatalf("pre-login session still holds credentials")
	}
	if tok, ok := registry.Store(newID).Get(context.Background()); !ok || tok != "abc123" {
		t.Fatalf("new session lost its credential")
	}
	if c.Get(SessionIDKey) != newID {
		t.Fatalf("context still carries the old id")
	}
	if tok, _ := session.FromContext(c.Request().Context()).Get(c.Request().Context()); tok != "abc123" {
		t.Fatalf("request not rebound to the new store")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != newID {
		t.Fatalf("expected a single cookie for the new session, got %+v", cookies)
	}
}
