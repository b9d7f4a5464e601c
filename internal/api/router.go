package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/revtickets/portal/docs"
	"github.com/revtickets/portal/internal/api/handler"
	"github.com/revtickets/portal/internal/api/middleware"
	"github.com/revtickets/portal/internal/core/ports"
	"github.com/revtickets/portal/internal/pkg/validation"
)

// Dependencies is everything the router needs to serve the portal.
type Dependencies struct {
	Auth     ports.AuthService
	Reviews  ports.ReviewClient
	Sessions ports.SessionRegistry
	Routes   ports.Routes
	Session  middleware.SessionOptions
	// Readiness lists the dependencies checked by GET /health/ready.
	Readiness map[string]handler.Pinger
	// Registry receives the HTTP metrics. Defaults to the global registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "portal",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	sessionMW := middleware.Session(deps.Sessions, deps.Session)
	authHandler := handler.NewAuthHandler(deps.Auth, middleware.Rotator{Registry: deps.Sessions, Options: deps.Session}, "/profile")
	profileHandler := handler.NewProfileHandler(deps.Auth, deps.Reviews, deps.Routes, deps.Session, deps.Log)

	// --- Auth routes ---
	auth := e.Group("/auth", sessionMW)
	auth.POST("/login", authHandler.Login)

	// --- Profile routes ---
	profile := e.Group("/profile", sessionMW)
	profile.GET("", profileHandler.Show)
	profile.POST("/bookings", profileHandler.Bookings)
	profile.POST("/admin", profileHandler.Admin)
	profile.POST("/logout", profileHandler.Logout)

	// --- Health probes (no session required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
