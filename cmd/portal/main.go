// Command portal serves the profile screen in front of the ticketing API.
//
//	@title			Portal API
//	@version		1.0
//	@description	Session-backed profile portal in front of the ticketing API.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/api"
	"github.com/revtickets/portal/internal/api/handler"
	"github.com/revtickets/portal/internal/api/middleware"
	"github.com/revtickets/portal/internal/core/ports"
	"github.com/revtickets/portal/internal/core/service"
	mongostore "github.com/revtickets/portal/internal/infrastructure/db/mongo"
	redisstore "github.com/revtickets/portal/internal/infrastructure/db/redis"
	"github.com/revtickets/portal/internal/infrastructure/httpclient"
	"github.com/revtickets/portal/internal/infrastructure/session"
	"github.com/revtickets/portal/internal/infrastructure/upstream"
	"github.com/revtickets/portal/internal/pkg/config"
	"github.com/revtickets/portal/internal/pkg/validation"
	"github.com/revtickets/portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{}).Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("portal stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	registry, closeRegistry, err := openSessions(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRegistry()

	v := validation.New()
	client := httpclient.New(httpclient.Options{
		Store: session.ContextStore{},
		Log:   logger.Component("httpclient"),
	})
	apiClient, err := upstream.NewAPI(cfg.APIBaseURL, client)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(
		upstream.NewAuthClient(apiClient, v),
		session.ContextStore{},
		v,
		cfg.JWTSecret,
		logger.Component("auth"),
	)

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Reviews:  upstream.NewReviewClient(apiClient, v, logger.Component("reviews")),
		Sessions: registry,
		Routes: ports.Routes{
			Admin:    cfg.Routes.Admin,
			Bookings: cfg.Routes.Bookings,
			Login:    cfg.Routes.Login,
		},
		Session: middleware.SessionOptions{
			CookieName: cfg.Session.Cookie,
			TTL:        cfg.Session.TTL,
			Secure:     !cfg.IsDevelopment(),
		},
		Readiness: map[string]handler.Pinger{"sessions": registry},
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("api", cfg.APIBaseURL).
			Str("sessions", cfg.Session.Backend).
			Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openSessions builds the session registry for the configured backend. The
// returned func releases its connection.
func openSessions(ctx context.Context, cfg *config.Config) (ports.SessionRegistry, func(), error) {
	log := logger.Component("sessions")

	switch cfg.Session.Backend {
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, nil, err
		}
		return redisstore.NewSessionRegistry(client, cfg.Session.TTL, log), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		disconnect := func() { _ = mongostore.Disconnect(client, 5*time.Second) }
		registry := mongostore.NewSessionRegistry(db, cfg.Session.TTL, log)
		if err := registry.EnsureIndexes(ctx); err != nil {
			disconnect()
			return nil, nil, err
		}
		return registry, disconnect, nil

	default:
		return session.NewMemoryRegistry(cfg.Session.TTL), func() {}, nil
	}
}
