package service

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/revtickets/portal/internal/api/metrics"
	"github.com/revtickets/portal/internal/core/domain"
	"github.com/revtickets/portal/internal/core/ports"
	"github.com/revtickets/portal/internal/pkg/validation"
)

// AuthService signs the client in and out. It owns the writes to the
// credential store; everything else only reads it.
type AuthService struct {
	gateway   ports.AuthGateway
	store     ports.CredentialStore
	validator *validation.Validator
	jwtSecret string
	log       zerolog.Logger
}

// NewAuthService wires the login gateway to store. jwtSecret is optional: when
// set, identities recovered from token claims require a valid HS256 signature.
func NewAuthService(gateway ports.AuthGateway, store ports.CredentialStore, v *validation.Validator, jwtSecret string, log zerolog.Logger) *AuthService {
	return &AuthService{gateway: gateway, store: store, validator: v, jwtSecret: jwtSecret, log: log}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.UserIdentity, error) {
	identity, err := s.login(ctx, email, password)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.AuthEventsTotal.WithLabelValues("login", result).Inc()
	return identity, err
}

func (s *AuthService) login(ctx context.Context, email, password string) (*domain.UserIdentity, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	res, err := s.gateway.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	identity := res.User
	if identity == nil {
		identity, err = s.identityFromToken(string(res.Token))
		if err != nil {
			return nil, err
		}
	}

	if err := s.store.Set(ctx, res.Token, *identity); err != nil {
		return nil, fmt.Errorf("store credential: %w", err)
	}
	s.log.Info().Str("email", identity.Email).Str("role", string(identity.Role)).Msg("signed in")
	return identity, nil
}

func (s *AuthService) CurrentUser(ctx context.Context) (*domain.UserIdentity, bool) {
	return s.store.Identity(ctx)
}

func (s *AuthService) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.AuthEventsTotal.WithLabelValues("logout", result).Inc()
	return err
}

// identityFromToken reads name, email, phone and role claims. Without a
// configured secret the token is parsed unverified: the upstream API checks
// it on every call anyway.
func (s *AuthService) identityFromToken(token string) (*domain.UserIdentity, error) {
	claims := jwt.MapClaims{}
	if s.jwtSecret == "" {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("%w: token claims: %v", domain.ErrMalformedPayload, err)
		}
	} else {
		tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil || !tkn.Valid {
			return nil, fmt.Errorf("%w: token rejected: %v", domain.ErrMalformedPayload, err)
		}
	}

	identity := &domain.UserIdentity{
		Name:  claimString(claims, "name"),
		Email: claimString(claims, "email"),
		Phone: claimString(claims, "phone"),
		Role:  domain.ParseRole(claimString(claims, "role")),
	}
	if identity.Email == "" {
		identity.Email = claimString(claims, "sub")
	}
	if err := s.validator.Validate(identity); err != nil {
		return nil, fmt.Errorf("%w: token identity: %v", domain.ErrMalformedPayload, err)
	}
	return identity, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
