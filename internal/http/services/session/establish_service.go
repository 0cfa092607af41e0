package session

import (
	"context"
	"net/http"
	"time"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/session"
	"github.com/clinicia-hq/clinicia-server/internal/http/helpers"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
)

// EstablishService turns a verified identity-provider token into the
// browser session cookie. It never mints anything itself: the cookie
// value IS the verified token, and every protected handler re-verifies
// it on each request.
type EstablishService interface {
	Establish(ctx context.Context, req dto.EstablishRequest) (*EstablishResult, error)
	BuildSessionCookie(token string) *http.Cookie
	BuildDeletionCookie() *http.Cookie
}

// EstablishResult contains the result of a successful session establish.
type EstablishResult struct {
	Token   string
	Session types.AuthSession
}

// Resolver is what the service needs from the session resolver.
type Resolver interface {
	Resolve(ctx context.Context, p types.Principal) (types.AuthSession, error)
}

// EstablishDeps contains dependencies for the establish service.
type EstablishDeps struct {
	Verifier auth.Verifier
	Resolver Resolver
	Cookie   dto.CookieConfig
}

type establishService struct {
	verifier auth.Verifier
	resolver Resolver
	cookie   dto.CookieConfig
}

// NewEstablishService creates a new EstablishService.
func NewEstablishService(deps EstablishDeps) EstablishService {
	cfg := deps.Cookie
	if cfg.Name == "" {
		cfg.Name = "__session"
	}
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 3600
	}
	return &establishService{
		verifier: deps.Verifier,
		resolver: deps.Resolver,
		cookie:   cfg,
	}
}

// Establish verifies the token and resolves the caller's AuthSession.
// The token is not stored anywhere; the cookie carries it back on
// subsequent requests.
func (s *establishService) Establish(ctx context.Context, req dto.EstablishRequest) (*EstablishResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("session.establish"),
		logger.Op("Establish"),
	)

	if req.Token == "" {
		return nil, auth.ErrUnauthenticated
	}

	principal, err := s.verifier.Verify(ctx, req.Token)
	if err != nil {
		return nil, err
	}

	session, err := s.resolver.Resolve(ctx, principal)
	if err != nil {
		return nil, err
	}

	log.Debug("session established",
		logger.UserID(session.UserID),
		logger.TenantID(session.TenantID),
		logger.Role(string(session.Role)),
	)
	return &EstablishResult{Token: req.Token, Session: session}, nil
}

// BuildSessionCookie builds the httpOnly session cookie carrying the token.
func (s *establishService) BuildSessionCookie(token string) *http.Cookie {
	return helpers.BuildSessionCookie(
		s.cookie.Name, token, s.cookie.SameSite, s.cookie.Secure,
		time.Duration(s.cookie.MaxAge)*time.Second,
	)
}

// BuildDeletionCookie builds the cookie that clears the session.
func (s *establishService) BuildDeletionCookie() *http.Cookie {
	return helpers.BuildDeletionCookie(s.cookie.Name, s.cookie.SameSite, s.cookie.Secure)
}
