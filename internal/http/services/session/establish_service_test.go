package session

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/session"
)

type stubVerifier struct {
	principal types.Principal
	err       error
	seen      string
}

func (s *stubVerifier) Verify(_ context.Context, credential string) (types.Principal, error) {
	s.seen = credential
	if s.err != nil {
		return types.Principal{}, s.err
	}
	return s.principal, nil
}

type stubResolver struct {
	session types.AuthSession
	err     error
}

func (s *stubResolver) Resolve(_ context.Context, _ types.Principal) (types.AuthSession, error) {
	return s.session, s.err
}

func TestEstablish_OK(t *testing.T) {
	want := types.AuthSession{
		SubjectID: "sub-1", Email: "doc@clinic.test",
		TenantID: "clinic-a", UserID: "u-1", Role: types.RoleDoctor,
	}
	v := &stubVerifier{principal: types.Principal{SubjectID: "sub-1", ExpiresAt: time.Now().Add(time.Hour)}}
	s := NewEstablishService(EstablishDeps{
		Verifier: v,
		Resolver: &stubResolver{session: want},
	})

	res, err := s.Establish(context.Background(), dto.EstablishRequest{Token: "idp-token"})
	require.NoError(t, err)
	require.Equal(t, "idp-token", v.seen)
	require.Equal(t, "idp-token", res.Token)
	require.Equal(t, want, res.Session)
}

func TestEstablish_Failures(t *testing.T) {
	t.Run("empty token", func(t *testing.T) {
		s := NewEstablishService(EstablishDeps{Verifier: &stubVerifier{}, Resolver: &stubResolver{}})
		_, err := s.Establish(context.Background(), dto.EstablishRequest{})
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("verifier rejects", func(t *testing.T) {
		s := NewEstablishService(EstablishDeps{
			Verifier: &stubVerifier{err: auth.ErrUnauthenticated},
			Resolver: &stubResolver{},
		})
		_, err := s.Establish(context.Background(), dto.EstablishRequest{Token: "bad"})
		require.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	// Un token válido sin fila de usuario no es un 401 genérico: el
	// cliente necesita distinguirlo para mandar al onboarding.
	t.Run("not provisioned", func(t *testing.T) {
		s := NewEstablishService(EstablishDeps{
			Verifier: &stubVerifier{principal: types.Principal{SubjectID: "sub-1"}},
			Resolver: &stubResolver{err: auth.ErrUserNotProvisioned},
		})
		_, err := s.Establish(context.Background(), dto.EstablishRequest{Token: "ok"})
		require.ErrorIs(t, err, auth.ErrUserNotProvisioned)
		require.NotErrorIs(t, err, auth.ErrUnauthenticated)
	})
}

func TestBuildSessionCookie(t *testing.T) {
	s := NewEstablishService(EstablishDeps{
		Verifier: &stubVerifier{}, Resolver: &stubResolver{},
		Cookie: dto.CookieConfig{Name: "__session", Secure: true, SameSite: "lax", MaxAge: 3600},
	})

	c := s.BuildSessionCookie("tok-123")
	require.Equal(t, "__session", c.Name)
	require.Equal(t, "tok-123", c.Value)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 3600, c.MaxAge)
}

func TestBuildDeletionCookie(t *testing.T) {
	s := NewEstablishService(EstablishDeps{Verifier: &stubVerifier{}, Resolver: &stubResolver{}})

	c := s.BuildDeletionCookie()
	require.Equal(t, "__session", c.Name)
	require.Empty(t, c.Value)
	require.Negative(t, c.MaxAge)
}
