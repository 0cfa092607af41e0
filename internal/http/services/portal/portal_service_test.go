package portal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	dto "github.com/clinicia-hq/clinicia-server/internal/http/dto/portal"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

type fakeRepo struct {
	core.Repository

	byPhone map[string]*core.Patient
	err     error
}

func (f *fakeRepo) GetPatientByPhone(_ context.Context, tenantID, phone string) (*core.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.byPhone[phone]
	if !ok || p.TenantID != tenantID {
		return nil, core.ErrNotFound
	}
	return p, nil
}

func portalPatient(t *testing.T, code string) *core.Patient {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.MinCost)
	require.NoError(t, err)
	h := string(hash)
	return &core.Patient{
		ID:         "pat-1",
		TenantID:   "clinic-a",
		Phone:      "+5491155555555",
		AccessHash: &h,
	}
}

func TestLogin_OK(t *testing.T) {
	p := portalPatient(t, "123456")
	repo := &fakeRepo{byPhone: map[string]*core.Patient{p.Phone: p}}
	tokens := auth.NewPortalTokens([]byte("secret"), 15*time.Minute)
	s := NewService(Deps{Store: repo, Tokens: tokens, TTL: 15 * time.Minute})

	resp, err := s.Login(context.Background(), dto.LoginRequest{
		ClinicID:   "clinic-a",
		Phone:      p.Phone,
		AccessCode: "123456",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	principal, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, "pat-1", principal.PatientID)
	require.Equal(t, "clinic-a", principal.TenantID)
}

// Paciente inexistente y código incorrecto devuelven el MISMO error.
func TestLogin_IndistinguishableFailures(t *testing.T) {
	p := portalPatient(t, "123456")
	repo := &fakeRepo{byPhone: map[string]*core.Patient{p.Phone: p}}
	s := NewService(Deps{Store: repo, Tokens: auth.NewPortalTokens([]byte("secret"), time.Minute)})

	_, errWrongCode := s.Login(context.Background(), dto.LoginRequest{
		ClinicID: "clinic-a", Phone: p.Phone, AccessCode: "999999",
	})
	_, errNoPatient := s.Login(context.Background(), dto.LoginRequest{
		ClinicID: "clinic-a", Phone: "+5490000000000", AccessCode: "123456",
	})
	_, errWrongTenant := s.Login(context.Background(), dto.LoginRequest{
		ClinicID: "clinic-b", Phone: p.Phone, AccessCode: "123456",
	})

	require.ErrorIs(t, errWrongCode, ErrInvalidCredentials)
	require.ErrorIs(t, errNoPatient, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongTenant, ErrInvalidCredentials)
}

func TestLogin_PortalDisabled(t *testing.T) {
	p := &core.Patient{ID: "pat-1", TenantID: "clinic-a", Phone: "+54911"}
	repo := &fakeRepo{byPhone: map[string]*core.Patient{p.Phone: p}}
	s := NewService(Deps{Store: repo, Tokens: auth.NewPortalTokens([]byte("secret"), time.Minute)})

	_, err := s.Login(context.Background(), dto.LoginRequest{
		ClinicID: "clinic-a", Phone: p.Phone, AccessCode: "123456",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

// Una falla de store NO se disfraza de credencial inválida.
func TestLogin_StoreFailurePropagates(t *testing.T) {
	repo := &fakeRepo{err: core.ErrUnavailable}
	s := NewService(Deps{Store: repo, Tokens: auth.NewPortalTokens([]byte("secret"), time.Minute)})

	_, err := s.Login(context.Background(), dto.LoginRequest{
		ClinicID: "clinic-a", Phone: "+54911", AccessCode: "123456",
	})
	require.ErrorIs(t, err, core.ErrUnavailable)
	require.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_MissingFields(t *testing.T) {
	s := NewService(Deps{Store: &fakeRepo{}, Tokens: auth.NewPortalTokens([]byte("secret"), time.Minute)})
	ctx := context.Background()

	_, err := s.Login(ctx, dto.LoginRequest{Phone: "x", AccessCode: "y"})
	require.ErrorIs(t, err, ErrMissingClinic)
	_, err = s.Login(ctx, dto.LoginRequest{ClinicID: "c", AccessCode: "y"})
	require.ErrorIs(t, err, ErrMissingPhone)
	_, err = s.Login(ctx, dto.LoginRequest{ClinicID: "c", Phone: "x"})
	require.ErrorIs(t, err, ErrMissingAccessCode)
}
