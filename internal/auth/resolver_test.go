package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

type fakeUsers struct {
	users map[string]*core.User
	err   error
	calls int
}

func (f *fakeUsers) GetUserBySubjectID(_ context.Context, subjectID string) (*core.User, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[subjectID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func TestResolve_LinkedUser(t *testing.T) {
	users := &fakeUsers{users: map[string]*core.User{
		"sub-1": {ID: "u-1", TenantID: "clinic-a", SubjectID: "sub-1", Email: "stored@x.com", Role: types.RoleDoctor},
	}}
	r := NewSessionResolver(users)

	s, err := r.Resolve(context.Background(), types.Principal{SubjectID: "sub-1", Email: "fresh@x.com"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.UserID != "u-1" || s.TenantID != "clinic-a" || s.Role != types.RoleDoctor {
		t.Fatalf("session = %+v", s)
	}
	// El email del provider gana sobre el almacenado
	if s.Email != "fresh@x.com" {
		t.Fatalf("email = %q, want provider email", s.Email)
	}
	if users.calls != 1 {
		t.Fatalf("store reads = %d, want exactly 1", users.calls)
	}
}

func TestResolve_StoredEmailFallback(t *testing.T) {
	users := &fakeUsers{users: map[string]*core.User{
		"sub-1": {ID: "u-1", TenantID: "clinic-a", Email: "stored@x.com", Role: types.RoleAdmin},
	}}
	r := NewSessionResolver(users)

	s, err := r.Resolve(context.Background(), types.Principal{SubjectID: "sub-1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Email != "stored@x.com" {
		t.Fatalf("email = %q, want stored email", s.Email)
	}
}

// Credencial válida pero sin fila de usuario: NO es Unauthenticated.
func TestResolve_NotProvisioned(t *testing.T) {
	r := NewSessionResolver(&fakeUsers{users: map[string]*core.User{}})

	_, err := r.Resolve(context.Background(), types.Principal{SubjectID: "ghost"})
	if !errors.Is(err, ErrUserNotProvisioned) {
		t.Fatalf("err = %v, want ErrUserNotProvisioned", err)
	}
	if errors.Is(err, ErrUnauthenticated) {
		t.Fatal("not-provisioned no debe colapsar en unauthenticated")
	}
}

// Falla de infraestructura: se distingue de "no existe" y preserva la causa.
func TestResolve_StoreUnavailable(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	r := NewSessionResolver(&fakeUsers{err: errors.Join(core.ErrUnavailable, cause)})

	_, err := r.Resolve(context.Background(), types.Principal{SubjectID: "sub-1"})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("err = %v, want ErrStoreUnavailable", err)
	}
	if errors.Is(err, ErrUserNotProvisioned) {
		t.Fatal("una falla de store no debe reportarse como not-provisioned")
	}
	if !errors.Is(err, core.ErrUnavailable) {
		t.Fatal("la causa original debe conservarse para logs")
	}
}

// Resolver dos veces el mismo principal da sesiones idénticas.
func TestResolve_Idempotent(t *testing.T) {
	users := &fakeUsers{users: map[string]*core.User{
		"sub-1": {ID: "u-1", TenantID: "clinic-a", Email: "a@x.com", Role: types.RoleDoctor},
	}}
	r := NewSessionResolver(users)
	p := types.Principal{SubjectID: "sub-1", Email: "a@x.com"}

	s1, err1 := r.Resolve(context.Background(), p)
	s2, err2 := r.Resolve(context.Background(), p)
	if err1 != nil || err2 != nil {
		t.Fatalf("errs = %v, %v", err1, err2)
	}
	if s1 != s2 {
		t.Fatalf("sessions differ: %+v vs %+v", s1, s2)
	}
}
