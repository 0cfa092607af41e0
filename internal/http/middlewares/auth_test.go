package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
)

type fakeVerifier struct {
	principal types.Principal
	err       error
	seen      string
}

func (f *fakeVerifier) Verify(_ context.Context, credential string) (types.Principal, error) {
	f.seen = credential
	if f.err != nil {
		return types.Principal{}, f.err
	}
	return f.principal, nil
}

type fakeResolver struct {
	session types.AuthSession
	err     error
}

func (f *fakeResolver) Resolve(_ context.Context, _ types.Principal) (types.AuthSession, error) {
	if f.err != nil {
		return types.AuthSession{}, f.err
	}
	return f.session, nil
}

func okHandler(t *testing.T, wantSession types.AuthSession) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := MustGetSession(r.Context())
		if s != wantSession {
			t.Errorf("session en contexto = %+v, want %+v", s, wantSession)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func decodeErrCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("body no es JSON: %v", err)
	}
	return body.Code
}

func TestRequireSession_NoCredential(t *testing.T) {
	mw := RequireSession(&fakeVerifier{}, &fakeResolver{}, "__session")
	rec := httptest.NewRecorder()
	mw(okHandler(t, types.AuthSession{})).ServeHTTP(rec, httptest.NewRequest("GET", "/api/patients", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code := decodeErrCode(t, rec); code != "UNAUTHENTICATED" {
		t.Fatalf("code = %q", code)
	}
}

func TestRequireSession_BadCredential(t *testing.T) {
	mw := RequireSession(&fakeVerifier{err: auth.ErrUnauthenticated}, &fakeResolver{}, "__session")

	req := httptest.NewRequest("GET", "/api/patients", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	rec := httptest.NewRecorder()
	mw(okHandler(t, types.AuthSession{})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireSession_NotProvisioned(t *testing.T) {
	mw := RequireSession(&fakeVerifier{principal: types.Principal{SubjectID: "s"}},
		&fakeResolver{err: auth.ErrUserNotProvisioned}, "__session")

	req := httptest.NewRequest("GET", "/api/patients", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: "tok"})
	rec := httptest.NewRecorder()
	mw(okHandler(t, types.AuthSession{})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if code := decodeErrCode(t, rec); code != "USER_NOT_PROVISIONED" {
		t.Fatalf("code = %q", code)
	}
}

// Infraestructura caída es 503, nunca 401.
func TestRequireSession_StoreUnavailable(t *testing.T) {
	mw := RequireSession(&fakeVerifier{principal: types.Principal{SubjectID: "s"}},
		&fakeResolver{err: auth.ErrStoreUnavailable}, "__session")

	req := httptest.NewRequest("GET", "/api/patients", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: "tok"})
	rec := httptest.NewRecorder()
	mw(okHandler(t, types.AuthSession{})).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestRequireSession_OK(t *testing.T) {
	session := types.AuthSession{SubjectID: "s", TenantID: "clinic-a", UserID: "u-1", Role: types.RoleDoctor}
	verifier := &fakeVerifier{principal: types.Principal{SubjectID: "s"}}
	mw := RequireSession(verifier, &fakeResolver{session: session}, "__session")

	req := httptest.NewRequest("GET", "/api/patients", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: "cookie-token"})
	rec := httptest.NewRecorder()
	mw(okHandler(t, session)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if verifier.seen != "cookie-token" {
		t.Fatalf("credencial vista = %q, want cookie", verifier.seen)
	}
}

// La cookie gana sobre el header Authorization.
func TestExtractCredential_Preference(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: "from-cookie"})
	req.Header.Set("Authorization", "Bearer from-header")

	if got := ExtractCredential(req, "__session"); got != "from-cookie" {
		t.Fatalf("credencial = %q", got)
	}

	req2 := httptest.NewRequest("GET", "/", nil)
	req2.Header.Set("Authorization", "bearer from-header")
	if got := ExtractCredential(req2, "__session"); got != "from-header" {
		t.Fatalf("credencial = %q", got)
	}

	req3 := httptest.NewRequest("GET", "/", nil)
	if got := ExtractCredential(req3, "__session"); got != "" {
		t.Fatalf("credencial = %q, want vacía", got)
	}
}

func TestRequireRole(t *testing.T) {
	mw := RequireRole(types.RoleSuperAdmin)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Con rol correcto
	req := httptest.NewRequest("GET", "/api/admin/stats", nil)
	ctx := WithSession(req.Context(), types.AuthSession{Role: types.RoleSuperAdmin})
	rec := httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusOK {
		t.Fatalf("super admin: status = %d", rec.Code)
	}

	// Con rol insuficiente
	req = httptest.NewRequest("GET", "/api/admin/stats", nil)
	ctx = WithSession(req.Context(), types.AuthSession{Role: types.RoleDoctor})
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, req.WithContext(ctx))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("doctor: status = %d, want 403", rec.Code)
	}

	// Sin sesión
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("sin sesión: status = %d, want 401", rec.Code)
	}
}
