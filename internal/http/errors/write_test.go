package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

// La taxonomía completa: cada sentinel mapea a exactamente un status.
func TestWriteError_Taxonomy(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", auth.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"not provisioned", auth.ErrUserNotProvisioned, http.StatusUnauthorized, "USER_NOT_PROVISIONED"},
		{"forbidden", auth.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"store unavailable", auth.ErrStoreUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"wrapped store unavailable", stderrors.Join(auth.ErrStoreUnavailable, fmt.Errorf("dial tcp")), http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"core not found", core.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"core conflict", core.ErrConflict, http.StatusConflict, "CONFLICT"},
		{"core unavailable", core.ErrUnavailable, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
		{"app error", ErrTooManyRequests, http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tc.err)

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var body struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("body no es JSON: %v", err)
			}
			if body.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", body.Code, tc.wantCode)
			}
			if body.Message == "" {
				t.Fatal("message vacío")
			}
		})
	}
}

// El body nunca filtra la causa interna.
func TestWriteError_NoInternalLeak(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, stderrors.Join(auth.ErrStoreUnavailable, fmt.Errorf("password=hunter2 dial tcp 10.0.0.5")))

	got := rec.Body.String()
	if strings.Contains(got, "hunter2") || strings.Contains(got, "10.0.0.5") {
		t.Fatalf("respuesta filtra internals: %s", got)
	}
}

func TestWithDetailCopies(t *testing.T) {
	base := ErrBadRequest
	modified := base.WithDetail("campo x")
	if base.Detail != "" {
		t.Fatal("WithDetail mutó la variable global")
	}
	if modified.Detail != "campo x" || modified.Code != base.Code {
		t.Fatalf("copia incorrecta: %+v", modified)
	}
}
