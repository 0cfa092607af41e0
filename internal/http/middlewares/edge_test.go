package middlewares

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func edgeToken(exp time.Time) string {
	payload := base64.RawURLEncoding.EncodeToString(
		[]byte(fmt.Sprintf(`{"exp":%d}`, exp.Unix())))
	return "h." + payload + ".s"
}

func TestClassify_Table(t *testing.T) {
	rules := DefaultEdgeRules()

	cases := []struct {
		path string
		want RouteClass
	}{
		{"/login", RouteAuthOnly},
		{"/signup", RouteAuthOnly},
		{"/register", RouteAuthOnly},
		{"/register/doctor", RouteAuthOnly},
		{"/pricing", RouteAuthOnly},
		{"/", RoutePublic},
		{"/terms", RoutePublic},
		{"/privacy", RoutePublic},
		{"/refund", RoutePublic},
		{"/cookies", RoutePublic},
		{"/p/clinic-demo", RoutePublic},
		{"/portal", RoutePublic},
		{"/portal/login", RoutePublic},
		{"/dashboard", RouteProtected},
		{"/patients/123", RouteProtected},
		{"/settings", RouteProtected},
		// prefijo no declarado: /login/extra NO es auth-only
		{"/login/extra", RouteProtected},
	}
	for _, tc := range cases {
		if got := rules.Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func edgeHandler(now time.Time) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return WithEdgeGate(EdgeConfig{
		CookieName: "__session",
		Now:        func() time.Time { return now },
	})(next)
}

// Cookie expirada en ruta protegida: redirect al login preservando el
// destino, y la cookie se limpia.
func TestEdgeGate_ExpiredCookieOnProtected(t *testing.T) {
	now := time.Now()
	h := edgeHandler(now)

	req := httptest.NewRequest("GET", "/patients/42/history", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: edgeToken(now.Add(-time.Hour))})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	loc := rec.Header().Get("Location")
	want := "/login?redirect=" + url.QueryEscape("/patients/42/history")
	if loc != want {
		t.Fatalf("Location = %q, want %q", loc, want)
	}

	var cleared bool
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "__session" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("la cookie vencida no se limpió")
	}
}

func TestEdgeGate_NoCookieOnProtected(t *testing.T) {
	h := edgeHandler(time.Now())

	req := httptest.NewRequest("GET", "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	// Sin cookie no hay nada que limpiar
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "__session" {
			t.Fatal("se seteó una cookie de limpieza sin cookie presente")
		}
	}
}

// Cookie fresca en ruta auth-only: directo al dashboard.
func TestEdgeGate_FreshCookieOnAuthOnly(t *testing.T) {
	now := time.Now()
	h := edgeHandler(now)

	req := httptest.NewRequest("GET", "/login", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: edgeToken(now.Add(time.Hour))})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("Location = %q, want /dashboard", loc)
	}
}

func TestEdgeGate_FreshCookieOnProtected(t *testing.T) {
	now := time.Now()
	h := edgeHandler(now)

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: edgeToken(now.Add(time.Hour))})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// Público pasa siempre, con o sin cookie, fresca o vencida.
func TestEdgeGate_PublicAlwaysAllowed(t *testing.T) {
	now := time.Now()
	h := edgeHandler(now)

	for _, cookie := range []*http.Cookie{
		nil,
		{Name: "__session", Value: edgeToken(now.Add(time.Hour))},
		{Name: "__session", Value: edgeToken(now.Add(-time.Hour))},
		{Name: "__session", Value: "malformed"},
	} {
		req := httptest.NewRequest("GET", "/terms", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("cookie %v: status = %d, want 200", cookie, rec.Code)
		}
	}
}

// Malformada = ausente: fail closed en protegidas, sin panic.
func TestEdgeGate_MalformedCookie(t *testing.T) {
	h := edgeHandler(time.Now())

	req := httptest.NewRequest("GET", "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "__session", Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}
