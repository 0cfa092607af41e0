package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/clinicia-hq/clinicia-server/internal/auth"
	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	"github.com/clinicia-hq/clinicia-server/internal/metrics"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
)

// =================================================================================
// CREDENTIAL EXTRACTION
// =================================================================================

// ExtractCredential busca la credencial del caller: cookie de sesión
// preferida, header Authorization: Bearer como fallback.
func ExtractCredential(r *http.Request, cookieName string) string {
	if ck, err := r.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if ah != "" && strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return strings.TrimSpace(ah[len("Bearer "):])
	}
	return ""
}

// =================================================================================
// STAFF SESSION
// =================================================================================

// SessionResolver es lo que el middleware necesita del resolver.
type SessionResolver interface {
	Resolve(ctx context.Context, p types.Principal) (types.AuthSession, error)
}

// RequireSession es el gate real de los handlers protegidos: verifica la
// credencial contra el identity provider, resuelve la AuthSession (un read
// al store) y la inyecta en el contexto. Corre en CADA request protegido;
// el fast-path del edge middleware nunca lo reemplaza.
func RequireSession(verifier auth.Verifier, resolver SessionResolver, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cred := ExtractCredential(r, cookieName)
			if cred == "" {
				metrics.AuthOutcome("unauthenticated")
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}

			principal, err := verifier.Verify(r.Context(), cred)
			if err != nil {
				metrics.AuthOutcome("unauthenticated")
				w.Header().Set("WWW-Authenticate", `Bearer realm="api", error="invalid_token"`)
				httperrors.WriteError(w, err)
				return
			}

			session, err := resolver.Resolve(r.Context(), principal)
			if err != nil {
				switch {
				case err == auth.ErrUserNotProvisioned:
					metrics.AuthOutcome("not_provisioned")
				default:
					metrics.AuthOutcome("store_error")
					logger.From(r.Context()).Error("session resolve failed", logger.Err(err))
				}
				httperrors.WriteError(w, err)
				return
			}

			metrics.AuthOutcome("ok")
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireRole exige que la sesión tenga uno de los roles dados.
// Debe usarse después de RequireSession.
func RequireRole(roles ...types.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := GetSession(r.Context())
			if !ok {
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}
			for _, role := range roles {
				if s.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httperrors.WriteError(w, httperrors.ErrForbidden)
		})
	}
}

// =================================================================================
// PATIENT PORTAL
// =================================================================================

// PortalVerifier valida tokens del portal de pacientes.
type PortalVerifier interface {
	Verify(token string) (types.PatientPrincipal, error)
}

// RequirePortal autentica un request del portal de pacientes. El principal
// resultante es un paciente, no un usuario staff: nunca pasa por el Tenant
// Guard y solo puede operar sobre sus propios datos.
func RequirePortal(tokens PortalVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
				httperrors.WriteError(w, httperrors.ErrUnauthenticated)
				return
			}
			p, err := tokens.Verify(strings.TrimSpace(ah[len("Bearer "):]))
			if err != nil {
				httperrors.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPatient(r.Context(), p)))
		})
	}
}
