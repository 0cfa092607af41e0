package helpers

import (
	"net/http"

	"github.com/clinicia-hq/clinicia-server/internal/audit"
	"github.com/clinicia-hq/clinicia-server/internal/auth"
	httperrors "github.com/clinicia-hq/clinicia-server/internal/http/errors"
	mw "github.com/clinicia-hq/clinicia-server/internal/http/middlewares"
	"github.com/clinicia-hq/clinicia-server/internal/metrics"
	"github.com/clinicia-hq/clinicia-server/internal/observability/logger"
)

// RequestedTenant extrae el tenant pedido por el caller: header
// X-Clinic-Id preferido, query param clinic_id como fallback. Cadena
// vacía significa "sin pedido explícito" (el guard resuelve el default).
func RequestedTenant(r *http.Request) string {
	if v := r.Header.Get("X-Clinic-Id"); v != "" {
		return v
	}
	return r.URL.Query().Get("clinic_id")
}

// AuthorizeTenant pasa el tenant pedido por el Tenant Guard contra la
// sesión del contexto y devuelve el tenant efectivo. Si el guard niega,
// escribe el 403 y devuelve ok=false. Todo handler tenant-scoped debe
// pasar por acá antes de tocar el store.
func AuthorizeTenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	session := mw.MustGetSession(r.Context())
	effective, err := auth.Authorize(session, RequestedTenant(r))
	if err != nil {
		metrics.TenantDenied()
		audit.Record(r.Context(), audit.TenantDenied,
			logger.UserID(session.UserID),
			logger.TenantID(RequestedTenant(r)),
			logger.Role(string(session.Role)),
			logger.Path(r.URL.Path),
		)
		httperrors.WriteError(w, err)
		return "", false
	}
	return effective, true
}
