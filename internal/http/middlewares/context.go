package middlewares

import (
	"context"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxSessionKey guarda la AuthSession resuelta del request
	ctxSessionKey ctxKey = "session"
	// ctxPatientKey guarda el PatientPrincipal del portal
	ctxPatientKey ctxKey = "patient"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
)

// =================================================================================
// CONTEXT SETTERS (Internos, usados por middlewares)
// =================================================================================

// WithSession inyecta la AuthSession en el contexto.
// La sesión es propiedad exclusiva del request que la creó: se construye
// fresca por request y nunca se comparte ni se cachea.
func WithSession(ctx context.Context, s types.AuthSession) context.Context {
	return context.WithValue(ctx, ctxSessionKey, s)
}

// WithPatient inyecta el PatientPrincipal del portal en el contexto.
func WithPatient(ctx context.Context, p types.PatientPrincipal) context.Context {
	return context.WithValue(ctx, ctxPatientKey, p)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// =================================================================================
// CONTEXT GETTERS (Públicos, usados por controllers/services)
// =================================================================================

// GetSession obtiene la AuthSession del contexto.
// ok=false si el middleware de auth no se aplicó.
func GetSession(ctx context.Context) (types.AuthSession, bool) {
	if v := ctx.Value(ctxSessionKey); v != nil {
		if s, ok := v.(types.AuthSession); ok {
			return s, true
		}
	}
	return types.AuthSession{}, false
}

// MustGetSession obtiene la AuthSession o hace panic.
// Usar solo en rutas donde RequireSession SIEMPRE se aplica.
func MustGetSession(ctx context.Context) types.AuthSession {
	s, ok := GetSession(ctx)
	if !ok {
		panic("middlewares: no session in context")
	}
	return s
}

// GetPatient obtiene el PatientPrincipal del contexto.
func GetPatient(ctx context.Context) (types.PatientPrincipal, bool) {
	if v := ctx.Value(ctxPatientKey); v != nil {
		if p, ok := v.(types.PatientPrincipal); ok {
			return p, true
		}
	}
	return types.PatientPrincipal{}, false
}

// GetRequestID obtiene el request ID del contexto.
// Retorna cadena vacía si no hay request ID.
func GetRequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
