package auth

import "github.com/clinicia-hq/clinicia-server/internal/domain/types"

// Authorize decide el tenant efectivo para un request. Es una función pura y
// total: todo par (session, requested) mapea exactamente a un resultado.
//
// Reglas, en orden:
//  1. SUPER_ADMIN: el tenant efectivo es el solicitado tal cual. Vacío
//     significa "todas las clínicas" (queries agregadas del operador).
//  2. Staff sin clínica asignada (cuenta aún no incorporada): ErrForbidden.
//     El tenant vacío como comodín es exclusivo de SUPER_ADMIN; nunca puede
//     llegar al store desde un rol común.
//  3. Cualquier otro rol: el solicitado debe ser igual al de la sesión, o
//     estar vacío (default al de la sesión). Mismatch -> ErrForbidden.
//
// Centralizar esta regla evita que cada handler re-derive el chequeo de
// tenant por su cuenta; TODO acceso a datos tenant-scoped pasa por acá.
func Authorize(session types.AuthSession, requestedTenantID string) (string, error) {
	if session.Role == types.RoleSuperAdmin {
		return requestedTenantID, nil
	}
	if session.TenantID == "" {
		return "", ErrForbidden
	}
	if requestedTenantID == "" {
		return session.TenantID, nil
	}
	if requestedTenantID != session.TenantID {
		return "", ErrForbidden
	}
	return requestedTenantID, nil
}
