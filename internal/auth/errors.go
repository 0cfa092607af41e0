package auth

import "errors"

// Taxonomía de errores de la capa de autorización. Los handlers mapean:
// Unauthenticated/UserNotProvisioned -> 401, Forbidden -> 403,
// StoreUnavailable -> 503. Esta capa nunca reintenta.
var (
	// ErrUnauthenticated: credencial ausente, malformada, expirada o con
	// firma inválida. Todas las fallas del verifier colapsan en este error.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUserNotProvisioned: credencial válida pero sin fila de usuario
	// vinculada al subject id.
	ErrUserNotProvisioned = errors.New("user not provisioned")

	// ErrForbidden: sesión válida pero el tenant solicitado no coincide.
	ErrForbidden = errors.New("forbidden")

	// ErrStoreUnavailable: falla de infraestructura durante el lookup.
	// NUNCA se confunde con ErrUnauthenticated: es un 5xx, no un 401.
	ErrStoreUnavailable = errors.New("store unavailable")
)
