package types

import "time"

// Principal es la representación verificada del caller según el identity
// provider. Es efímero: vive solo durante el request, nunca se persiste.
type Principal struct {
	SubjectID string
	Email     string
	ExpiresAt time.Time
}

// AuthSession es la sesión resuelta de un request: quién llama, para qué
// clínica y con qué rol. Se construye fresca en cada request a partir de
// Principal + fila de usuario; nunca se cachea entre requests.
type AuthSession struct {
	SubjectID string
	Email     string
	TenantID  string
	UserID    string
	Role      Role
}

// PatientPrincipal es el caller del portal de pacientes. Es una variante
// distinta de AuthSession, NO un rol de usuario staff: un paciente nunca
// pasa por el Tenant Guard del staff.
type PatientPrincipal struct {
	PatientID string
	TenantID  string
	ExpiresAt time.Time
}
