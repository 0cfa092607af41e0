// Package types define tipos de dominio compartidos entre paquetes.
package types

// Role es el rol de un usuario staff dentro de una clínica.
// Es un enum cerrado: cualquier otro valor es inválido.
type Role string

const (
	// RoleDoctor atiende pacientes; siempre pertenece a una clínica.
	RoleDoctor Role = "DOCTOR"
	// RoleAdmin administra una clínica (staff, facturación).
	RoleAdmin Role = "ADMIN"
	// RoleSuperAdmin es el operador de la plataforma; exento del match de tenant.
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsValid retorna true si el rol es uno de los conocidos.
func (r Role) IsValid() bool {
	switch r {
	case RoleDoctor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// ParseRole convierte un string a Role, ok=false si no es válido.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.IsValid()
}
