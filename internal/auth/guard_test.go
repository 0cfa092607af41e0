package auth

import (
	"errors"
	"testing"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
)

func TestAuthorize_Matrix(t *testing.T) {
	cases := []struct {
		name      string
		role      types.Role
		sessionTn string
		requested string
		want      string
		wantErr   error
	}{
		{"doctor own tenant", types.RoleDoctor, "clinic-a", "clinic-a", "clinic-a", nil},
		{"doctor default tenant", types.RoleDoctor, "clinic-a", "", "clinic-a", nil},
		{"doctor cross tenant", types.RoleDoctor, "clinic-a", "clinic-b", "", ErrForbidden},
		{"doctor without tenant", types.RoleDoctor, "", "", "", ErrForbidden},
		{"admin own tenant", types.RoleAdmin, "clinic-a", "clinic-a", "clinic-a", nil},
		{"admin cross tenant", types.RoleAdmin, "clinic-a", "clinic-b", "", ErrForbidden},
		{"super admin explicit tenant", types.RoleSuperAdmin, "", "clinic-b", "clinic-b", nil},
		{"super admin all tenants", types.RoleSuperAdmin, "", "", "", nil},
		{"super admin with home tenant", types.RoleSuperAdmin, "clinic-a", "clinic-b", "clinic-b", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session := types.AuthSession{TenantID: tc.sessionTn, Role: tc.role}
			got, err := Authorize(session, tc.requested)
			if !errors.Is(err, tc.wantErr) && err != tc.wantErr {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if got != tc.want {
				t.Fatalf("effective = %q, want %q", got, tc.want)
			}
		})
	}
}

// Dos usuarios del mismo tenant acceden ambos; el mismo request contra
// otro tenant es denegado para los dos.
func TestAuthorize_SameTenantPeers(t *testing.T) {
	doctor := types.AuthSession{TenantID: "clinic-a", Role: types.RoleDoctor}
	admin := types.AuthSession{TenantID: "clinic-a", Role: types.RoleAdmin}

	for _, s := range []types.AuthSession{doctor, admin} {
		if _, err := Authorize(s, "clinic-a"); err != nil {
			t.Fatalf("same-tenant access denied: %v", err)
		}
		if _, err := Authorize(s, "clinic-b"); !errors.Is(err, ErrForbidden) {
			t.Fatalf("cross-tenant access: err = %v, want ErrForbidden", err)
		}
	}
}

// Un usuario sin tenant (todavía no incorporado) es denegado siempre:
// el tenant vacío nunca baja al store como comodín desde un rol común.
func TestAuthorize_UserWithoutTenant(t *testing.T) {
	for _, role := range []types.Role{types.RoleDoctor, types.RoleAdmin} {
		s := types.AuthSession{TenantID: "", Role: role}

		for _, requested := range []string{"", "clinic-a"} {
			got, err := Authorize(s, requested)
			if !errors.Is(err, ErrForbidden) {
				t.Fatalf("role=%s requested=%q: err = %v, want ErrForbidden", role, requested, err)
			}
			if got != "" {
				t.Fatalf("role=%s requested=%q: effective = %q, want empty", role, requested, got)
			}
		}
	}
}

// La función es total: cualquier combinación devuelve tenant o error,
// nunca ambos.
func TestAuthorize_Totality(t *testing.T) {
	roles := []types.Role{types.RoleDoctor, types.RoleAdmin, types.RoleSuperAdmin, types.Role("BOGUS")}
	tenants := []string{"", "clinic-a", "clinic-b"}

	for _, role := range roles {
		for _, own := range tenants {
			for _, req := range tenants {
				got, err := Authorize(types.AuthSession{TenantID: own, Role: role}, req)
				if err != nil && got != "" {
					t.Fatalf("role=%s own=%q req=%q: tenant %q junto con error %v", role, own, req, got, err)
				}
			}
		}
	}
}
