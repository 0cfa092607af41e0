package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicia-hq/clinicia-server/internal/domain/types"
	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

const userCols = `id, tenant_id, subject_id, email, name, role, created_at`

func scanUser(row interface{ Scan(...any) error }) (*core.User, error) {
	var u core.User
	var tenantID *string
	var role string
	if err := row.Scan(&u.ID, &tenantID, &u.SubjectID, &u.Email, &u.Name, &role, &u.CreatedAt); err != nil {
		return nil, err
	}
	if tenantID != nil {
		u.TenantID = *tenantID
	}
	u.Role = types.Role(role)
	return &u, nil
}

// GetUserBySubjectID es el read del Session Resolver: un único round-trip.
func (s *Store) GetUserBySubjectID(ctx context.Context, subjectID string) (*core.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE subject_id = $1`, subjectID)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) GetUser(ctx context.Context, tenantID, id string) (*core.User, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM app_user WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`,
		id, tenantID)
	u, err := scanUser(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u *core.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	var tenantID *string
	if u.TenantID != "" {
		tenantID = &u.TenantID
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO app_user (id, tenant_id, subject_id, email, name, role)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, tenantID, u.SubjectID, u.Email, u.Name, string(u.Role))
	return mapErr(err)
}

func (s *Store) ListUsers(ctx context.Context, tenantID string) ([]core.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM app_user WHERE ($1 = '' OR tenant_id = $1) ORDER BY created_at`,
		tenantID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, *u)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) ListDoctors(ctx context.Context, tenantID string) ([]core.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM app_user WHERE tenant_id = $1 AND role = 'DOCTOR' ORDER BY name`,
		tenantID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, *u)
	}
	return out, mapErr(rows.Err())
}
