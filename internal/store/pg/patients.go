package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

const patientCols = `id, tenant_id, first_name, last_name, phone, email, gender, birth_date, access_hash, created_at`

func scanPatient(row interface{ Scan(...any) error }) (*core.Patient, error) {
	var p core.Patient
	if err := row.Scan(&p.ID, &p.TenantID, &p.FirstName, &p.LastName, &p.Phone,
		&p.Email, &p.Gender, &p.BirthDate, &p.AccessHash, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) CreatePatient(ctx context.Context, p *core.Patient) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO patient (id, tenant_id, first_name, last_name, phone, email, gender, birth_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TenantID, p.FirstName, p.LastName, p.Phone, p.Email, p.Gender, p.BirthDate)
	return mapErr(err)
}

func (s *Store) GetPatient(ctx context.Context, tenantID, id string) (*core.Patient, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`,
		id, tenantID)
	p, err := scanPatient(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *Store) GetPatientByPhone(ctx context.Context, tenantID, phone string) (*core.Patient, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+patientCols+` FROM patient WHERE phone = $1 AND ($2 = '' OR tenant_id = $2)`,
		phone, tenantID)
	p, err := scanPatient(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *Store) UpdatePatient(ctx context.Context, p *core.Patient) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE patient
		   SET first_name = $3, last_name = $4, phone = $5, email = $6,
		       gender = $7, birth_date = $8
		 WHERE id = $1 AND tenant_id = $2`,
		p.ID, p.TenantID, p.FirstName, p.LastName, p.Phone, p.Email, p.Gender, p.BirthDate)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) SearchPatients(ctx context.Context, tenantID, q string, limit int) ([]core.Patient, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+patientCols+` FROM patient
		 WHERE tenant_id = $1
		   AND ($2 = '' OR first_name ILIKE '%'||$2||'%' OR last_name ILIKE '%'||$2||'%' OR phone LIKE $2||'%')
		 ORDER BY last_name, first_name
		 LIMIT $3`,
		tenantID, q, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, *p)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) SetPatientAccessHash(ctx context.Context, tenantID, id, hash string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE patient SET access_hash = $3 WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, hash)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
