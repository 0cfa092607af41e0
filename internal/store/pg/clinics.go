package pg

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

func (s *Store) CreateClinic(ctx context.Context, c *core.Clinic) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	settings, _ := json.Marshal(c.Settings)
	_, err := s.pool.Exec(ctx, `
		INSERT INTO clinic (id, name, slug, phone, address, settings)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.Name, c.Slug, c.Phone, c.Address, settings)
	return mapErr(err)
}

func (s *Store) GetClinic(ctx context.Context, id string) (*core.Clinic, error) {
	var c core.Clinic
	var settings []byte
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, slug, phone, address, settings, created_at
		FROM clinic WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Phone, &c.Address, &settings, &c.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if len(settings) > 0 {
		_ = json.Unmarshal(settings, &c.Settings)
	}
	return &c, nil
}

func (s *Store) ListClinics(ctx context.Context) ([]core.Clinic, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, slug, phone, address, settings, created_at
		FROM clinic ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Clinic
	for rows.Next() {
		var c core.Clinic
		var settings []byte
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Phone, &c.Address, &settings, &c.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		if len(settings) > 0 {
			_ = json.Unmarshal(settings, &c.Settings)
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

// CountStats corre los agregados cross-tenant de la consola de operador.
func (s *Store) CountStats(ctx context.Context) (core.PlatformStats, error) {
	var st core.PlatformStats
	err := s.pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM clinic),
			(SELECT count(*) FROM app_user),
			(SELECT count(*) FROM patient),
			(SELECT count(*) FROM appointment)`).
		Scan(&st.Clinics, &st.Users, &st.Patients, &st.Appointments)
	if err != nil {
		return core.PlatformStats{}, mapErr(err)
	}
	return st, nil
}
