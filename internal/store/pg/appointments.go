package pg

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

const apptCols = `id, tenant_id, patient_id, doctor_id, at, type, status, token_number, notes, created_at`

func scanAppointment(row interface{ Scan(...any) error }) (*core.Appointment, error) {
	var a core.Appointment
	if err := row.Scan(&a.ID, &a.TenantID, &a.PatientID, &a.DoctorID, &a.At,
		&a.Type, &a.Status, &a.TokenNumber, &a.Notes, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *core.Appointment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointment (id, tenant_id, patient_id, doctor_id, at, type, status, token_number, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.TenantID, a.PatientID, a.DoctorID, a.At, a.Type, a.Status, a.TokenNumber, a.Notes)
	return mapErr(err)
}

func (s *Store) GetAppointment(ctx context.Context, tenantID, id string) (*core.Appointment, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointment WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`,
		id, tenantID)
	a, err := scanAppointment(row)
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (s *Store) ListAppointmentsByDay(ctx context.Context, tenantID string, from, to time.Time) ([]core.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		 WHERE ($1 = '' OR tenant_id = $1) AND at >= $2 AND at < $3
		 ORDER BY at`,
		tenantID, from, to)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (s *Store) ListAppointmentsByPatient(ctx context.Context, tenantID, patientID string) ([]core.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+apptCols+` FROM appointment
		 WHERE tenant_id = $1 AND patient_id = $2
		 ORDER BY at DESC`,
		tenantID, patientID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func collectAppointments(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]core.Appointment, error) {
	var out []core.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, mapErr(err)
		}
		out = append(out, *a)
	}
	return out, mapErr(rows.Err())
}

// CountDoctorConflicts: turnos no cancelados del doctor en [from, to].
func (s *Store) CountDoctorConflicts(ctx context.Context, tenantID, doctorID string, from, to time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM appointment
		 WHERE tenant_id = $1 AND doctor_id = $2
		   AND at >= $3 AND at <= $4
		   AND status <> 'CANCELLED'`,
		tenantID, doctorID, from, to).Scan(&n)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

// CountDoctorDay: turnos del doctor en el día, para asignar token number.
func (s *Store) CountDoctorDay(ctx context.Context, tenantID, doctorID string, dayStart, dayEnd time.Time) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		SELECT count(*) FROM appointment
		 WHERE tenant_id = $1 AND doctor_id = $2
		   AND at >= $3 AND at <= $4`,
		tenantID, doctorID, dayStart, dayEnd).Scan(&n)
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, tenantID, id, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointment SET status = $3 WHERE id = $1 AND tenant_id = $2`,
		id, tenantID, status)
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
