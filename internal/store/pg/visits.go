package pg

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicia-hq/clinicia-server/internal/store/core"
)

func (s *Store) CreateVisit(ctx context.Context, v *core.Visit) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO visit (id, tenant_id, patient_id, doctor_id, appointment_id, complaint, diagnosis, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		v.ID, v.TenantID, v.PatientID, v.DoctorID, v.AppointmentID, v.Complaint, v.Diagnosis, v.Notes)
	return mapErr(err)
}

func (s *Store) GetVisit(ctx context.Context, tenantID, id string) (*core.Visit, error) {
	var v core.Visit
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, patient_id, doctor_id, appointment_id, complaint, diagnosis, notes, created_at
		FROM visit WHERE id = $1 AND ($2 = '' OR tenant_id = $2)`,
		id, tenantID).
		Scan(&v.ID, &v.TenantID, &v.PatientID, &v.DoctorID, &v.AppointmentID,
			&v.Complaint, &v.Diagnosis, &v.Notes, &v.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (s *Store) ListVisitsByPatient(ctx context.Context, tenantID, patientID string) ([]core.Visit, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, patient_id, doctor_id, appointment_id, complaint, diagnosis, notes, created_at
		FROM visit WHERE tenant_id = $1 AND patient_id = $2 ORDER BY created_at DESC`,
		tenantID, patientID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Visit
	for rows.Next() {
		var v core.Visit
		if err := rows.Scan(&v.ID, &v.TenantID, &v.PatientID, &v.DoctorID, &v.AppointmentID,
			&v.Complaint, &v.Diagnosis, &v.Notes, &v.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, v)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) CreatePrescription(ctx context.Context, p *core.Prescription) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO prescription (id, tenant_id, visit_id, medicine, dosage, duration, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.TenantID, p.VisitID, p.Medicine, p.Dosage, p.Duration, p.Notes)
	return mapErr(err)
}

func (s *Store) ListPrescriptionsByVisit(ctx context.Context, tenantID, visitID string) ([]core.Prescription, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, visit_id, medicine, dosage, duration, notes
		FROM prescription WHERE tenant_id = $1 AND visit_id = $2`,
		tenantID, visitID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Prescription
	for rows.Next() {
		var p core.Prescription
		if err := rows.Scan(&p.ID, &p.TenantID, &p.VisitID, &p.Medicine, &p.Dosage, &p.Duration, &p.Notes); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) RecordVitals(ctx context.Context, v *core.Vitals) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO vitals (id, tenant_id, patient_id, visit_id, height_cm, weight_kg, systolic, diastolic, pulse, temp_celsius, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		v.ID, v.TenantID, v.PatientID, v.VisitID, v.HeightCm, v.WeightKg,
		v.Systolic, v.Diastolic, v.Pulse, v.TempCelsius, v.RecordedAt)
	return mapErr(err)
}

func (s *Store) ListVitalsByPatient(ctx context.Context, tenantID, patientID string) ([]core.Vitals, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, patient_id, visit_id, height_cm, weight_kg, systolic, diastolic, pulse, temp_celsius, recorded_at
		FROM vitals WHERE tenant_id = $1 AND patient_id = $2 ORDER BY recorded_at DESC`,
		tenantID, patientID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var out []core.Vitals
	for rows.Next() {
		var v core.Vitals
		if err := rows.Scan(&v.ID, &v.TenantID, &v.PatientID, &v.VisitID, &v.HeightCm, &v.WeightKg,
			&v.Systolic, &v.Diastolic, &v.Pulse, &v.TempCelsius, &v.RecordedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, v)
	}
	return out, mapErr(rows.Err())
}
