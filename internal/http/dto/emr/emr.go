package emr

import "time"

// CreateVisitRequest contains the body for POST /api/visits.
type CreateVisitRequest struct {
	PatientID     string `json:"patient_id"`
	DoctorID      string `json:"doctor_id"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Complaint     string `json:"complaint"`
	Diagnosis     string `json:"diagnosis,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// VisitResponse is the wire representation of a visit.
type VisitResponse struct {
	ID            string    `json:"id"`
	ClinicID      string    `json:"clinic_id"`
	PatientID     string    `json:"patient_id"`
	DoctorID      string    `json:"doctor_id"`
	AppointmentID *string   `json:"appointment_id,omitempty"`
	Complaint     string    `json:"complaint"`
	Diagnosis     string    `json:"diagnosis,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AddPrescriptionRequest contains the body for POST /api/visits/{id}/prescriptions.
type AddPrescriptionRequest struct {
	Medicine string `json:"medicine"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// PrescriptionResponse is the wire representation of a prescription.
type PrescriptionResponse struct {
	ID       string `json:"id"`
	VisitID  string `json:"visit_id"`
	Medicine string `json:"medicine"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// RecordVitalsRequest contains the body for POST /api/patients/{id}/vitals.
type RecordVitalsRequest struct {
	VisitID     string   `json:"visit_id,omitempty"`
	HeightCm    *float64 `json:"height_cm,omitempty"`
	WeightKg    *float64 `json:"weight_kg,omitempty"`
	Systolic    *int     `json:"systolic,omitempty"`
	Diastolic   *int     `json:"diastolic,omitempty"`
	Pulse       *int     `json:"pulse,omitempty"`
	TempCelsius *float64 `json:"temp_celsius,omitempty"`
}

// VitalsResponse is the wire representation of a vitals reading.
type VitalsResponse struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patient_id"`
	VisitID     *string   `json:"visit_id,omitempty"`
	HeightCm    *float64  `json:"height_cm,omitempty"`
	WeightKg    *float64  `json:"weight_kg,omitempty"`
	Systolic    *int      `json:"systolic,omitempty"`
	Diastolic   *int      `json:"diastolic,omitempty"`
	Pulse       *int      `json:"pulse,omitempty"`
	TempCelsius *float64  `json:"temp_celsius,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
}
