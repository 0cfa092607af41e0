package patients

import "time"

// CreatePatientRequest contains the body for POST /api/patients.
type CreatePatientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email,omitempty"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birth_date,omitempty"` // YYYY-MM-DD
}

// UpdatePatientRequest contains the body for PUT /api/patients/{id}.
// Zero-value fields are left unchanged.
type UpdatePatientRequest struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}

// SetAccessCodeRequest contains the body for POST /api/patients/{id}/access-code.
type SetAccessCodeRequest struct {
	AccessCode string `json:"access_code"`
}

// PatientResponse is the wire representation of a patient.
type PatientResponse struct {
	ID            string     `json:"id"`
	ClinicID      string     `json:"clinic_id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Phone         string     `json:"phone"`
	Email         string     `json:"email,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	PortalEnabled bool       `json:"portal_enabled"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ListResponse wraps a page of patients.
type ListResponse struct {
	Patients []PatientResponse `json:"patients"`
}
