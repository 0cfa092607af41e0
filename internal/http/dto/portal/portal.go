package portal

import "time"

// LoginRequest contains the body for POST /api/portal/login.
type LoginRequest struct {
	ClinicID   string `json:"clinic_id"`
	Phone      string `json:"phone"`
	AccessCode string `json:"access_code"`
}

// LoginResponse carries the short-lived portal token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ProfileResponse is what a patient sees of their own record.
type ProfileResponse struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// AppointmentResponse is the portal view of an appointment.
type AppointmentResponse struct {
	ID          string    `json:"id"`
	At          time.Time `json:"at"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	TokenNumber int       `json:"token_number"`
}

// PrescriptionResponse is the portal view of a prescription.
type PrescriptionResponse struct {
	Medicine string `json:"medicine"`
	Dosage   string `json:"dosage"`
	Duration string `json:"duration,omitempty"`
}

// VisitResponse is the portal view of a visit, with its prescriptions.
type VisitResponse struct {
	ID            string                 `json:"id"`
	Diagnosis     string                 `json:"diagnosis,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	Prescriptions []PrescriptionResponse `json:"prescriptions"`
}
