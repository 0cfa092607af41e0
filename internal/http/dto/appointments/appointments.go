package appointments

import "time"

// BookRequest contains the body for POST /api/appointments.
type BookRequest struct {
	PatientID string    `json:"patient_id"`
	DoctorID  string    `json:"doctor_id"`
	At        time.Time `json:"at"`
	Type      string    `json:"type"`
	Notes     string    `json:"notes,omitempty"`
}

// UpdateStatusRequest contains the body for PATCH /api/appointments/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AppointmentResponse is the wire representation of an appointment.
type AppointmentResponse struct {
	ID          string    `json:"id"`
	ClinicID    string    `json:"clinic_id"`
	PatientID   string    `json:"patient_id"`
	DoctorID    string    `json:"doctor_id"`
	At          time.Time `json:"at"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	TokenNumber int       `json:"token_number"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListResponse wraps a list of appointments.
type ListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
}
