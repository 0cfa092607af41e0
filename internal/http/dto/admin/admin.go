package admin

import "time"

// CreateClinicRequest contains the body for POST /api/admin/clinics.
type CreateClinicRequest struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ClinicResponse is the wire representation of a clinic.
type ClinicResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse holds the cross-tenant operator dashboard.
type StatsResponse struct {
	Clinics      int64            `json:"clinics"`
	Users        int64            `json:"users"`
	Patients     int64            `json:"patients"`
	Appointments int64            `json:"appointments"`
	Recent       []ClinicResponse `json:"recent_clinics"`
}

// UserResponse is the wire representation of a staff user.
type UserResponse struct {
	ID        string    `json:"id"`
	ClinicID  string    `json:"clinic_id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
