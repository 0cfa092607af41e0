package users

import "time"

// OnboardRequest contains the body for POST /api/users/onboard.
// Links the caller's identity-provider subject to a User row.
type OnboardRequest struct {
	ClinicID string `json:"clinic_id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
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

// ListResponse wraps a list of users.
type ListResponse struct {
	Users []UserResponse `json:"users"`
}
