package session

// EstablishRequest contains the body for POST /api/auth/session.
type EstablishRequest struct {
	Token string `json:"token"`
}

// EstablishResponse describes the session that was established.
type EstablishResponse struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id,omitempty"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// CookieConfig contains configuration for the session cookie.
type CookieConfig struct {
	Name     string // Cookie name (default: "__session")
	SameSite string // SameSite policy ("Lax", "Strict", "None")
	Secure   bool   // Secure flag (on in prod)
	MaxAge   int    // Lifetime in seconds (default: 3600)
}
