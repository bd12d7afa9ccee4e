package authsdk

import "time"

// ============================================================================
// Form Bootstrap
// ============================================================================

// CSRFResponse carries the token that every state-changing request must
// echo in the csrf_token form field or the X-CSRF-Token header.
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
}

// ============================================================================
// Login Types
// ============================================================================

// Login statuses.
const (
	LoginStatusAuthenticated     = "authenticated"
	LoginStatusTwoFactorRequired = "two_factor_required"
)

// LoginRequest is the form submitted to POST /login.
type LoginRequest struct {
	Email    string
	Password string
	Remember bool
}

// LoginResponse reports the outcome of a login, a two-factor verification or
// a remember-me resume.
type LoginResponse struct {
	// Status is "authenticated" or "two_factor_required"
	Status string `json:"status" example:"authenticated"`

	// Redirect is where a browser would be sent next
	Redirect string `json:"redirect" example:"/student/dashboard"`

	// CSRFToken is the token of the new session; the previous one is void
	CSRFToken string `json:"csrf_token"`

	// User is set once authenticated
	User *UserResponse `json:"user,omitempty"`
}

// ============================================================================
// Account Types
// ============================================================================

// RegisterRequest is the form submitted to POST /register.
type RegisterRequest struct {
	Name            string
	Email           string
	MatricNumber    string
	Department      string
	Password        string
	ConfirmPassword string
	AcceptTerms     bool
}

// RegisterResponse is returned for a created account.
type RegisterResponse struct {
	ID      string `json:"id" example:"01JNM3Y8Z6Q4B1X2C3D4E5F6G7"`
	Email   string `json:"email" example:"aina@student.uthm.edu.my"`
	Message string `json:"message"`
}

// ResetPasswordRequest is the form submitted to POST /reset-password.
type ResetPasswordRequest struct {
	Token           string
	Password        string
	ConfirmPassword string
}

// MessageResponse is a generic acknowledgement.
type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

// UserResponse describes the signed-in user.
type UserResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name" example:"Aina Rahman"`
	Email            string     `json:"email" example:"aina@student.uthm.edu.my"`
	MatricNumber     string     `json:"matric_number" example:"AI21CS0001"`
	Department       string     `json:"department" example:"FSKTM"`
	Role             string     `json:"role" example:"student"`
	Status           string     `json:"status" example:"active"`
	TwoFactorEnabled bool       `json:"two_factor_enabled"`
	EmailVerified    bool       `json:"email_verified"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// DashboardResponse is the landing payload of a role dashboard.
type DashboardResponse struct {
	Role        string   `json:"role" example:"staff"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// ============================================================================
// Session Types
// ============================================================================

// SessionResponse describes one of the caller's sessions.
type SessionResponse struct {
	ID             string    `json:"id"`
	SourceAddr     string    `json:"source_addr" example:"10.20.30.40"`
	UserAgent      string    `json:"user_agent"`
	CreatedAt      time.Time `json:"created_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
	Current        bool      `json:"current"`
}

type SessionListResponse struct {
	Sessions []SessionResponse `json:"sessions"`
}

type RevokeOthersResponse struct {
	Revoked int64 `json:"revoked"`
}

// ============================================================================
// Admin Types
// ============================================================================

// SecurityLogResponse is one audit entry.
type SecurityLogResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id,omitempty"`
	Kind        string    `json:"kind" example:"LOGIN_FAILED"`
	Description string    `json:"description"`
	SourceAddr  string    `json:"source_addr"`
	UserAgent   string    `json:"user_agent"`
	CreatedAt   time.Time `json:"created_at"`
}

type SecurityLogListResponse struct {
	Logs   []SecurityLogResponse `json:"logs"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// SecurityLogQuery filters GET /admin/security-logs. Zero values are omitted.
type SecurityLogQuery struct {
	UserID string
	Kind   string
	Since  time.Time
	Limit  int
	Offset int
}

// MaintenanceResponse reports the maintenance flag.
type MaintenanceResponse struct {
	Enabled bool `json:"enabled"`
}

// ============================================================================
// Health Check Types
// ============================================================================

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the status of the portal's dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Settings indicates whether portal settings can be read
	Settings string `json:"settings"`
}
