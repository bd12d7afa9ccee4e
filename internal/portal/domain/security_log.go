package domain

import "time"

// EventKind classifies a security log entry.
type EventKind string

const (
	EventRegister             EventKind = "REGISTER"
	EventEmailVerified        EventKind = "EMAIL_VERIFIED"
	EventVerificationResent   EventKind = "VERIFICATION_RESENT"
	EventLoginSuccess         EventKind = "LOGIN_SUCCESS"
	EventLoginSuccess2FA      EventKind = "LOGIN_SUCCESS_2FA"
	EventLoginFailed          EventKind = "LOGIN_FAILED"
	EventLoginFailed2FA       EventKind = "LOGIN_FAILED_2FA"
	EventLoginBlocked         EventKind = "LOGIN_BLOCKED"
	EventAccountLocked        EventKind = "ACCOUNT_LOCKED"
	EventIPBlocked            EventKind = "IP_BLOCKED"
	EventTwoFactorSent        EventKind = "TWO_FACTOR_SENT"
	EventResend2FA            EventKind = "RESEND_2FA"
	EventUserLogout           EventKind = "USER_LOGOUT"
	EventSecurityLogout       EventKind = "SECURITY_LOGOUT"
	EventSessionExpired       EventKind = "SESSION_EXPIRED"
	EventSessionHijack        EventKind = "SESSION_HIJACK_ATTEMPT"
	EventSessionRevoked       EventKind = "SESSION_REVOKED"
	EventRememberLogin        EventKind = "REMEMBER_LOGIN"
	EventRememberRejected     EventKind = "REMEMBER_TOKEN_REJECTED"
	EventCSRFMismatch         EventKind = "CSRF_MISMATCH"
	EventUnauthorizedAccess   EventKind = "UNAUTHORIZED_ACCESS"
	EventPasswordResetRequest EventKind = "PASSWORD_RESET_REQUEST"
	EventPasswordReset        EventKind = "PASSWORD_RESET"
	EventMaintenanceToggled   EventKind = "MAINTENANCE_MODE_CHANGED"
	EventTwoFactorChanged     EventKind = "TWO_FACTOR_CHANGED"
)

// SecurityLog is an append-only audit entry.
type SecurityLog struct {
	ID          string
	UserID      string // empty when no account is attributable
	Kind        EventKind
	Description string
	SourceAddr  string
	UserAgent   string
	CreatedAt   time.Time
}

// SecurityLogFilter narrows a security log listing.
type SecurityLogFilter struct {
	UserID string
	Kind   EventKind
	Since  time.Time
	Limit  int
	Offset int
}

// Setting keys.
const SettingMaintenanceMode = "system_maintenance_mode"
