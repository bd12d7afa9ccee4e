package domain

import "time"

// UserStatus is the lifecycle state of an account. Only active users may hold
// a session.
type UserStatus string

const (
	StatusPending   UserStatus = "pending"
	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
	StatusDeleted   UserStatus = "deleted"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended, StatusDeleted:
		return true
	}
	return false
}

type User struct {
	ID               string
	Name             string
	Email            string // stored lowercased
	MatricNumber     string
	Department       string
	PasswordHash     string // argon2id PHC string
	Role             Role
	Status           UserStatus
	TwoFactorEnabled bool
	EmailVerified    bool

	// VerificationTokenHash is the fingerprint of the jti of the latest
	// email-verification link. Empty once verified.
	VerificationTokenHash string
	VerificationSentAt    *time.Time

	PasswordChangedAt *time.Time
	LastLoginAt       *time.Time
	LastLogoutAt      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsActive reports whether the account may authenticate.
func (u User) IsActive() bool { return u.Status == StatusActive }

// Departments are the faculty codes accepted at registration.
var Departments = []string{"FKEE", "FKMP", "FSKTM", "FKAAB", "FTK", "FPTP", "FPTV", "FAST"}
