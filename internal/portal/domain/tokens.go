package domain

import "time"

// FailedLogin counts consecutive failures for a (subject, address) pair.
type FailedLogin struct {
	Subject       string
	SourceAddr    string
	Attempts      int
	LastAttemptAt time.Time
}

type IPBlock struct {
	SourceAddr string
	Reason     string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type TwoFactorCode struct {
	ID        string
	UserID    string
	CodeHash  string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}

type RememberToken struct {
	ID         string
	UserID     string
	TokenHash  string
	SourceAddr string
	UserAgent  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	Used      bool
	UsedAt    *time.Time
	CreatedAt time.Time
}
