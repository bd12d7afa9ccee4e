package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it and
// expose one sub-repository per table so that a Tx can hand out the same
// repositories bound to the transaction.
type Store interface {
	Users() Users
	Sessions() Sessions
	FailedLogins() FailedLogins
	IPBlocks() IPBlocks
	TwoFactorCodes() TwoFactorCodes
	RememberTokens() RememberTokens
	PasswordResets() PasswordResets
	SecurityLogs() SecurityLogs
	Settings() Settings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser returns ErrAlreadyExists when the email or matric number is
	// taken.
	CreateUser(ctx context.Context, u domain.User) error

	EmailExists(ctx context.Context, email string) (bool, error)
	MatricExists(ctx context.Context, matric string) (bool, error)

	// SetVerificationToken records the fingerprint of the latest verification
	// link.
	SetVerificationToken(ctx context.Context, userID, tokenHash string, sentAt time.Time) error

	// ActivateVerifiedUser moves a pending user to active, sets email_verified
	// and clears the verification fingerprint. Returns ErrNotFound if the user
	// was not pending.
	ActivateVerifiedUser(ctx context.Context, userID string, now time.Time) error

	// UpdatePasswordHash sets the hash and password_changed_at.
	UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error

	UpdateStatus(ctx context.Context, userID string, status domain.UserStatus, now time.Time) error
	SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool, now time.Time) error
	TouchLastLogin(ctx context.Context, userID string, now time.Time) error
	TouchLastLogout(ctx context.Context, userID string, now time.Time) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error)

	// TouchSession sets last_activity_at. Returns ErrNotFound if the record
	// no longer exists.
	TouchSession(ctx context.Context, id string, now time.Time) error

	DeleteSession(ctx context.Context, id string) error

	// DeleteUserSession deletes one of userID's sessions. Returns ErrNotFound
	// if the session does not exist or belongs to someone else.
	DeleteUserSession(ctx context.Context, userID, id string) error

	DeleteUserSessions(ctx context.Context, userID string) (int64, error)
	DeleteUserSessionsExcept(ctx context.Context, userID, keepID string) (int64, error)

	// ListUserSessions returns the user's sessions, most recently active first.
	ListUserSessions(ctx context.Context, userID string) ([]domain.Session, error)

	SetCSRFToken(ctx context.Context, id, token string) error
	SetPending(ctx context.Context, id, pendingUserID string, remember bool) error
	SetIntendedURL(ctx context.Context, id, url string) error

	// DeleteIdleSessions removes sessions whose last activity is before cutoff.
	DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

type FailedLogins interface {
	GetFailedLogin(ctx context.Context, subject, addr string) (domain.FailedLogin, error)
	PutFailedLogin(ctx context.Context, f domain.FailedLogin) error

	// MaxSubjectAttempts is the highest count among the subject's records
	// whose last attempt is at or after since.
	MaxSubjectAttempts(ctx context.Context, subject string, since time.Time) (int, error)

	// SumAddrAttempts totals the counts recorded from addr across all
	// subjects since the given time.
	SumAddrAttempts(ctx context.Context, addr string, since time.Time) (int, error)

	DeleteSubjectFailedLogins(ctx context.Context, subject string) error
	DeleteStaleFailedLogins(ctx context.Context, cutoff time.Time) (int64, error)
}

type IPBlocks interface {
	// PutIPBlock creates or extends the block on b.SourceAddr.
	PutIPBlock(ctx context.Context, b domain.IPBlock) error
	GetActiveIPBlock(ctx context.Context, addr string, now time.Time) (domain.IPBlock, error)
	DeleteExpiredIPBlocks(ctx context.Context, now time.Time) (int64, error)
}

type TwoFactorCodes interface {
	CreateTwoFactorCode(ctx context.Context, c domain.TwoFactorCode) error

	// GetCurrentTwoFactorCode returns the newest unused code that has not
	// expired at now.
	GetCurrentTwoFactorCode(ctx context.Context, userID string, now time.Time) (domain.TwoFactorCode, error)

	// MarkTwoFactorCodeUsed flips used=1 only if the code is still unused and
	// unexpired. Returns ErrNotFound when no row was updated.
	MarkTwoFactorCodeUsed(ctx context.Context, id string, now time.Time) error

	CountTwoFactorCodesSince(ctx context.Context, userID string, since time.Time) (int, error)

	// DeleteStaleTwoFactorCodes removes codes that are used or expired and were
	// created before cutoff.
	DeleteStaleTwoFactorCodes(ctx context.Context, now, cutoff time.Time) (int64, error)
}

type RememberTokens interface {
	CreateRememberToken(ctx context.Context, t domain.RememberToken) error
	GetRememberTokenByHash(ctx context.Context, tokenHash string) (domain.RememberToken, error)

	// DeleteRememberToken returns ErrNotFound if the row was already gone.
	DeleteRememberToken(ctx context.Context, id string) error

	DeleteRememberTokenByHash(ctx context.Context, tokenHash string) error
	DeleteUserRememberTokens(ctx context.Context, userID string) (int64, error)
	DeleteExpiredRememberTokens(ctx context.Context, now time.Time) (int64, error)
}

type PasswordResets interface {
	CreatePasswordReset(ctx context.Context, p domain.PasswordReset) error

	// GetActivePasswordReset returns an unused reset that has not expired at now.
	GetActivePasswordReset(ctx context.Context, tokenHash string, now time.Time) (domain.PasswordReset, error)

	// MarkPasswordResetUsed flips used=1 only if still unused and unexpired.
	// Returns ErrNotFound when no row was updated.
	MarkPasswordResetUsed(ctx context.Context, id string, now time.Time) error

	// InvalidateUserPasswordResets marks every unused reset of the user used.
	InvalidateUserPasswordResets(ctx context.Context, userID string, now time.Time) (int64, error)

	DeleteStalePasswordResets(ctx context.Context, now time.Time) (int64, error)
}

type SecurityLogs interface {
	AppendSecurityLog(ctx context.Context, e domain.SecurityLog) error
	ListSecurityLogs(ctx context.Context, f domain.SecurityLogFilter) ([]domain.SecurityLog, error)

	// CountSecurityLogs counts entries of kind for userID since the given time.
	CountSecurityLogs(ctx context.Context, userID string, kind domain.EventKind, since time.Time) (int, error)

	DeleteSecurityLogsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Settings interface {
	// GetSetting returns ErrNotFound for unknown keys.
	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string, now time.Time) error
}
