package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type usersRepo struct {
	db DBTX
}

const userColumns = `id, name, email, matric_number, department, password_hash, role, status,
	two_factor_enabled, email_verified, verification_token_hash, verification_sent_at,
	password_changed_at, last_login_at, last_logout_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u                                    domain.User
		role, status                         string
		twoFactor, verified                  int
		sentAt, changedAt, loginAt, logoutAt sql.NullInt64
		createdAt, updatedAt                 int64
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.MatricNumber, &u.Department, &u.PasswordHash, &role, &status,
		&twoFactor, &verified, &u.VerificationTokenHash, &sentAt,
		&changedAt, &loginAt, &logoutAt, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.Role = domain.Role(role)
	u.Status = domain.UserStatus(status)
	u.TwoFactorEnabled = twoFactor == 1
	u.EmailVerified = verified == 1
	u.VerificationSentAt = mapNullMillis(sentAt)
	u.PasswordChangedAt = mapNullMillis(changedAt)
	u.LastLoginAt = mapNullMillis(loginAt)
	u.LastLogoutAt = mapNullMillis(logoutAt)
	u.CreatedAt = fromMillis(createdAt)
	u.UpdatedAt = fromMillis(updatedAt)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, matric_number, department, password_hash, role, status,
			two_factor_enabled, email_verified, verification_token_hash, verification_sent_at,
			password_changed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.MatricNumber, u.Department, u.PasswordHash, string(u.Role), string(u.Status),
		boolInt(u.TwoFactorEnabled), boolInt(u.EmailVerified), u.VerificationTokenHash, mapOptionalMillis(u.VerificationSentAt),
		mapOptionalMillis(u.PasswordChangedAt), millis(u.CreatedAt), millis(u.UpdatedAt),
	)
	return mapConstraint(err)
}

func (r *usersRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ? COLLATE NOCASE`, email).Scan(&n)
	return n > 0, err
}

func (r *usersRepo) MatricExists(ctx context.Context, matric string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE matric_number = ?`, matric).Scan(&n)
	return n > 0, err
}

func (r *usersRepo) SetVerificationToken(ctx context.Context, userID, tokenHash string, sentAt time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET verification_token_hash = ?, verification_sent_at = ?, updated_at = ? WHERE id = ?`,
		tokenHash, millis(sentAt), millis(sentAt), userID))
}

func (r *usersRepo) ActivateVerifiedUser(ctx context.Context, userID string, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx, `
		UPDATE users
		SET status = 'active', email_verified = 1, verification_token_hash = '', updated_at = ?
		WHERE id = ? AND status = 'pending'`,
		millis(now), userID))
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID, hash string, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, password_changed_at = ?, updated_at = ? WHERE id = ?`,
		hash, millis(now), millis(now), userID))
}

func (r *usersRepo) UpdateStatus(ctx context.Context, userID string, status domain.UserStatus, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), millis(now), userID))
}

func (r *usersRepo) SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET two_factor_enabled = ?, updated_at = ? WHERE id = ?`,
		boolInt(enabled), millis(now), userID))
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID string, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, millis(now), userID))
}

func (r *usersRepo) TouchLastLogout(ctx context.Context, userID string, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE users SET last_logout_at = ? WHERE id = ?`, millis(now), userID))
}
