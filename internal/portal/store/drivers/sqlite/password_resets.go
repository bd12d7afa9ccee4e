package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type passwordResetsRepo struct {
	db DBTX
}

func (r *passwordResetsRepo) CreatePasswordReset(ctx context.Context, p domain.PasswordReset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO password_resets (id, user_id, token_hash, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		p.ID, p.UserID, p.TokenHash, millis(p.ExpiresAt), millis(p.CreatedAt))
	return mapConstraint(err)
}

func (r *passwordResetsRepo) GetActivePasswordReset(ctx context.Context, tokenHash string, now time.Time) (domain.PasswordReset, error) {
	var (
		p                  domain.PasswordReset
		used               int
		usedAt             sql.NullInt64
		expires, createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, expires_at, used, used_at, created_at
		FROM password_resets
		WHERE token_hash = ? AND used = 0 AND expires_at > ?`,
		tokenHash, millis(now)).Scan(&p.ID, &p.UserID, &p.TokenHash, &expires, &used, &usedAt, &createdAt)
	if err != nil {
		return domain.PasswordReset{}, mapNotFound(err)
	}
	p.Used = used == 1
	p.UsedAt = mapNullMillis(usedAt)
	p.ExpiresAt = fromMillis(expires)
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

func (r *passwordResetsRepo) MarkPasswordResetUsed(ctx context.Context, id string, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE password_resets SET used = 1, used_at = ? WHERE id = ? AND used = 0 AND expires_at > ?`,
		millis(now), id, millis(now)))
}

func (r *passwordResetsRepo) InvalidateUserPasswordResets(ctx context.Context, userID string, now time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`UPDATE password_resets SET used = 1, used_at = ? WHERE user_id = ? AND used = 0`,
		millis(now), userID))
}

func (r *passwordResetsRepo) DeleteStalePasswordResets(ctx context.Context, now time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM password_resets WHERE used = 1 OR expires_at <= ?`, millis(now)))
}
