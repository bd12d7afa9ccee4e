package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type twoFactorCodesRepo struct {
	db DBTX
}

func (r *twoFactorCodesRepo) CreateTwoFactorCode(ctx context.Context, c domain.TwoFactorCode) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO two_factor_codes (id, user_id, code_hash, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		c.ID, c.UserID, c.CodeHash, millis(c.ExpiresAt), millis(c.CreatedAt))
	return err
}

func (r *twoFactorCodesRepo) GetCurrentTwoFactorCode(ctx context.Context, userID string, now time.Time) (domain.TwoFactorCode, error) {
	var (
		c                  domain.TwoFactorCode
		used               int
		usedAt             sql.NullInt64
		expires, createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, code_hash, expires_at, used, used_at, created_at
		FROM two_factor_codes
		WHERE user_id = ? AND used = 0 AND expires_at > ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		userID, millis(now)).Scan(&c.ID, &c.UserID, &c.CodeHash, &expires, &used, &usedAt, &createdAt)
	if err != nil {
		return domain.TwoFactorCode{}, mapNotFound(err)
	}
	c.Used = used == 1
	c.UsedAt = mapNullMillis(usedAt)
	c.ExpiresAt = fromMillis(expires)
	c.CreatedAt = fromMillis(createdAt)
	return c, nil
}

func (r *twoFactorCodesRepo) MarkTwoFactorCodeUsed(ctx context.Context, id string, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE two_factor_codes SET used = 1, used_at = ? WHERE id = ? AND used = 0 AND expires_at > ?`,
		millis(now), id, millis(now)))
}

func (r *twoFactorCodesRepo) CountTwoFactorCodesSince(ctx context.Context, userID string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM two_factor_codes WHERE user_id = ? AND created_at >= ?`,
		userID, millis(since)).Scan(&n)
	return n, err
}

func (r *twoFactorCodesRepo) DeleteStaleTwoFactorCodes(ctx context.Context, now, cutoff time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM two_factor_codes WHERE (used = 1 OR expires_at <= ?) AND created_at < ?`,
		millis(now), millis(cutoff)))
}
