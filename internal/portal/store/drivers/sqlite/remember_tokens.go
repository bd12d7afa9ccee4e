package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type rememberTokensRepo struct {
	db DBTX
}

func (r *rememberTokensRepo) CreateRememberToken(ctx context.Context, t domain.RememberToken) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO remember_tokens (id, user_id, token_hash, source_addr, user_agent, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.TokenHash, t.SourceAddr, t.UserAgent, millis(t.ExpiresAt), millis(t.CreatedAt))
	return mapConstraint(err)
}

func (r *rememberTokensRepo) GetRememberTokenByHash(ctx context.Context, tokenHash string) (domain.RememberToken, error) {
	var (
		t                  domain.RememberToken
		expires, createdAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_hash, source_addr, user_agent, expires_at, created_at
		FROM remember_tokens WHERE token_hash = ?`,
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.SourceAddr, &t.UserAgent, &expires, &createdAt)
	if err != nil {
		return domain.RememberToken{}, mapNotFound(err)
	}
	t.ExpiresAt = fromMillis(expires)
	t.CreatedAt = fromMillis(createdAt)
	return t, nil
}

func (r *rememberTokensRepo) DeleteRememberToken(ctx context.Context, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM remember_tokens WHERE id = ?`, id))
}

func (r *rememberTokensRepo) DeleteRememberTokenByHash(ctx context.Context, tokenHash string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM remember_tokens WHERE token_hash = ?`, tokenHash)
	return err
}

func (r *rememberTokensRepo) DeleteUserRememberTokens(ctx context.Context, userID string) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM remember_tokens WHERE user_id = ?`, userID))
}

func (r *rememberTokensRepo) DeleteExpiredRememberTokens(ctx context.Context, now time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM remember_tokens WHERE expires_at <= ?`, millis(now)))
}
