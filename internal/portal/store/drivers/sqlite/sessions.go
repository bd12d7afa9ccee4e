package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type sessionsRepo struct {
	db DBTX
}

const sessionColumns = `id, token_hash, user_id, source_addr, user_agent, csrf_token,
	pending_user_id, pending_remember, intended_url, created_at, last_activity_at`

func scanSession(row interface{ Scan(...any) error }) (domain.Session, error) {
	var (
		s                   domain.Session
		remember            int
		created, lastActive int64
	)
	err := row.Scan(&s.ID, &s.TokenHash, &s.UserID, &s.SourceAddr, &s.UserAgent, &s.CSRFToken,
		&s.PendingUserID, &remember, &s.IntendedURL, &created, &lastActive)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	s.PendingRemember = remember == 1
	s.CreatedAt = fromMillis(created)
	s.LastActivityAt = fromMillis(lastActive)
	return s, nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash, s.UserID, s.SourceAddr, s.UserAgent, s.CSRFToken,
		s.PendingUserID, boolInt(s.PendingRemember), s.IntendedURL, millis(s.CreatedAt), millis(s.LastActivityAt))
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (domain.Session, error) {
	return scanSession(r.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE token_hash = ?`, tokenHash))
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id string, now time.Time) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE sessions SET last_activity_at = ? WHERE id = ?`, millis(now), id))
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) DeleteUserSession(ctx context.Context, userID, id string) error {
	return expectOne(r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ? AND user_id = ? AND user_id != ''`, id, userID))
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, userID string) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ? AND user_id != ''`, userID))
}

func (r *sessionsRepo) DeleteUserSessionsExcept(ctx context.Context, userID, keepID string) (int64, error) {
	return affected(r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = ? AND user_id != '' AND id != ?`, userID, keepID))
}

func (r *sessionsRepo) ListUserSessions(ctx context.Context, userID string) ([]domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE user_id = ? AND user_id != '' ORDER BY last_activity_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sessionsRepo) SetCSRFToken(ctx context.Context, id, token string) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE sessions SET csrf_token = ? WHERE id = ?`, token, id))
}

func (r *sessionsRepo) SetPending(ctx context.Context, id, pendingUserID string, remember bool) error {
	return expectOne(r.db.ExecContext(ctx,
		`UPDATE sessions SET pending_user_id = ?, pending_remember = ? WHERE id = ?`,
		pendingUserID, boolInt(remember), id))
}

func (r *sessionsRepo) SetIntendedURL(ctx context.Context, id, url string) error {
	return expectOne(r.db.ExecContext(ctx, `UPDATE sessions SET intended_url = ? WHERE id = ?`, url, id))
}

func (r *sessionsRepo) DeleteIdleSessions(ctx context.Context, cutoff time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM sessions WHERE last_activity_at < ?`, millis(cutoff)))
}
