package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type failedLoginsRepo struct {
	db DBTX
}

func (r *failedLoginsRepo) GetFailedLogin(ctx context.Context, subject, addr string) (domain.FailedLogin, error) {
	var (
		f    = domain.FailedLogin{Subject: subject, SourceAddr: addr}
		last int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT attempts, last_attempt_at FROM failed_logins WHERE subject = ? AND source_addr = ?`,
		subject, addr).Scan(&f.Attempts, &last)
	if err != nil {
		return domain.FailedLogin{}, mapNotFound(err)
	}
	f.LastAttemptAt = fromMillis(last)
	return f, nil
}

func (r *failedLoginsRepo) PutFailedLogin(ctx context.Context, f domain.FailedLogin) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO failed_logins (subject, source_addr, attempts, last_attempt_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (subject, source_addr) DO UPDATE
		SET attempts = excluded.attempts, last_attempt_at = excluded.last_attempt_at`,
		f.Subject, f.SourceAddr, f.Attempts, millis(f.LastAttemptAt))
	return err
}

func (r *failedLoginsRepo) MaxSubjectAttempts(ctx context.Context, subject string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(attempts), 0) FROM failed_logins WHERE subject = ? AND last_attempt_at >= ?`,
		subject, millis(since)).Scan(&n)
	return n, err
}

func (r *failedLoginsRepo) SumAddrAttempts(ctx context.Context, addr string, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(attempts), 0) FROM failed_logins WHERE source_addr = ? AND last_attempt_at >= ?`,
		addr, millis(since)).Scan(&n)
	return n, err
}

func (r *failedLoginsRepo) DeleteSubjectFailedLogins(ctx context.Context, subject string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM failed_logins WHERE subject = ?`, subject)
	return err
}

func (r *failedLoginsRepo) DeleteStaleFailedLogins(ctx context.Context, cutoff time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM failed_logins WHERE last_attempt_at < ?`, millis(cutoff)))
}
