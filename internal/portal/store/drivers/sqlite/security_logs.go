package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type securityLogsRepo struct {
	db DBTX
}

const maxSecurityLogPage = 500

func (r *securityLogsRepo) AppendSecurityLog(ctx context.Context, e domain.SecurityLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO security_logs (id, user_id, event_kind, description, source_addr, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, string(e.Kind), e.Description, e.SourceAddr, e.UserAgent, millis(e.CreatedAt))
	return err
}

func (r *securityLogsRepo) ListSecurityLogs(ctx context.Context, f domain.SecurityLogFilter) ([]domain.SecurityLog, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.Kind != "" {
		where = append(where, "event_kind = ?")
		args = append(args, string(f.Kind))
	}
	if !f.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, millis(f.Since))
	}

	limit := f.Limit
	if limit <= 0 || limit > maxSecurityLogPage {
		limit = maxSecurityLogPage
	}
	offset := max(f.Offset, 0)

	query := `SELECT id, user_id, event_kind, description, source_addr, user_agent, created_at FROM security_logs`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SecurityLog
	for rows.Next() {
		var (
			e         domain.SecurityLog
			kind      string
			createdAt int64
		)
		if err := rows.Scan(&e.ID, &e.UserID, &kind, &e.Description, &e.SourceAddr, &e.UserAgent, &createdAt); err != nil {
			return nil, err
		}
		e.Kind = domain.EventKind(kind)
		e.CreatedAt = fromMillis(createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *securityLogsRepo) CountSecurityLogs(ctx context.Context, userID string, kind domain.EventKind, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM security_logs WHERE user_id = ? AND event_kind = ? AND created_at >= ?`,
		userID, string(kind), millis(since)).Scan(&n)
	return n, err
}

func (r *securityLogsRepo) DeleteSecurityLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM security_logs WHERE created_at < ?`, millis(cutoff)))
}
