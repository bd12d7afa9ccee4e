package sqlite

import (
	"context"
	"time"
)

type settingsRepo struct {
	db DBTX
}

func (r *settingsRepo) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	if err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&v); err != nil {
		return "", mapNotFound(err)
	}
	return v, nil
}

func (r *settingsRepo) PutSetting(ctx context.Context, key, value string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, millis(now))
	return err
}
