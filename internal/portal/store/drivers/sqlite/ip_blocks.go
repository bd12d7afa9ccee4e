package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

type ipBlocksRepo struct {
	db DBTX
}

func (r *ipBlocksRepo) PutIPBlock(ctx context.Context, b domain.IPBlock) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO ip_blocks (source_addr, reason, expires_at, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (source_addr) DO UPDATE
		SET reason = excluded.reason, expires_at = MAX(ip_blocks.expires_at, excluded.expires_at)`,
		b.SourceAddr, b.Reason, millis(b.ExpiresAt), millis(b.CreatedAt))
	return err
}

func (r *ipBlocksRepo) GetActiveIPBlock(ctx context.Context, addr string, now time.Time) (domain.IPBlock, error) {
	var (
		b                  = domain.IPBlock{SourceAddr: addr}
		expires, createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT reason, expires_at, created_at FROM ip_blocks WHERE source_addr = ? AND expires_at > ?`,
		addr, millis(now)).Scan(&b.Reason, &expires, &createdAt)
	if err != nil {
		return domain.IPBlock{}, mapNotFound(err)
	}
	b.ExpiresAt = fromMillis(expires)
	b.CreatedAt = fromMillis(createdAt)
	return b, nil
}

func (r *ipBlocksRepo) DeleteExpiredIPBlocks(ctx context.Context, now time.Time) (int64, error) {
	return affected(r.db.ExecContext(ctx, `DELETE FROM ip_blocks WHERE expires_at <= ?`, millis(now)))
}
