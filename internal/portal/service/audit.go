package service

import (
	"context"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"
)

// AuditLog appends security events to the security_logs table and mirrors
// them to the structured log.
type AuditLog struct {
	Store store.Store
	Now   func() time.Time
}

// Record appends an entry. A failed write is logged and otherwise ignored so
// that auditing never changes the outcome of the request being audited.
func (a *AuditLog) Record(ctx context.Context, userID string, kind domain.EventKind, description string, client domain.ClientInfo) {
	now := clockNow(a.Now)
	entry := domain.SecurityLog{
		ID:          idx.NewAt(now).String(),
		UserID:      userID,
		Kind:        kind,
		Description: description,
		SourceAddr:  client.SourceAddr,
		UserAgent:   client.UserAgent,
		CreatedAt:   now,
	}

	log := slogx.FromContext(ctx).With("event", string(kind), "user_id", userID, "source_addr", client.SourceAddr)
	if err := a.Store.SecurityLogs().AppendSecurityLog(ctx, entry); err != nil {
		log.Error("failed to write security log", "error", err, "description", description)
		return
	}
	log.Info("security event", "description", description)
}

// Count returns how many entries of kind were recorded for userID since the
// given time. Flows use it as throttle history.
func (a *AuditLog) Count(ctx context.Context, userID string, kind domain.EventKind, since time.Time) (int, error) {
	return a.Store.SecurityLogs().CountSecurityLogs(ctx, userID, kind, since)
}

// List returns entries matching f, newest first.
func (a *AuditLog) List(ctx context.Context, f domain.SecurityLogFilter) ([]domain.SecurityLog, error) {
	return a.Store.SecurityLogs().ListSecurityLogs(ctx, f)
}
