package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
)

// RetentionConfig says how long each kind of record is kept once it can no
// longer be used.
type RetentionConfig struct {
	// SessionIdle matches SessionConfig.IdleTimeout.
	SessionIdle time.Duration
	// FailedLoginWindow matches BruteForceConfig.LockoutDuration.
	FailedLoginWindow time.Duration
	// CodeHistory keeps spent two-factor codes long enough to serve as resend
	// history.
	CodeHistory time.Duration
	// SecurityLogs is the audit retention.
	SecurityLogs time.Duration
}

// HousekeepingService periodically deletes records that are expired, spent or
// past retention.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention RetentionConfig
	Now       func() time.Time

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given
// interval. If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration, retention RetentionConfig) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop() to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop shuts down the worker and waits for an in-progress sweep to finish.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs every sweep once. Each sweep is independent; a failure in one
// does not stop the others. It returns the number of rows removed.
func (s *HousekeepingService) Cleanup(ctx context.Context) int64 {
	now := clockNow(s.Now)
	s.Logger.Info("starting housekeeping cleanup")

	sweeps := []struct {
		name string
		fn   func() (int64, error)
	}{
		{"idle sessions", func() (int64, error) {
			return s.Store.Sessions().DeleteIdleSessions(ctx, now.Add(-s.Retention.SessionIdle))
		}},
		{"expired remember tokens", func() (int64, error) {
			return s.Store.RememberTokens().DeleteExpiredRememberTokens(ctx, now)
		}},
		{"stale two-factor codes", func() (int64, error) {
			return s.Store.TwoFactorCodes().DeleteStaleTwoFactorCodes(ctx, now, now.Add(-s.Retention.CodeHistory))
		}},
		{"stale password resets", func() (int64, error) {
			return s.Store.PasswordResets().DeleteStalePasswordResets(ctx, now)
		}},
		{"expired ip blocks", func() (int64, error) {
			return s.Store.IPBlocks().DeleteExpiredIPBlocks(ctx, now)
		}},
		{"stale failed logins", func() (int64, error) {
			return s.Store.FailedLogins().DeleteStaleFailedLogins(ctx, now.Add(-s.Retention.FailedLoginWindow))
		}},
		{"old security logs", func() (int64, error) {
			return s.Store.SecurityLogs().DeleteSecurityLogsBefore(ctx, now.Add(-s.Retention.SecurityLogs))
		}},
	}

	var total int64
	successful := 0
	for _, sw := range sweeps {
		n, err := sw.fn()
		if err != nil {
			s.Logger.Error("housekeeping sweep failed", "sweep", sw.name, "error", err)
			continue
		}
		successful++
		total += n
		s.Logger.Debug("housekeeping sweep", "sweep", sw.name, "deleted", n)
	}

	s.Logger.Info("housekeeping cleanup completed", "successful_cleanups", successful, "deleted", total)
	return total
}
