package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/cryptox"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"
)

type SessionConfig struct {
	// Lifetime caps a session from creation regardless of activity.
	Lifetime time.Duration
	// IdleTimeout ends a session after this long without a request.
	IdleTimeout time.Duration
	// GCProbability is the chance that a request triggers a sweep.
	GCProbability float64
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Lifetime:      time.Hour,
		IdleTimeout:   15 * time.Minute,
		GCProbability: 0.01,
	}
}

// Session rejection reasons reported to the Recorder.
const (
	RejectMissing  = "missing"
	RejectExpired  = "expired"
	RejectIdle     = "idle"
	RejectHijack   = "hijack"
	RejectVanished = "vanished"
)

// SessionManager owns the server-side session records. The cookie carries a
// random 256-bit identifier; only its fingerprint is stored.
type SessionManager struct {
	Store    store.Store
	Config   SessionConfig
	Now      func() time.Time
	Recorder Recorder

	// Rand returns a value in [0, 1); defaults to math/rand/v2.
	Rand func() float64
}

// Create starts a session for userID (empty for a pre-authentication session)
// bound to client. When replaces is given its record is destroyed in the same
// transaction so the identifier changes on every privilege change. The raw
// cookie value is returned alongside the record.
func (m *SessionManager) Create(ctx context.Context, userID string, client domain.ClientInfo, replaces *domain.Session) (domain.Session, string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, "", err
	}
	csrf, err := cryptox.GenerateHexToken(cryptox.TokenSize256)
	if err != nil {
		return domain.Session{}, "", err
	}

	now := clockNow(m.Now)
	sess := domain.Session{
		ID:             idx.NewAt(now).String(),
		TokenHash:      cryptox.FingerprintToken(token),
		UserID:         userID,
		SourceAddr:     client.SourceAddr,
		UserAgent:      client.UserAgent,
		CSRFToken:      csrf,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	err = m.Store.WithTx(ctx, func(tx store.Tx) error {
		if replaces != nil && replaces.ID != "" {
			if err := tx.Sessions().DeleteSession(ctx, replaces.ID); err != nil {
				return err
			}
		}
		return tx.Sessions().CreateSession(ctx, sess)
	})
	if err != nil {
		return domain.Session{}, "", fmt.Errorf("create session: %w", err)
	}
	return sess, token, nil
}

// Validate resolves the cookie value to a live session. Expired and idle
// records are deleted; a record presented from a different address or client
// is deleted and reported as ErrSessionHijack. A discarded record is returned
// with the error so that the caller can audit it. On success last activity is
// refreshed.
func (m *SessionManager) Validate(ctx context.Context, token string, client domain.ClientInfo) (domain.Session, error) {
	rec := recorderOr(m.Recorder)
	if token == "" {
		return domain.Session{}, ErrSessionInvalid
	}

	sess, err := m.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		rec.SessionRejected(RejectMissing)
		return domain.Session{}, ErrSessionInvalid
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}

	now := clockNow(m.Now)
	reject := func(reason string, cause error) (domain.Session, error) {
		rec.SessionRejected(reason)
		if err := m.Store.Sessions().DeleteSession(ctx, sess.ID); err != nil {
			return sess, fmt.Errorf("discard session: %w", err)
		}
		return sess, cause
	}

	switch {
	case now.Sub(sess.CreatedAt) > m.Config.Lifetime:
		return reject(RejectExpired, ErrSessionExpired)
	case now.Sub(sess.LastActivityAt) > m.Config.IdleTimeout:
		return reject(RejectIdle, ErrSessionExpired)
	case sess.SourceAddr != client.SourceAddr || sess.UserAgent != client.UserAgent:
		return reject(RejectHijack, ErrSessionHijack)
	}

	if err := m.Store.Sessions().TouchSession(ctx, sess.ID, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			rec.SessionRejected(RejectVanished)
			return domain.Session{}, ErrSessionInvalid
		}
		return domain.Session{}, fmt.Errorf("touch session: %w", err)
	}
	sess.LastActivityAt = now
	return sess, nil
}

// Destroy removes the session identified by the cookie value, if any.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	sess, err := m.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return m.Store.Sessions().DeleteSession(ctx, sess.ID)
}

// DestroyAllForUser ends every session of the user.
func (m *SessionManager) DestroyAllForUser(ctx context.Context, userID string) (int64, error) {
	return m.Store.Sessions().DeleteUserSessions(ctx, userID)
}

// DestroyAllExcept ends every session of the user but the one identified by
// keepToken.
func (m *SessionManager) DestroyAllExcept(ctx context.Context, userID, keepToken string) (int64, error) {
	keep, err := m.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(keepToken))
	if err != nil {
		return 0, fmt.Errorf("load current session: %w", err)
	}
	return m.Store.Sessions().DeleteUserSessionsExcept(ctx, userID, keep.ID)
}

// DestroyByID ends one of the user's own sessions by its public handle.
// Returns store.ErrNotFound for sessions of other users.
func (m *SessionManager) DestroyByID(ctx context.Context, userID, sessionID string) error {
	return m.Store.Sessions().DeleteUserSession(ctx, userID, sessionID)
}

func (m *SessionManager) ListForUser(ctx context.Context, userID string) ([]domain.Session, error) {
	return m.Store.Sessions().ListUserSessions(ctx, userID)
}

// GarbageCollect deletes records idle for longer than maxAge.
func (m *SessionManager) GarbageCollect(ctx context.Context, maxAge time.Duration) (int64, error) {
	return m.Store.Sessions().DeleteIdleSessions(ctx, clockNow(m.Now).Add(-maxAge))
}

// MaybeCollect runs GarbageCollect with probability Config.GCProbability.
// Failures are logged and otherwise ignored.
func (m *SessionManager) MaybeCollect(ctx context.Context) {
	roll := rand.Float64
	if m.Rand != nil {
		roll = m.Rand
	}
	if roll() >= m.Config.GCProbability {
		return
	}

	n, err := m.GarbageCollect(ctx, m.Config.IdleTimeout)
	log := slogx.FromContext(ctx)
	if err != nil {
		log.Warn("session gc failed", "error", err)
		return
	}
	if n > 0 {
		log.Debug("session gc", "deleted", n)
	}
}

// SetPending records a user awaiting a second factor on a pre-auth session.
func (m *SessionManager) SetPending(ctx context.Context, sess *domain.Session, userID string, remember bool) error {
	if err := m.Store.Sessions().SetPending(ctx, sess.ID, userID, remember); err != nil {
		return err
	}
	sess.PendingUserID = userID
	sess.PendingRemember = remember
	return nil
}

// SetIntendedURL remembers where to send the user after login.
func (m *SessionManager) SetIntendedURL(ctx context.Context, sess *domain.Session, url string) error {
	if err := m.Store.Sessions().SetIntendedURL(ctx, sess.ID, url); err != nil {
		return err
	}
	sess.IntendedURL = url
	return nil
}
