package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/cryptox"
)

type BruteForceConfig struct {
	// LockoutThreshold failures for one (subject, address) pair lock the
	// subject for LockoutDuration and block the address for IPBlockDuration.
	LockoutThreshold int
	LockoutDuration  time.Duration

	// AddressBlockThreshold failures from one address summed across all
	// subjects inside the lockout window also block the address.
	AddressBlockThreshold int
	IPBlockDuration       time.Duration
}

func DefaultBruteForceConfig() BruteForceConfig {
	return BruteForceConfig{
		LockoutThreshold:      5,
		LockoutDuration:       15 * time.Minute,
		AddressBlockThreshold: 10,
		IPBlockDuration:       time.Hour,
	}
}

// FailureOutcome describes what a recorded failure triggered.
type FailureOutcome struct {
	Attempts       int
	AccountLocked  bool // subject is at or over the threshold
	NewlyLocked    bool // this failure crossed the threshold
	AddressBlocked bool // an IP block was created or refreshed
}

const unknownSubjectPrefix = "unknown:"

type BruteForceGuard struct {
	Store    store.Store
	Config   BruteForceConfig
	Now      func() time.Time
	Recorder Recorder

	// SubjectKey keys the fingerprint of emails that match no account.
	SubjectKey []byte
}

// Subject derives the failure subject for a login attempt. Unknown accounts
// get a keyed fingerprint of the normalised email so that they lock out
// exactly like real ones.
func (g *BruteForceGuard) Subject(user *domain.User, email string) string {
	if user != nil && user.ID != "" {
		return user.ID
	}
	return unknownSubjectPrefix + cryptox.KeyedFingerprint(g.SubjectKey, NormalizeEmail(email))
}

func (g *BruteForceGuard) windowStart(now time.Time) time.Time {
	return now.Add(-g.Config.LockoutDuration)
}

// RecordFailure counts a failed attempt for (subject, addr) and applies
// lockout and address blocking. Reaching the lockout threshold on the pair
// creates or refreshes the address block as well.
func (g *BruteForceGuard) RecordFailure(ctx context.Context, subject, addr string) (FailureOutcome, error) {
	now := clockNow(g.Now)
	since := g.windowStart(now)

	var out FailureOutcome
	err := g.Store.WithTx(ctx, func(tx store.Tx) error {
		attempts := 1
		prev, err := tx.FailedLogins().GetFailedLogin(ctx, subject, addr)
		switch {
		case err == nil:
			if !prev.LastAttemptAt.Before(since) {
				attempts = prev.Attempts + 1
			}
		case errors.Is(err, store.ErrNotFound):
		default:
			return err
		}

		if err := tx.FailedLogins().PutFailedLogin(ctx, domain.FailedLogin{
			Subject:       subject,
			SourceAddr:    addr,
			Attempts:      attempts,
			LastAttemptAt: now,
		}); err != nil {
			return err
		}

		out.Attempts = attempts
		out.AccountLocked = attempts >= g.Config.LockoutThreshold
		out.NewlyLocked = attempts == g.Config.LockoutThreshold

		total, err := tx.FailedLogins().SumAddrAttempts(ctx, addr, since)
		if err != nil {
			return err
		}
		if out.AccountLocked || total >= g.Config.AddressBlockThreshold {
			out.AddressBlocked = true
			return tx.IPBlocks().PutIPBlock(ctx, domain.IPBlock{
				SourceAddr: addr,
				Reason:     "Too many failed login attempts",
				ExpiresAt:  now.Add(g.Config.IPBlockDuration),
				CreatedAt:  now,
			})
		}
		return nil
	})
	if err != nil {
		return FailureOutcome{}, fmt.Errorf("record failed login: %w", err)
	}

	rec := recorderOr(g.Recorder)
	if out.NewlyLocked {
		rec.AccountLocked()
	}
	if out.AddressBlocked {
		rec.AddressBlocked()
	}
	return out, nil
}

// IsAccountLocked reports whether any record for subject is at the threshold
// inside the window, whichever address it came from.
func (g *BruteForceGuard) IsAccountLocked(ctx context.Context, subject string) (bool, error) {
	n, err := g.Store.FailedLogins().MaxSubjectAttempts(ctx, subject, g.windowStart(clockNow(g.Now)))
	if err != nil {
		return false, err
	}
	return n >= g.Config.LockoutThreshold, nil
}

// IsAddressBlocked reports whether addr has an unexpired block.
func (g *BruteForceGuard) IsAddressBlocked(ctx context.Context, addr string) (bool, error) {
	_, err := g.Store.IPBlocks().GetActiveIPBlock(ctx, addr, clockNow(g.Now))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Reset clears the subject's failure history after a successful login.
func (g *BruteForceGuard) Reset(ctx context.Context, subject string) error {
	return g.Store.FailedLogins().DeleteSubjectFailedLogins(ctx, subject)
}
