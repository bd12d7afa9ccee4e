package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

type TwoFactorConfig struct {
	CodeTTL      time.Duration
	ResendLimit  int
	ResendWindow time.Duration
}

func DefaultTwoFactorConfig() TwoFactorConfig {
	return TwoFactorConfig{
		CodeTTL:      5 * time.Minute,
		ResendLimit:  3,
		ResendWindow: 15 * time.Minute,
	}
}

// TwoFactorService issues emailed one-time codes and verifies them. Codes are
// stored hashed and can be used once.
type TwoFactorService struct {
	Store  store.Store
	Hasher Hasher
	Config TwoFactorConfig
	Now    func() time.Time
}

// IssueCode creates a new six digit code for userID and returns the
// plaintext for delivery. Older unused codes stop being current.
func (s *TwoFactorService) IssueCode(ctx context.Context, userID string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	hash, err := s.Hasher.Hash(code)
	if err != nil {
		return "", fmt.Errorf("hash code: %w", err)
	}

	now := clockNow(s.Now)
	err = s.Store.TwoFactorCodes().CreateTwoFactorCode(ctx, domain.TwoFactorCode{
		ID:        idx.NewAt(now).String(),
		UserID:    userID,
		CodeHash:  hash,
		ExpiresAt: now.Add(s.Config.CodeTTL),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("store code: %w", err)
	}
	return code, nil
}

// generateCode derives a zero padded six digit HOTP value from a fresh random
// secret.
func generateCode() (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", err
	}
	return hotp.GenerateCodeCustom(base32.StdEncoding.EncodeToString(secret), 0, hotp.ValidateOpts{
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}

// Verify checks code against the user's current code and consumes it. It
// returns true only for the request that marked the code used.
func (s *TwoFactorService) Verify(ctx context.Context, userID, code string) (bool, error) {
	if !validCode(code) {
		return false, nil
	}

	now := clockNow(s.Now)
	current, err := s.Store.TwoFactorCodes().GetCurrentTwoFactorCode(ctx, userID, now)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load code: %w", err)
	}

	if err := s.Hasher.Verify(code, current.CodeHash); err != nil {
		return false, nil
	}

	err = s.Store.TwoFactorCodes().MarkTwoFactorCodeUsed(ctx, current.ID, now)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("consume code: %w", err)
	}
	return true, nil
}

// CountIssuedSince returns how many codes the user was sent since the given
// time.
func (s *TwoFactorService) CountIssuedSince(ctx context.Context, userID string, since time.Time) (int, error) {
	return s.Store.TwoFactorCodes().CountTwoFactorCodesSince(ctx, userID, since)
}

// ResendAllowed applies the resend throttle.
func (s *TwoFactorService) ResendAllowed(ctx context.Context, userID string) (bool, error) {
	n, err := s.CountIssuedSince(ctx, userID, clockNow(s.Now).Add(-s.Config.ResendWindow))
	if err != nil {
		return false, err
	}
	return n < s.Config.ResendLimit, nil
}
