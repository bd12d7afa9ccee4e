package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/cryptox"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
)

type TokenConfig struct {
	RememberTTL time.Duration
	ResetTTL    time.Duration
}

func DefaultTokenConfig() TokenConfig {
	return TokenConfig{
		RememberTTL: 30 * 24 * time.Hour,
		ResetTTL:    time.Hour,
	}
}

// TokenService manages remember-me and password-reset tokens. Both are 256
// bit random values stored only as fingerprints.
type TokenService struct {
	Store  store.Store
	Config TokenConfig
	Now    func() time.Time
}

// IssueRemember creates a remember-me token for userID.
func (s *TokenService) IssueRemember(ctx context.Context, userID string, client domain.ClientInfo) (string, error) {
	return s.issueRemember(ctx, s.Store, userID, client)
}

func (s *TokenService) issueRemember(ctx context.Context, st store.Store, userID string, client domain.ClientInfo) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}
	now := clockNow(s.Now)
	err = st.RememberTokens().CreateRememberToken(ctx, domain.RememberToken{
		ID:         idx.NewAt(now).String(),
		UserID:     userID,
		TokenHash:  cryptox.FingerprintToken(token),
		SourceAddr: client.SourceAddr,
		UserAgent:  client.UserAgent,
		ExpiresAt:  now.Add(s.Config.RememberTTL),
		CreatedAt:  now,
	})
	if err != nil {
		return "", fmt.Errorf("store remember token: %w", err)
	}
	return token, nil
}

// AuthenticateRemember exchanges a remember-me token for its user and a
// replacement token. The presented token is consumed whatever the outcome, and
// of two concurrent requests with the same token only one succeeds.
func (s *TokenService) AuthenticateRemember(ctx context.Context, token string, client domain.ClientInfo) (domain.User, string, error) {
	if token == "" {
		return domain.User{}, "", ErrInvalidToken
	}
	fp := cryptox.FingerprintToken(token)
	now := clockNow(s.Now)

	var (
		user     domain.User
		newToken string
		failure  error
	)
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RememberTokens().GetRememberTokenByHash(ctx, fp)
		if errors.Is(err, store.ErrNotFound) {
			failure = ErrInvalidToken
			return nil
		}
		if err != nil {
			return err
		}
		if !cryptox.EqualTokens(rec.TokenHash, fp) {
			failure = ErrInvalidToken
			return nil
		}

		if err := tx.RememberTokens().DeleteRememberToken(ctx, rec.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				failure = ErrInvalidToken
				return nil
			}
			return err
		}
		if !now.Before(rec.ExpiresAt) {
			failure = ErrInvalidToken
			return nil
		}

		user, err = tx.Users().GetUserByID(ctx, rec.UserID)
		if errors.Is(err, store.ErrNotFound) {
			failure = ErrInvalidToken
			return nil
		}
		if err != nil {
			return err
		}
		if !user.IsActive() {
			failure = ErrAccountInactive
			return nil
		}

		newToken, err = s.issueRemember(ctx, tx, user.ID, client)
		return err
	})
	if err != nil {
		return domain.User{}, "", fmt.Errorf("authenticate remember token: %w", err)
	}
	if failure != nil {
		return user, "", failure
	}
	return user, newToken, nil
}

// RevokeRemember deletes a single token, typically the one in the cookie.
func (s *TokenService) RevokeRemember(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Store.RememberTokens().DeleteRememberTokenByHash(ctx, cryptox.FingerprintToken(token))
}

// RevokeAllRemember deletes every remember-me token of the user.
func (s *TokenService) RevokeAllRemember(ctx context.Context, userID string) error {
	_, err := s.Store.RememberTokens().DeleteUserRememberTokens(ctx, userID)
	return err
}

// IssueReset creates a password-reset token. Earlier unused tokens of the
// user are invalidated so only the newest link works.
func (s *TokenService) IssueReset(ctx context.Context, userID string) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}
	now := clockNow(s.Now)

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.PasswordResets().InvalidateUserPasswordResets(ctx, userID, now); err != nil {
			return err
		}
		return tx.PasswordResets().CreatePasswordReset(ctx, domain.PasswordReset{
			ID:        idx.NewAt(now).String(),
			UserID:    userID,
			TokenHash: cryptox.FingerprintToken(token),
			ExpiresAt: now.Add(s.Config.ResetTTL),
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", fmt.Errorf("issue reset token: %w", err)
	}
	return token, nil
}

// PeekReset validates a reset token without consuming it.
func (s *TokenService) PeekReset(ctx context.Context, token string) (domain.PasswordReset, error) {
	if token == "" {
		return domain.PasswordReset{}, ErrInvalidToken
	}
	fp := cryptox.FingerprintToken(token)
	p, err := s.Store.PasswordResets().GetActivePasswordReset(ctx, fp, clockNow(s.Now))
	if errors.Is(err, store.ErrNotFound) {
		return domain.PasswordReset{}, ErrInvalidToken
	}
	if err != nil {
		return domain.PasswordReset{}, err
	}
	if !cryptox.EqualTokens(p.TokenHash, fp) {
		return domain.PasswordReset{}, ErrInvalidToken
	}
	return p, nil
}

// ConsumeReset redeems a reset token: the password hash is replaced and every
// session, remember-me token and other reset token of the user is revoked, all
// in one transaction. It returns the user id.
func (s *TokenService) ConsumeReset(ctx context.Context, token, newPasswordHash string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	fp := cryptox.FingerprintToken(token)
	now := clockNow(s.Now)

	var userID string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		p, err := tx.PasswordResets().GetActivePasswordReset(ctx, fp, now)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if !cryptox.EqualTokens(p.TokenHash, fp) {
			return ErrInvalidToken
		}

		user, err := tx.Users().GetUserByID(ctx, p.UserID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if !user.IsActive() {
			return ErrInvalidToken
		}

		if err := tx.PasswordResets().MarkPasswordResetUsed(ctx, p.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		if err := tx.Users().UpdatePasswordHash(ctx, user.ID, newPasswordHash, now); err != nil {
			return err
		}
		if _, err := tx.PasswordResets().InvalidateUserPasswordResets(ctx, user.ID, now); err != nil {
			return err
		}
		if _, err := tx.Sessions().DeleteUserSessions(ctx, user.ID); err != nil {
			return err
		}
		if _, err := tx.RememberTokens().DeleteUserRememberTokens(ctx, user.ID); err != nil {
			return err
		}

		userID = user.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("consume reset token: %w", err)
	}
	return userID, nil
}
