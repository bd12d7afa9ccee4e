package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/cryptox"
)

// CSRFGuard issues one token per session record and verifies submissions
// against it.
type CSRFGuard struct {
	Store store.Store
}

// Issue returns the session's token, creating and persisting one on first use.
// The token lives as long as the session record.
func (g *CSRFGuard) Issue(ctx context.Context, sess *domain.Session) (string, error) {
	if sess == nil {
		return "", errors.New("csrf: no session")
	}
	if sess.CSRFToken != "" {
		return sess.CSRFToken, nil
	}

	tok, err := cryptox.GenerateHexToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}
	if err := g.Store.Sessions().SetCSRFToken(ctx, sess.ID, tok); err != nil {
		return "", fmt.Errorf("store csrf token: %w", err)
	}
	sess.CSRFToken = tok
	return tok, nil
}

// Verify compares submitted against the session's token in constant time.
// A missing session, a session without a token and empty input all fail.
func (g *CSRFGuard) Verify(sess *domain.Session, submitted string) bool {
	if sess == nil {
		return false
	}
	return cryptox.EqualTokens(sess.CSRFToken, submitted)
}
