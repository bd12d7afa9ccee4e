package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/stretchr/testify/require"
)

func TestRememberTokenRotation(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	first, err := e.tokens.IssueRemember(ctx, u.ID, client)
	require.NoError(t, err)

	got, second, err := e.tokens.AuthenticateRemember(ctx, first, client)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
	require.NotEmpty(t, second)
	require.NotEqual(t, first, second)

	_, _, err = e.tokens.AuthenticateRemember(ctx, first, client)
	require.ErrorIs(t, err, ErrInvalidToken, "replayed token fails after rotation")

	_, third, err := e.tokens.AuthenticateRemember(ctx, second, client)
	require.NoError(t, err)
	require.NotEmpty(t, third)
}

func TestRememberTokenRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("expired token is deleted", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")
		tok, err := e.tokens.IssueRemember(ctx, u.ID, client)
		require.NoError(t, err)

		e.clock.Advance(30 * 24 * time.Hour)
		_, _, err = e.tokens.AuthenticateRemember(ctx, tok, client)
		require.ErrorIs(t, err, ErrInvalidToken)

		n, err := e.store.RememberTokens().DeleteUserRememberTokens(ctx, u.ID)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("suspended user", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")
		tok, err := e.tokens.IssueRemember(ctx, u.ID, client)
		require.NoError(t, err)
		require.NoError(t, e.store.Users().UpdateStatus(ctx, u.ID, domain.StatusSuspended, e.clock.Now()))

		_, _, err = e.tokens.AuthenticateRemember(ctx, tok, client)
		require.ErrorIs(t, err, ErrAccountInactive)
		_, _, err = e.tokens.AuthenticateRemember(ctx, tok, client)
		require.ErrorIs(t, err, ErrInvalidToken, "consumed even though it failed")
	})

	t.Run("unknown and empty", func(t *testing.T) {
		e := newEnv(t)
		_, _, err := e.tokens.AuthenticateRemember(ctx, "", client)
		require.ErrorIs(t, err, ErrInvalidToken)
		_, _, err = e.tokens.AuthenticateRemember(ctx, "bm90LWEtdG9rZW4", client)
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestRememberTokenConcurrentUse(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")
	tok, err := e.tokens.IssueRemember(ctx, u.ID, client)
	require.NoError(t, err)

	const n = 4
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := e.tokens.AuthenticateRemember(ctx, tok, client); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, wins)
}

func TestPasswordResetSingleUse(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	_, sessToken, err := e.sessions.Create(ctx, u.ID, client, nil)
	require.NoError(t, err)
	remember, err := e.tokens.IssueRemember(ctx, u.ID, client)
	require.NoError(t, err)

	tok, err := e.tokens.IssueReset(ctx, u.ID)
	require.NoError(t, err)

	p, err := e.tokens.PeekReset(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, u.ID, p.UserID)

	uid, err := e.tokens.ConsumeReset(ctx, tok, "plain$NewSecret1!")
	require.NoError(t, err)
	require.Equal(t, u.ID, uid)

	_, err = e.tokens.ConsumeReset(ctx, tok, "plain$Other1!")
	require.ErrorIs(t, err, ErrInvalidToken, "second use fails")
	_, err = e.tokens.PeekReset(ctx, tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = e.sessions.Validate(ctx, sessToken, client)
	require.ErrorIs(t, err, ErrSessionInvalid, "sessions are destroyed")
	_, _, err = e.tokens.AuthenticateRemember(ctx, remember, client)
	require.ErrorIs(t, err, ErrInvalidToken, "remember tokens are revoked")

	got, err := e.store.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "plain$NewSecret1!", got.PasswordHash)
	require.NotNil(t, got.PasswordChangedAt)
}

func TestPasswordResetIssuePolicy(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	older, err := e.tokens.IssueReset(ctx, u.ID)
	require.NoError(t, err)
	newer, err := e.tokens.IssueReset(ctx, u.ID)
	require.NoError(t, err)

	_, err = e.tokens.PeekReset(ctx, older)
	require.ErrorIs(t, err, ErrInvalidToken, "issuing a token invalidates earlier ones")
	_, err = e.tokens.PeekReset(ctx, newer)
	require.NoError(t, err)

	e.clock.Advance(time.Hour)
	_, err = e.tokens.ConsumeReset(ctx, newer, "plain$x")
	require.ErrorIs(t, err, ErrInvalidToken, "expired")
}
