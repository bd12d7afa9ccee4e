package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTwoFactorCodes(t *testing.T) {
	ctx := context.Background()

	t.Run("format and hashing", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")

		code, err := e.twofactor.IssueCode(ctx, u.ID)
		require.NoError(t, err)
		require.Regexp(t, `^[0-9]{6}$`, code)

		stored, err := e.store.TwoFactorCodes().GetCurrentTwoFactorCode(ctx, u.ID, e.clock.Now())
		require.NoError(t, err)
		require.NotEqual(t, code, stored.CodeHash)
		require.Equal(t, t0.Add(5*time.Minute), stored.ExpiresAt)
	})

	t.Run("single use", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")
		code, err := e.twofactor.IssueCode(ctx, u.ID)
		require.NoError(t, err)

		ok, err := e.twofactor.Verify(ctx, u.ID, code)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = e.twofactor.Verify(ctx, u.ID, code)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("expired", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")
		code, err := e.twofactor.IssueCode(ctx, u.ID)
		require.NoError(t, err)

		e.clock.Advance(5 * time.Minute)
		ok, err := e.twofactor.Verify(ctx, u.ID, code)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("only the newest code is current", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")
		first, err := e.twofactor.IssueCode(ctx, u.ID)
		require.NoError(t, err)
		e.clock.Advance(time.Second)
		second, err := e.twofactor.IssueCode(ctx, u.ID)
		require.NoError(t, err)

		if first != second {
			ok, err := e.twofactor.Verify(ctx, u.ID, first)
			require.NoError(t, err)
			require.False(t, ok)
		}
		ok, err := e.twofactor.Verify(ctx, u.ID, second)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("malformed code", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")
		for _, c := range []string{"", "12345", "1234567", "abcdef", "12 456"} {
			ok, err := e.twofactor.Verify(ctx, u.ID, c)
			require.NoError(t, err)
			require.False(t, ok, c)
		}
	})

	t.Run("resend throttle", func(t *testing.T) {
		e := newEnv(t)
		u := e.activeUser(t, "amir@uni.edu")
		for range 3 {
			allowed, err := e.twofactor.ResendAllowed(ctx, u.ID)
			require.NoError(t, err)
			require.True(t, allowed)
			_, err = e.twofactor.IssueCode(ctx, u.ID)
			require.NoError(t, err)
			e.clock.Advance(time.Minute)
		}
		allowed, err := e.twofactor.ResendAllowed(ctx, u.ID)
		require.NoError(t, err)
		require.False(t, allowed)

		e.clock.Advance(13 * time.Minute)
		allowed, err = e.twofactor.ResendAllowed(ctx, u.ID)
		require.NoError(t, err)
		require.True(t, allowed, "oldest issuance left the window")
	})
}
