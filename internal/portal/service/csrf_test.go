package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSRFGuard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)

	sess := e.preauth(t, client)
	other := e.preauth(t, client)

	token, err := e.csrf.Issue(ctx, sess)
	require.NoError(t, err)
	require.Len(t, token, 64, "256 bits hex encoded")

	again, err := e.csrf.Issue(ctx, sess)
	require.NoError(t, err)
	require.Equal(t, token, again, "stable for the session lifetime")

	foreign, err := e.csrf.Issue(ctx, other)
	require.NoError(t, err)

	t.Run("matching token", func(t *testing.T) {
		require.True(t, e.csrf.Verify(sess, token))
	})
	t.Run("missing token", func(t *testing.T) {
		require.False(t, e.csrf.Verify(sess, ""))
	})
	t.Run("token of another session", func(t *testing.T) {
		require.False(t, e.csrf.Verify(sess, foreign))
	})
	t.Run("no session", func(t *testing.T) {
		require.False(t, e.csrf.Verify(nil, token))
	})
	t.Run("session without token", func(t *testing.T) {
		s := *sess
		s.CSRFToken = ""
		require.False(t, e.csrf.Verify(&s, ""))
	})

	t.Run("issued lazily and persisted", func(t *testing.T) {
		s := *sess
		s.CSRFToken = ""
		tok, err := e.csrf.Issue(ctx, &s)
		require.NoError(t, err)
		require.NotEqual(t, token, tok)

		stored, err := e.store.Sessions().GetSessionByTokenHash(ctx, s.TokenHash)
		require.NoError(t, err)
		require.Equal(t, tok, stored.CSRFToken)
	})
}
