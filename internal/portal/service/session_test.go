package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/stretchr/testify/require"
)

func TestSessionLifetime(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	_, token, err := e.sessions.Create(ctx, u.ID, client, nil)
	require.NoError(t, err)

	// Keep the session busy so only the absolute cap can end it.
	for elapsed := time.Duration(0); elapsed < time.Hour; elapsed += 10 * time.Minute {
		_, err := e.sessions.Validate(ctx, token, client)
		require.NoError(t, err, "elapsed %s", elapsed)
		e.clock.Advance(10 * time.Minute)
	}

	e.clock.Advance(time.Second)
	_, err = e.sessions.Validate(ctx, token, client)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, 1, e.rec.get("session:"+RejectExpired))

	_, err = e.sessions.Validate(ctx, token, client)
	require.ErrorIs(t, err, ErrSessionInvalid, "expired record is deleted")
}

func TestSessionIdleTimeout(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	_, token, err := e.sessions.Create(ctx, u.ID, client, nil)
	require.NoError(t, err)

	e.clock.Advance(15 * time.Minute)
	_, err = e.sessions.Validate(ctx, token, client)
	require.NoError(t, err, "exactly at the idle limit is still valid")

	e.clock.Advance(15*time.Minute + time.Second)
	_, err = e.sessions.Validate(ctx, token, client)
	require.ErrorIs(t, err, ErrSessionExpired)
	require.Equal(t, 1, e.rec.get("session:"+RejectIdle))
}

func TestSessionHijackDetection(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		other domain.ClientInfo
	}{
		{"different address", domain.ClientInfo{SourceAddr: "10.9.9.9", UserAgent: client.UserAgent}},
		{"different user agent", domain.ClientInfo{SourceAddr: client.SourceAddr, UserAgent: "curl/8.0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			u := e.activeUser(t, "amir@uni.edu")
			created, token, err := e.sessions.Create(ctx, u.ID, client, nil)
			require.NoError(t, err)

			got, err := e.sessions.Validate(ctx, token, tt.other)
			require.ErrorIs(t, err, ErrSessionHijack)
			require.ErrorIs(t, err, ErrSecurityAnomaly)
			require.Equal(t, created.ID, got.ID, "discarded record is returned for auditing")

			_, err = e.sessions.Validate(ctx, token, client)
			require.ErrorIs(t, err, ErrSessionInvalid, "record is gone for the original client too")
		})
	}
}

func TestSessionCreateReplaces(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	pre, preToken, err := e.sessions.Create(ctx, "", client, nil)
	require.NoError(t, err)
	require.False(t, pre.Authenticated())
	require.NotEmpty(t, pre.CSRFToken)

	sess, token, err := e.sessions.Create(ctx, u.ID, client, &pre)
	require.NoError(t, err)
	require.NotEqual(t, preToken, token)
	require.NotEqual(t, pre.CSRFToken, sess.CSRFToken)

	_, err = e.sessions.Validate(ctx, preToken, client)
	require.ErrorIs(t, err, ErrSessionInvalid)

	got, err := e.sessions.Validate(ctx, token, client)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.UserID)
}

func TestSessionBulkTermination(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")
	other := e.activeUser(t, "bella@uni.edu")

	_, keep, err := e.sessions.Create(ctx, u.ID, client, nil)
	require.NoError(t, err)
	_, second, err := e.sessions.Create(ctx, u.ID, client, nil)
	require.NoError(t, err)
	foreign, _, err := e.sessions.Create(ctx, other.ID, client, nil)
	require.NoError(t, err)

	t.Run("cannot end another user's session", func(t *testing.T) {
		require.ErrorIs(t, e.sessions.DestroyByID(ctx, u.ID, foreign.ID), store.ErrNotFound)
	})

	t.Run("sign out others keeps the current one", func(t *testing.T) {
		n, err := e.sessions.DestroyAllExcept(ctx, u.ID, keep)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		_, err = e.sessions.Validate(ctx, second, client)
		require.ErrorIs(t, err, ErrSessionInvalid)
		_, err = e.sessions.Validate(ctx, keep, client)
		require.NoError(t, err)
	})

	t.Run("destroy all", func(t *testing.T) {
		n, err := e.sessions.DestroyAllForUser(ctx, u.ID)
		require.NoError(t, err)
		require.EqualValues(t, 1, n)

		list, err := e.sessions.ListForUser(ctx, other.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})
}

func TestSessionGarbageCollection(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	u := e.activeUser(t, "amir@uni.edu")

	_, stale, err := e.sessions.Create(ctx, u.ID, client, nil)
	require.NoError(t, err)
	e.clock.Advance(20 * time.Minute)
	_, fresh, err := e.sessions.Create(ctx, u.ID, client, nil)
	require.NoError(t, err)

	e.sessions.Rand = func() float64 { return 0.5 }
	e.sessions.MaybeCollect(ctx)
	list, err := e.sessions.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2, "roll above the probability skips the sweep")

	e.sessions.Rand = func() float64 { return 0.001 }
	e.sessions.MaybeCollect(ctx)
	list, err = e.sessions.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = e.sessions.Validate(ctx, stale, client)
	require.ErrorIs(t, err, ErrSessionInvalid)
	_, err = e.sessions.Validate(ctx, fresh, client)
	require.NoError(t, err)
}

func TestIntendedURL(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	sess, token, err := e.sessions.Create(ctx, "", client, nil)
	require.NoError(t, err)

	require.NoError(t, e.sessions.SetIntendedURL(ctx, &sess, "/student/borrow?id=4"))
	require.Equal(t, "/student/borrow?id=4", sess.IntendedURL)

	got, err := e.sessions.Validate(ctx, token, client)
	require.NoError(t, err)
	require.Equal(t, "/student/borrow?id=4", got.IntendedURL)
}
