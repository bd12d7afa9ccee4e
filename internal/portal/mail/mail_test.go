package mail_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/mail"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	t.Parallel()

	t.Run("verification", func(t *testing.T) {
		msg, err := mail.VerificationEmail("ali@example.edu", "Ali Bakar", "https://portal.example/verify-email?token=abc&x=1", 24*time.Hour)
		require.NoError(t, err)
		require.Equal(t, "ali@example.edu", msg.To)
		require.Contains(t, msg.HTML, `href="https://portal.example/verify-email?token=abc&amp;x=1"`)
		require.Contains(t, msg.Text, "https://portal.example/verify-email?token=abc&x=1")
		require.Contains(t, msg.Text, "24 hours")
		require.NotContains(t, msg.Text, "<")
	})

	t.Run("two factor", func(t *testing.T) {
		msg, err := mail.TwoFactorEmail("ali@example.edu", "Ali", "012345", 5*time.Minute)
		require.NoError(t, err)
		require.Contains(t, msg.Text, "012345")
		require.Contains(t, msg.Text, "5 minutes")
	})

	t.Run("name is escaped", func(t *testing.T) {
		msg, err := mail.PasswordChangedEmail("x@example.edu", "<script>alert(1)</script>")
		require.NoError(t, err)
		require.NotContains(t, msg.HTML, "<script>")
		require.Contains(t, msg.HTML, "&lt;script&gt;")
	})

	t.Run("reset", func(t *testing.T) {
		msg, err := mail.PasswordResetEmail("x@example.edu", "X", "https://p/reset-password?token=t", time.Hour)
		require.NoError(t, err)
		require.Contains(t, msg.Text, "1 hour")
		require.True(t, strings.HasPrefix(msg.Subject, "Reset"))
	})
}

type flaky struct {
	failures int
	calls    int
}

func (f *flaky) Send(context.Context, mail.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("relay unavailable")
	}
	return nil
}

func TestRetryMailer(t *testing.T) {
	t.Parallel()

	msg := mail.Message{To: "a@example.edu", Subject: "s"}

	t.Run("recovers", func(t *testing.T) {
		next := &flaky{failures: 2}
		failed := 0
		m := &mail.RetryMailer{Next: next, MaxRetries: 3, InitialInterval: time.Millisecond, OnFailure: func() { failed++ }}
		require.NoError(t, m.Send(context.Background(), msg))
		require.Equal(t, 3, next.calls)
		require.Zero(t, failed)
	})

	t.Run("gives up", func(t *testing.T) {
		next := &flaky{failures: 10}
		failed := 0
		m := &mail.RetryMailer{Next: next, MaxRetries: 2, InitialInterval: time.Millisecond, OnFailure: func() { failed++ }}
		require.Error(t, m.Send(context.Background(), msg))
		require.Equal(t, 3, next.calls)
		require.Equal(t, 1, failed)
	})

	t.Run("no recipient is permanent", func(t *testing.T) {
		out := &mail.Outbox{}
		m := &mail.RetryMailer{Next: out, MaxRetries: 5, InitialInterval: time.Millisecond}
		require.ErrorIs(t, m.Send(context.Background(), mail.Message{}), mail.ErrNoRecipient)
	})
}

func TestOutbox(t *testing.T) {
	t.Parallel()

	out := &mail.Outbox{}
	ctx := context.Background()
	require.NoError(t, out.Send(ctx, mail.Message{To: "a@x.edu", Subject: "1"}))
	require.NoError(t, out.Send(ctx, mail.Message{To: "b@x.edu", Subject: "2"}))
	require.NoError(t, out.Send(ctx, mail.Message{To: "a@x.edu", Subject: "3"}))

	require.Len(t, out.Sent(), 3)
	last, ok := out.Last("a@x.edu")
	require.True(t, ok)
	require.Equal(t, "3", last.Subject)
	_, ok = out.Last("c@x.edu")
	require.False(t, ok)

	out.Err = errors.New("down")
	require.Error(t, out.Send(ctx, mail.Message{To: "a@x.edu"}))
}
