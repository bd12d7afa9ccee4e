package mail

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"
	"github.com/cenkalti/backoff/v4"
)

// RetryMailer retries failed deliveries with exponential backoff and returns
// the last error once the retries are spent.
type RetryMailer struct {
	Next            Mailer
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxElapsed      time.Duration

	// OnFailure is called once per message that could not be delivered.
	OnFailure func()
}

func (m *RetryMailer) Send(ctx context.Context, msg Message) error {
	b := backoff.NewExponentialBackOff()
	if m.InitialInterval > 0 {
		b.InitialInterval = m.InitialInterval
	}
	if m.MaxElapsed > 0 {
		b.MaxElapsedTime = m.MaxElapsed
	}

	attempt := 0
	op := func() error {
		attempt++
		err := m.Next.Send(ctx, msg)
		if errors.Is(err, ErrNoRecipient) {
			return backoff.Permanent(err)
		}
		if err != nil {
			slogx.FromContext(ctx).Warn("mail delivery failed", "attempt", attempt, "error", err)
		}
		return err
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, m.MaxRetries), ctx))
	if err != nil && m.OnFailure != nil {
		m.OnFailure()
	}
	return err
}
