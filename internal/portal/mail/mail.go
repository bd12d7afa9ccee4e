// Package mail delivers the portal's transactional email: verification
// links, two-factor codes and password-reset links.
package mail

import (
	"context"
	"errors"
	"sync"
)

// Message is a rendered email. Text is the plain-text alternative of HTML.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer delivers a message to its recipient.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipient = errors.New("mail: no recipient")

// Outbox is an in-memory Mailer that keeps every message it is given.
type Outbox struct {
	mu   sync.Mutex
	sent []Message

	// Err, when set, is returned by Send instead of recording the message.
	Err error
}

func (o *Outbox) Send(_ context.Context, msg Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return o.Err
	}
	if msg.To == "" {
		return ErrNoRecipient
	}
	o.sent = append(o.sent, msg)
	return nil
}

// Sent returns a copy of the delivered messages in order.
func (o *Outbox) Sent() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Message(nil), o.sent...)
}

// Last returns the most recent message to addr.
func (o *Outbox) Last(addr string) (Message, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.sent) - 1; i >= 0; i-- {
		if o.sent[i].To == addr {
			return o.sent[i], true
		}
	}
	return Message{}, false
}
