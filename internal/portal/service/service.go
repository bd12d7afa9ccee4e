package service

import (
	"time"
)

// Hasher hashes and verifies secrets. Verify returns nil on a match and an
// error otherwise. cryptox.Argon2Hasher is the production implementation.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, encoded string) error
}

// Recorder receives security counters. metrics.Collector implements it.
type Recorder interface {
	LoginAttempt(outcome string)
	TwoFactorAttempt(outcome string)
	AccountLocked()
	AddressBlocked()
	SessionRejected(reason string)
	CSRFRejected()
	MailFailed()
}

// NopRecorder discards every observation.
type NopRecorder struct{}

func (NopRecorder) LoginAttempt(string)     {}
func (NopRecorder) TwoFactorAttempt(string) {}
func (NopRecorder) AccountLocked()          {}
func (NopRecorder) AddressBlocked()         {}
func (NopRecorder) SessionRejected(string)  {}
func (NopRecorder) CSRFRejected()           {}
func (NopRecorder) MailFailed()             {}

func recorderOr(r Recorder) Recorder {
	if r == nil {
		return NopRecorder{}
	}
	return r
}

func clockNow(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
