package domain

import "time"

// ClientInfo identifies the client a session was bound to at creation.
type ClientInfo struct {
	SourceAddr string
	UserAgent  string
}

// Session is a server-side session record. A record with an empty UserID is a
// pre-authentication session: it carries the CSRF token for the login forms,
// the pending two-factor user, and the URL to return to after login.
type Session struct {
	ID              string // public handle, never the cookie value
	TokenHash       string // fingerprint of the cookie value
	UserID          string
	SourceAddr      string
	UserAgent       string
	CSRFToken       string
	PendingUserID   string
	PendingRemember bool
	IntendedURL     string
	CreatedAt       time.Time
	LastActivityAt  time.Time
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool { return s.UserID != "" }

// Client returns the binding recorded at creation.
func (s Session) Client() ClientInfo {
	return ClientInfo{SourceAddr: s.SourceAddr, UserAgent: s.UserAgent}
}
