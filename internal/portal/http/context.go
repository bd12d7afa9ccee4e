package http

import (
	"context"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
)

// RequestSession is what the access middleware resolved for a request.
// Session is nil when the request carried no valid session cookie; User is
// set only for authenticated sessions.
type RequestSession struct {
	Session *domain.Session
	Token   string
	User    *domain.User
	Client  domain.ClientInfo

	cookie string
}

// Authenticated reports whether a signed-in user was resolved.
func (rs *RequestSession) Authenticated() bool {
	return rs != nil && rs.User != nil
}

type ctxKey struct{}

func withRequestSession(ctx context.Context, rs *RequestSession) context.Context {
	return context.WithValue(ctx, ctxKey{}, rs)
}

// sessionFrom returns the resolved session. Handlers behind the access
// middleware always get a non-nil value.
func sessionFrom(ctx context.Context) *RequestSession {
	rs, _ := ctx.Value(ctxKey{}).(*RequestSession)
	if rs == nil {
		return &RequestSession{}
	}
	return rs
}
