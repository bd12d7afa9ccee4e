package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"
)

const maxFormBytes = 64 << 10

// policy describes how the access middleware treats a route.
type policy struct {
	// public routes are served without a signed-in user.
	public bool
	// maintenanceExempt routes stay reachable in maintenance mode.
	maintenanceExempt bool
	// require is checked against the user's role on protected routes.
	require domain.Requirement
}

var (
	publicRoute      = policy{public: true}
	maintenanceRoute = policy{public: true, maintenanceExempt: true}
)

func protected(req domain.Requirement) policy {
	return policy{require: req}
}

// access runs the per-request security pipeline in front of every portal
// route: resolve the session, maintenance gate, CSRF, authentication, and
// authorization. The first failing step answers the request.
func (r *Router) access(p policy) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			req.Body = http.MaxBytesReader(w, req.Body, maxFormBytes)
			if err := req.ParseForm(); err != nil {
				authsdk.ErrInvalidFormBody.WriteError(w)
				return
			}

			client := domain.ClientInfo{
				SourceAddr: r.ip.ClientIP(req),
				UserAgent:  req.UserAgent(),
			}
			ctx := req.Context()

			rs, err := r.resolve(ctx, w, req, client)
			if err != nil {
				writeError(w, req, err)
				return
			}
			r.Sessions.MaybeCollect(ctx)

			if !p.maintenanceExempt && !(rs.Authenticated() && rs.User.Role == domain.RoleAdmin) {
				on, err := r.Settings.MaintenanceMode(ctx)
				if err != nil {
					writeError(w, req, fmt.Errorf("read maintenance mode: %w", err))
					return
				}
				if on {
					if httpx.WantsHTML(req) {
						http.Redirect(w, req, "/maintenance", http.StatusSeeOther)
						return
					}
					authsdk.ErrMaintenance.WriteError(w)
					return
				}
			}

			if !httpx.IsSafeMethod(req.Method) && !r.CSRF.Verify(rs.Session, submittedCSRF(req)) {
				r.Recorder.CSRFRejected()
				r.Audit.Record(ctx, auditUser(rs), domain.EventCSRFMismatch,
					fmt.Sprintf("CSRF token mismatch on %s %s", req.Method, req.URL.Path), client)
				writeError(w, req, service.ErrCSRFMismatch)
				return
			}

			if !p.public {
				if !rs.Authenticated() {
					resumed, err := r.resumeFromRemember(ctx, w, req, rs)
					if err != nil {
						writeError(w, req, err)
						return
					}
					rs = resumed
				}
				if !rs.Authenticated() {
					r.requireLogin(ctx, w, req, rs)
					return
				}

				if d := domain.Authorize(rs.User.Role, p.require); d != domain.DecisionAllowed {
					r.Audit.Record(ctx, rs.User.ID, domain.EventUnauthorizedAccess,
						fmt.Sprintf("Denied %s %s for role %q (%s)", req.Method, req.URL.Path, rs.User.Role, d), client)
					if httpx.WantsHTML(req) {
						http.Redirect(w, req, "/unauthorized", http.StatusSeeOther)
						return
					}
					writeError(w, req, service.ErrForbidden)
					return
				}
			}

			ctx = withRequestSession(ctx, rs)
			if rs.Authenticated() {
				ctx = httpx.WithUserID(ctx, rs.User.ID)
				ctx = slogx.WithAttrs(ctx, "user_id", rs.User.ID)
			}
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

// resolve validates the session cookie and, failing that, the pre-auth
// cookie. Invalid cookies are cleared. A session whose user is no longer
// active is ended on the spot.
func (r *Router) resolve(ctx context.Context, w http.ResponseWriter, req *http.Request, client domain.ClientInfo) (*RequestSession, error) {
	rs := &RequestSession{Client: client}

	for _, name := range []string{sessionCookie, preauthCookie} {
		c, err := req.Cookie(name)
		if err != nil || c.Value == "" {
			continue
		}

		sess, err := r.Sessions.Validate(ctx, c.Value, client)
		if err != nil {
			r.cookies.clear(w, name)
			uid := sess.UserID
			if uid == "" {
				uid = sess.PendingUserID
			}
			switch {
			case errors.Is(err, service.ErrSessionHijack):
				r.Audit.Record(ctx, uid, domain.EventSessionHijack,
					fmt.Sprintf("Session presented from a different client (bound to %s)", sess.SourceAddr), client)
			case errors.Is(err, service.ErrSessionExpired):
				if sess.UserID != "" {
					r.Audit.Record(ctx, sess.UserID, domain.EventSessionExpired, "Session expired", client)
				}
			case errors.Is(err, service.ErrAuthentication):
			default:
				return nil, err
			}
			continue
		}

		// Each cookie only ever carries its own kind of record.
		if sess.Authenticated() != (name == sessionCookie) {
			r.cookies.clear(w, name)
			continue
		}

		if sess.Authenticated() {
			user, err := r.store.Users().GetUserByID(ctx, sess.UserID)
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return nil, fmt.Errorf("load session user: %w", err)
			}
			if err != nil || !user.IsActive() {
				if err := r.Auth.Logout(ctx, sess.UserID, c.Value, domain.EventSecurityLogout, client); err != nil {
					return nil, err
				}
				r.cookies.clear(w, name)
				r.cookies.clear(w, rememberCookie)
				continue
			}
			rs.User = &user
		}

		rs.Session = &sess
		rs.Token = c.Value
		rs.cookie = name
		return rs, nil
	}
	return rs, nil
}

// resumeFromRemember signs the caller in from a remember-me cookie. The
// returned session is unchanged when there is no usable cookie.
func (r *Router) resumeFromRemember(ctx context.Context, w http.ResponseWriter, req *http.Request, rs *RequestSession) (*RequestSession, error) {
	c, err := req.Cookie(rememberCookie)
	if err != nil || c.Value == "" {
		return rs, nil
	}

	res, err := r.Auth.ResumeFromRemember(ctx, c.Value, rs.Client, rs.Session)
	if errors.Is(err, service.ErrAuthentication) {
		r.cookies.clear(w, rememberCookie)
		return rs, nil
	}
	if err != nil {
		return nil, err
	}

	if rs.cookie == preauthCookie {
		r.cookies.clear(w, preauthCookie)
	}
	r.cookies.setSession(w, sessionCookie, res.SessionToken)
	r.cookies.setRemember(w, res.RememberToken)

	return &RequestSession{
		Session: &res.Session,
		Token:   res.SessionToken,
		User:    &res.User,
		Client:  rs.Client,
		cookie:  sessionCookie,
	}, nil
}

// requireLogin answers an anonymous request for a protected route. Browser
// navigations are sent to the login page with the URL kept for after login.
func (r *Router) requireLogin(ctx context.Context, w http.ResponseWriter, req *http.Request, rs *RequestSession) {
	if !httpx.WantsHTML(req) {
		authsdk.ErrLoginRequired.WriteError(w)
		return
	}

	if req.Method == http.MethodGet {
		if err := r.rememberIntendedURL(ctx, w, req, rs); err != nil {
			slogx.FromContext(ctx).Warn("failed to store intended url", "error", err)
		}
	}
	http.Redirect(w, req, "/login", http.StatusSeeOther)
}

func (r *Router) rememberIntendedURL(ctx context.Context, w http.ResponseWriter, req *http.Request, rs *RequestSession) error {
	target := req.URL.RequestURI()
	if !service.LocalPath(target) {
		return nil
	}

	if err := ensureSession(ctx, w, rs, r.Sessions, r.cookies); err != nil {
		return err
	}
	return r.Sessions.SetIntendedURL(ctx, rs.Session, target)
}

// submittedCSRF reads the token from the form body or the X-CSRF-Token header.
func submittedCSRF(req *http.Request) string {
	if tok := req.PostForm.Get("csrf_token"); tok != "" {
		return tok
	}
	return req.Header.Get("X-CSRF-Token")
}

func auditUser(rs *RequestSession) string {
	if rs.Authenticated() {
		return rs.User.ID
	}
	if rs.Session != nil {
		return rs.Session.PendingUserID
	}
	return ""
}
