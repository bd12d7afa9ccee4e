package http

import (
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
)

// AccountHandler serves the signed-in user's own account and sessions.
type AccountHandler struct {
	Auth     *service.AuthService
	Sessions *service.SessionManager
	Audit    *service.AuditLog
	Cookies  CookieConfig
}

// HandleMe handles GET /me
//
//	@Summary		Current user
//	@Tags			Account
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"Signed-in user"
//	@Failure		401	{object}	authsdk.APIError		"Not signed in"
//	@Router			/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())
	httpx.WriteJSON(w, http.StatusOK, userResponse(*rs.User))
}

// HandleSetTwoFactor handles PUT /me/two-factor
//
//	@Summary		Enable or disable two-factor login
//	@Description	Turns emailed two-factor codes on or off. The current password is required.
//	@Tags			Account
//	@Security		SessionCookie
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			enabled				formData	bool					true	"Two-factor on or off"
//	@Param			current_password	formData	string					true	"Current password"
//	@Param			csrf_token			formData	string					true	"CSRF token"
//	@Success		200					{object}	authsdk.UserResponse	"Updated user"
//	@Failure		400					{object}	authsdk.APIError		"Missing password"
//	@Failure		401					{object}	authsdk.APIError		"Wrong password"
//	@Router			/me/two-factor [put].
func (h *AccountHandler) HandleSetTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	enabled, err := formBool(r, "enabled")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Auth.SetTwoFactor(ctx, rs.User.ID, enabled, r.PostForm.Get("current_password"), rs.Client); err != nil {
		writeError(w, r, err)
		return
	}

	user := *rs.User
	user.TwoFactorEnabled = enabled
	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

// HandleDashboard handles GET /{role}/dashboard
//
//	@Summary		Role dashboard
//	@Description	Landing payload after login. Each role may only open its own dashboard.
//	@Tags			Account
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	authsdk.DashboardResponse	"Dashboard"
//	@Failure		401	{object}	authsdk.APIError			"Not signed in"
//	@Failure		403	{object}	authsdk.APIError			"Another role's dashboard"
//	@Router			/student/dashboard [get]
//	@Router			/staff/dashboard [get]
//	@Router			/admin/dashboard [get].
func (h *AccountHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())

	perms := rs.User.Role.Permissions()
	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, string(p))
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.DashboardResponse{
		Role:        string(rs.User.Role),
		Name:        rs.User.Name,
		Permissions: names,
	})
}

// HandleFallback answers paths no other route matched. The root path sends
// the user to their dashboard.
func (h *AccountHandler) HandleFallback(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())
	if r.URL.Path == "/" && r.Method == http.MethodGet {
		http.Redirect(w, r, rs.User.Role.Dashboard(), http.StatusSeeOther)
		return
	}
	authsdk.ErrNotFound.WriteError(w)
}

// HandleListSessions handles GET /sessions
//
//	@Summary		List own sessions
//	@Tags			Sessions
//	@Security		SessionCookie
//	@Produce		json
//	@Success		200	{object}	authsdk.SessionListResponse	"Active sessions, most recent first"
//	@Failure		401	{object}	authsdk.APIError			"Not signed in"
//	@Router			/sessions [get].
func (h *AccountHandler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	sessions, err := h.Sessions.ListForUser(ctx, rs.User.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := authsdk.SessionListResponse{Sessions: make([]authsdk.SessionResponse, 0, len(sessions))}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, authsdk.SessionResponse{
			ID:             s.ID,
			SourceAddr:     s.SourceAddr,
			UserAgent:      s.UserAgent,
			CreatedAt:      s.CreatedAt,
			LastActivityAt: s.LastActivityAt,
			Current:        s.ID == rs.Session.ID,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleRevokeSession handles DELETE /sessions/{id}
//
//	@Summary		End one of the own sessions
//	@Description	Ends another session of the signed-in user. Use POST /logout for the current one.
//	@Tags			Sessions
//	@Security		SessionCookie
//	@Param			id			path		string	true	"Session id"
//	@Param			X-CSRF-Token	header		string	true	"CSRF token"
//	@Success		204			"Session ended"
//	@Failure		400			{object}	authsdk.APIError	"Current session"
//	@Failure		404			{object}	authsdk.APIError	"Unknown session"
//	@Router			/sessions/{id} [delete].
func (h *AccountHandler) HandleRevokeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	id := r.PathValue("id")
	if !idx.Valid(id) {
		writeError(w, r, store.ErrNotFound)
		return
	}
	if id == rs.Session.ID {
		writeError(w, r, &service.ValidationError{Field: "id", Message: "Use logout to end the current session."})
		return
	}

	if err := h.Sessions.DestroyByID(ctx, rs.User.ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	h.Audit.Record(ctx, rs.User.ID, domain.EventSessionRevoked, "Session "+id+" ended by user", rs.Client)
	w.WriteHeader(http.StatusNoContent)
}

// HandleRevokeOthers handles POST /sessions/revoke-others
//
//	@Summary		Sign out everywhere else
//	@Description	Ends every other session of the signed-in user and revokes all remember-me tokens.
//	@Tags			Sessions
//	@Security		SessionCookie
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			csrf_token	formData	string							true	"CSRF token"
//	@Success		200			{object}	authsdk.RevokeOthersResponse	"Number of sessions ended"
//	@Router			/sessions/revoke-others [post].
func (h *AccountHandler) HandleRevokeOthers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	n, err := h.Sessions.DestroyAllExcept(ctx, rs.User.ID, rs.Token)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Auth.Tokens.RevokeAllRemember(ctx, rs.User.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.Cookies.clear(w, rememberCookie)

	h.Audit.Record(ctx, rs.User.ID, domain.EventSessionRevoked, fmt.Sprintf("Signed out of %d other sessions", n), rs.Client)
	httpx.WriteJSON(w, http.StatusOK, authsdk.RevokeOthersResponse{Revoked: n})
}
