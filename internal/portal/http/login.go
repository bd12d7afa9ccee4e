package http

import (
	"net/http"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
)

// LoginHandler serves the login, two-factor and logout endpoints.
type LoginHandler struct {
	Auth     *service.AuthService
	Sessions *service.SessionManager
	CSRF     *service.CSRFGuard
	Cookies  CookieConfig
}

// HandleLoginForm handles GET /login
//
//	@Summary		Login form bootstrap
//	@Description	Starts a pre-authentication session and returns its CSRF token. Signed-in users are sent to their dashboard.
//	@Tags			Login
//	@Produce		json
//	@Success		200	{object}	authsdk.CSRFResponse	"CSRF token for the login form"
//	@Success		303	"Already signed in (browser navigation)"
//	@Router			/login [get].
func (h *LoginHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	if rs.Authenticated() {
		respond(w, r, http.StatusOK, authsdk.LoginResponse{
			Status:    authsdk.LoginStatusAuthenticated,
			Redirect:  rs.User.Role.Dashboard(),
			CSRFToken: rs.Session.CSRFToken,
			User:      userResponse(*rs.User),
		}, rs.User.Role.Dashboard())
		return
	}

	if err := ensureSession(ctx, w, rs, h.Sessions, h.Cookies); err != nil {
		writeError(w, r, err)
		return
	}
	token, err := h.CSRF.Issue(ctx, rs.Session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, authsdk.CSRFResponse{CSRFToken: token}, "")
}

// HandleLogin handles POST /login
//
//	@Summary		Log in
//	@Description	Checks email and password. Accounts with two-factor enabled receive an emailed code and must complete the login with POST /verify-2fa; no session cookie is issued until then.
//	@Description	Failed attempts count towards the account lockout and the address block.
//	@Tags			Login
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string					true	"Account email"
//	@Param			password	formData	string					true	"Password"
//	@Param			remember	formData	bool					false	"Issue a remember-me cookie"
//	@Param			csrf_token	formData	string					true	"CSRF token of the pre-authentication session"
//	@Success		200			{object}	authsdk.LoginResponse	"Signed in, or two-factor verification required"
//	@Failure		400			{object}	authsdk.APIError		"Invalid input"
//	@Failure		401			{object}	authsdk.APIError		"Invalid credentials, unverified or inactive account"
//	@Failure		403			{object}	authsdk.APIError		"CSRF token mismatch"
//	@Failure		429			{object}	authsdk.APIError		"Account locked or address blocked"
//	@Router			/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	remember, err := formBool(r, "remember")
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := service.LoginInput{
		Email:    r.PostForm.Get("email"),
		Password: r.PostForm.Get("password"),
		Remember: remember,
	}
	res, err := h.Auth.Login(ctx, in, rs.Client, rs.Session)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if res.TwoFactorRequired {
		h.Cookies.setSession(w, preauthCookie, res.PreAuthToken)
		respond(w, r, http.StatusOK, authsdk.LoginResponse{
			Status:    authsdk.LoginStatusTwoFactorRequired,
			Redirect:  res.Redirect,
			CSRFToken: res.PreAuth.CSRFToken,
		}, res.Redirect)
		return
	}

	h.signedIn(w, r, res)
}

// signedIn sets the cookies of a freshly started session.
func (h *LoginHandler) signedIn(w http.ResponseWriter, r *http.Request, res service.LoginResult) {
	h.Cookies.clear(w, preauthCookie)
	h.Cookies.setSession(w, sessionCookie, res.SessionToken)
	if res.RememberToken != "" {
		h.Cookies.setRemember(w, res.RememberToken)
	}

	respond(w, r, http.StatusOK, authsdk.LoginResponse{
		Status:    authsdk.LoginStatusAuthenticated,
		Redirect:  res.Redirect,
		CSRFToken: res.Session.CSRFToken,
		User:      userResponse(res.User),
	}, res.Redirect)
}

// HandleChallenge handles GET /verify-2fa
//
//	@Summary		Two-factor challenge status
//	@Description	Reports whether a two-factor verification is pending on this session.
//	@Tags			Login
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse	"Verification pending"
//	@Failure		401	{object}	authsdk.APIError		"No verification in progress"
//	@Router			/verify-2fa [get].
func (h *LoginHandler) HandleChallenge(w http.ResponseWriter, r *http.Request) {
	rs := sessionFrom(r.Context())
	if rs.Session == nil || rs.Session.PendingUserID == "" {
		if rs.Authenticated() {
			respond(w, r, http.StatusOK, authsdk.MessageResponse{
				Message:  "You are already signed in.",
				Redirect: rs.User.Role.Dashboard(),
			}, rs.User.Role.Dashboard())
			return
		}
		if httpx.WantsHTML(r) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		writeError(w, r, service.ErrNoPendingChallenge)
		return
	}

	respond(w, r, http.StatusOK, authsdk.MessageResponse{
		Message: "A verification code has been sent to your email.",
	}, "")
}

// HandleVerifyTwoFactor handles POST /verify-2fa
//
//	@Summary		Complete a two-factor login
//	@Description	Checks the emailed six digit code. Codes are single use and expire after five minutes. Wrong codes count towards the account lockout.
//	@Tags			Login
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			code		formData	string					true	"Six digit code"
//	@Param			csrf_token	formData	string					true	"CSRF token returned by POST /login"
//	@Success		200			{object}	authsdk.LoginResponse	"Signed in"
//	@Failure		400			{object}	authsdk.APIError		"Missing code"
//	@Failure		401			{object}	authsdk.APIError		"Invalid or expired code, or no verification in progress"
//	@Failure		403			{object}	authsdk.APIError		"CSRF token mismatch"
//	@Failure		429			{object}	authsdk.APIError		"Account locked or address blocked"
//	@Router			/verify-2fa [post].
func (h *LoginHandler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	res, err := h.Auth.CompleteTwoFactor(ctx, rs.Session, r.PostForm.Get("code"), rs.Client)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.signedIn(w, r, res)
}

// HandleResendTwoFactor handles POST /resend-2fa
//
//	@Summary		Resend the two-factor code
//	@Description	Emails a fresh code for the pending login. At most three codes are sent per fifteen minutes.
//	@Tags			Login
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			csrf_token	formData	string					true	"CSRF token"
//	@Success		200			{object}	authsdk.MessageResponse	"Code sent"
//	@Failure		401			{object}	authsdk.APIError		"No verification in progress"
//	@Failure		429			{object}	authsdk.APIError		"Resend limit reached"
//	@Router			/resend-2fa [post].
func (h *LoginHandler) HandleResendTwoFactor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	if err := h.Auth.ResendTwoFactor(ctx, rs.Session, rs.Client); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, authsdk.MessageResponse{
		Message: "A new verification code has been sent to your email.",
	}, "")
}

// HandleLogout handles POST /logout
//
//	@Summary		Log out
//	@Description	Ends the current session and revokes every remember-me token of the user.
//	@Tags			Login
//	@Security		SessionCookie
//	@Accept			x-www-form-urlencoded
//	@Param			csrf_token	formData	string	true	"CSRF token"
//	@Success		204			"Logged out"
//	@Success		303			"Logged out (browser navigation)"
//	@Failure		401			{object}	authsdk.APIError	"Not signed in"
//	@Failure		403			{object}	authsdk.APIError	"CSRF token mismatch"
//	@Router			/logout [post].
func (h *LoginHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	if err := h.Auth.Logout(ctx, rs.User.ID, rs.Token, domain.EventUserLogout, rs.Client); err != nil {
		writeError(w, r, err)
		return
	}
	h.Cookies.clear(w, sessionCookie)
	h.Cookies.clear(w, rememberCookie)

	if httpx.WantsHTML(r) {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
