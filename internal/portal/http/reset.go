package http

import (
	"net/http"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
)

// ResetHandler serves the password reset flow.
type ResetHandler struct {
	Auth *service.AuthService
}

// HandleRequest handles POST /reset-password/request
//
//	@Summary		Request a password reset link
//	@Description	Emails a reset link valid for one hour to an active account. The answer never reveals whether the address is registered.
//	@Tags			Password Reset
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string					true	"Email address"
//	@Param			csrf_token	formData	string					true	"CSRF token"
//	@Success		200			{object}	authsdk.MessageResponse	"Generic acknowledgement"
//	@Failure		400			{object}	authsdk.APIError		"Malformed email"
//	@Router			/reset-password/request [post].
func (h *ResetHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	if err := h.Auth.RequestPasswordReset(ctx, r.PostForm.Get("email"), rs.Client); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, authsdk.MessageResponse{
		Message: "If an account exists for that email, a password reset link has been sent.",
	}, "")
}

// HandleCheck handles GET /reset-password
//
//	@Summary		Check a reset link
//	@Description	Reports whether the reset link can still be used.
//	@Tags			Password Reset
//	@Produce		json
//	@Param			token	query		string					true	"Token from the emailed link"
//	@Success		200		{object}	authsdk.MessageResponse	"Link usable"
//	@Failure		401		{object}	authsdk.APIError		"Invalid, expired or used link"
//	@Router			/reset-password [get].
func (h *ResetHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.PeekReset(r.Context(), r.URL.Query().Get("token")); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, authsdk.MessageResponse{Message: "Choose a new password."}, "")
}

// HandleReset handles POST /reset-password
//
//	@Summary		Set a new password
//	@Description	Consumes the reset link, sets the password and ends every session and remember-me token of the account.
//	@Tags			Password Reset
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			token				formData	string					true	"Token from the emailed link"
//	@Param			password			formData	string					true	"New password"
//	@Param			confirm_password	formData	string					true	"New password again"
//	@Param			csrf_token			formData	string					true	"CSRF token"
//	@Success		200					{object}	authsdk.MessageResponse	"Password changed"
//	@Failure		400					{object}	authsdk.APIError		"Weak or mismatched password"
//	@Failure		401					{object}	authsdk.APIError		"Invalid, expired or used link"
//	@Router			/reset-password [post].
func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	token := r.PostForm.Get("token")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	err := h.Auth.ResetPassword(ctx, token, r.PostForm.Get("password"), r.PostForm.Get("confirm_password"), rs.Client)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, authsdk.MessageResponse{
		Message:  "Your password has been reset. Please log in with your new password.",
		Redirect: "/login",
	}, "/login")
}
