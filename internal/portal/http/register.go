package http

import (
	"net/http"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
)

// RegisterHandler serves account registration and email verification.
type RegisterHandler struct {
	Auth *service.AuthService
}

// HandleRegister handles POST /register
//
//	@Summary		Register a student account
//	@Description	Creates a pending student account and emails a verification link valid for 24 hours. The account cannot log in until the link has been followed.
//	@Tags			Registration
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			name				formData	string						true	"Full name, letters and spaces"
//	@Param			email				formData	string						true	"Email address"
//	@Param			matric_number		formData	string						true	"Matric number, e.g. AI21CS0001"
//	@Param			department			formData	string						true	"Faculty code"
//	@Param			password			formData	string						true	"Password: 8 to 72 characters with upper and lower case, a digit and one of @$!%*?&"
//	@Param			confirm_password	formData	string						true	"Password again"
//	@Param			accept_terms		formData	bool						true	"Terms accepted"
//	@Param			csrf_token			formData	string						true	"CSRF token"
//	@Success		201					{object}	authsdk.RegisterResponse	"Account created"
//	@Failure		400					{object}	authsdk.APIError			"Invalid or duplicate field"
//	@Failure		403					{object}	authsdk.APIError			"CSRF token mismatch"
//	@Router			/register [post].
func (h *RegisterHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	terms, err := formBool(r, "accept_terms")
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := service.RegisterInput{
		Name:            r.PostForm.Get("name"),
		Email:           r.PostForm.Get("email"),
		MatricNumber:    r.PostForm.Get("matric_number"),
		Department:      r.PostForm.Get("department"),
		Password:        r.PostForm.Get("password"),
		ConfirmPassword: r.PostForm.Get("confirm_password"),
		AcceptTerms:     terms,
	}
	user, err := h.Auth.Register(ctx, in, rs.Client)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusCreated, authsdk.RegisterResponse{
		ID:      user.ID,
		Email:   user.Email,
		Message: "Registration successful. Please check your email to verify your account.",
	}, "")
}

// HandleVerifyEmail handles GET /verify-email
//
//	@Summary		Verify an email address
//	@Description	Activates the account the verification link was issued for.
//	@Tags			Registration
//	@Produce		json
//	@Param			token	query		string					true	"Token from the emailed link"
//	@Success		200		{object}	authsdk.MessageResponse	"Email verified"
//	@Success		303		"Email verified (browser navigation)"
//	@Failure		401		{object}	authsdk.APIError		"Invalid, expired or already used link"
//	@Router			/verify-email [get].
func (h *RegisterHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	if _, err := h.Auth.VerifyEmail(ctx, r.URL.Query().Get("token"), rs.Client); err != nil {
		writeError(w, r, err)
		return
	}

	respond(w, r, http.StatusOK, authsdk.MessageResponse{
		Message:  "Your email has been verified. You can now log in.",
		Redirect: "/login",
	}, "/login")
}

// HandleResendVerification handles POST /verify-email/resend
//
//	@Summary		Resend the verification link
//	@Description	Emails a new verification link to a pending account. The answer is the same for unknown addresses.
//	@Tags			Registration
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			email		formData	string					true	"Email address"
//	@Param			csrf_token	formData	string					true	"CSRF token"
//	@Success		200			{object}	authsdk.MessageResponse	"Generic acknowledgement"
//	@Failure		400			{object}	authsdk.APIError		"Malformed email"
//	@Router			/verify-email/resend [post].
func (h *RegisterHandler) HandleResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	if err := h.Auth.ResendVerification(ctx, r.PostForm.Get("email"), rs.Client); err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, authsdk.MessageResponse{
		Message: "If that account is awaiting verification, a new link has been sent.",
	}, "")
}
