package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// ============================================================================
// Form Bootstrap
// ============================================================================

// FetchCSRFToken starts (or resumes) a session and stores its CSRF token.
func (c *SDKClient) FetchCSRFToken(ctx context.Context) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/csrf-token", nil, nil)
	if err != nil {
		return "", err
	}

	var out CSRFResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return "", err
	}
	c.SetCSRFToken(out.CSRFToken)
	return out.CSRFToken, nil
}

// ============================================================================
// Registration
// ============================================================================

// Register creates a pending student account. The account can log in once the
// emailed verification link has been followed.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	data := url.Values{
		"name":             {req.Name},
		"email":            {req.Email},
		"matric_number":    {req.MatricNumber},
		"department":       {req.Department},
		"password":         {req.Password},
		"confirm_password": {req.ConfirmPassword},
		"accept_terms":     {formBool(req.AcceptTerms)},
	}

	resp, err := c.doForm(ctx, http.MethodPost, "/register", data)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail follows an email verification link token.
func (c *SDKClient) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	return c.getMessage(ctx, "/verify-email?token="+url.QueryEscape(token))
}

// ResendVerification asks for a new verification link. The answer is the same
// whether or not the address belongs to a pending account.
func (c *SDKClient) ResendVerification(ctx context.Context, email string) (*MessageResponse, error) {
	return c.postMessage(ctx, "/verify-email/resend", url.Values{"email": {email}})
}

// ============================================================================
// Login
// ============================================================================

// Login submits credentials. When two-factor verification is required the
// response status is LoginStatusTwoFactorRequired and VerifyTwoFactor must be
// called with the emailed code.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	data := url.Values{
		"email":    {req.Email},
		"password": {req.Password},
	}
	if req.Remember {
		data.Set("remember", "true")
	}
	return c.loginRequest(ctx, "/login", data)
}

// VerifyTwoFactor completes a pending login with the emailed code.
func (c *SDKClient) VerifyTwoFactor(ctx context.Context, code string) (*LoginResponse, error) {
	return c.loginRequest(ctx, "/verify-2fa", url.Values{"code": {code}})
}

// ResendTwoFactor emails a fresh code for the pending login.
func (c *SDKClient) ResendTwoFactor(ctx context.Context) (*MessageResponse, error) {
	return c.postMessage(ctx, "/resend-2fa", url.Values{})
}

func (c *SDKClient) loginRequest(ctx context.Context, path string, data url.Values) (*LoginResponse, error) {
	resp, err := c.doForm(ctx, http.MethodPost, path, data)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	if out.CSRFToken != "" {
		c.SetCSRFToken(out.CSRFToken)
	}
	return &out, nil
}

// Logout ends the session and revokes remember-me tokens.
func (c *SDKClient) Logout(ctx context.Context) error {
	resp, err := c.doForm(ctx, http.MethodPost, "/logout", url.Values{})
	if err != nil {
		return err
	}
	if err := checkStatusNoContent(resp); err != nil {
		return err
	}
	c.SetCSRFToken("")
	return nil
}

// ============================================================================
// Password Reset
// ============================================================================

// RequestPasswordReset asks for a reset link. The answer never reveals whether
// the address is registered.
func (c *SDKClient) RequestPasswordReset(ctx context.Context, email string) (*MessageResponse, error) {
	return c.postMessage(ctx, "/reset-password/request", url.Values{"email": {email}})
}

// CheckResetToken reports whether a reset link can still be used.
func (c *SDKClient) CheckResetToken(ctx context.Context, token string) error {
	_, err := c.getMessage(ctx, "/reset-password?token="+url.QueryEscape(token))
	return err
}

// ResetPassword sets a new password through a reset link.
func (c *SDKClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	data := url.Values{
		"token":            {req.Token},
		"password":         {req.Password},
		"confirm_password": {req.ConfirmPassword},
	}
	return c.postMessage(ctx, "/reset-password", data)
}

func (c *SDKClient) getMessage(ctx context.Context, path string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SDKClient) postMessage(ctx context.Context, path string, data url.Values) (*MessageResponse, error) {
	resp, err := c.doForm(ctx, http.MethodPost, path, data)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
