package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
)

// respond answers browser navigations with a redirect when one is given and
// everything else with the JSON body.
func respond(w http.ResponseWriter, r *http.Request, status int, body any, redirect string) {
	if redirect != "" && httpx.WantsHTML(r) {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	httpx.WriteJSON(w, status, body)
}

// ensureSession gives an anonymous caller a pre-authentication session so
// that it has a CSRF token to submit the login forms with.
func ensureSession(ctx context.Context, w http.ResponseWriter, rs *RequestSession, sessions *service.SessionManager, cookies CookieConfig) error {
	if rs.Session != nil {
		return nil
	}
	sess, token, err := sessions.Create(ctx, "", rs.Client, nil)
	if err != nil {
		return err
	}
	cookies.setSession(w, preauthCookie, token)
	rs.Session, rs.Token, rs.cookie = &sess, token, preauthCookie
	return nil
}

// formBool parses a checkbox style field. Missing means false.
func formBool(r *http.Request, field string) (bool, error) {
	v := strings.TrimSpace(r.PostForm.Get(field))
	switch strings.ToLower(v) {
	case "":
		return false, nil
	case "on", "yes":
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &service.ValidationError{Field: field, Message: "Must be true or false."}
	}
	return b, nil
}

func userResponse(u domain.User) *authsdk.UserResponse {
	return &authsdk.UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		MatricNumber:     u.MatricNumber,
		Department:       u.Department,
		Role:             string(u.Role),
		Status:           string(u.Status),
		TwoFactorEnabled: u.TwoFactorEnabled,
		EmailVerified:    u.EmailVerified,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
	}
}
