package http

import (
	"net/http"
	"time"
)

const (
	sessionCookie  = "portal_session"
	preauthCookie  = "portal_preauth"
	rememberCookie = "portal_remember"
)

// CookieConfig controls the attributes of the portal cookies.
type CookieConfig struct {
	// Secure marks cookies https-only. Disable for local development only.
	Secure bool
	// RememberTTL is the Max-Age of the remember-me cookie.
	RememberTTL time.Duration
}

func (c CookieConfig) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// setSession sets a browser-session cookie carrying a session token.
func (c CookieConfig) setSession(w http.ResponseWriter, name, token string) {
	http.SetCookie(w, c.cookie(name, token, 0))
}

func (c CookieConfig) setRemember(w http.ResponseWriter, token string) {
	http.SetCookie(w, c.cookie(rememberCookie, token, int(c.RememberTTL.Seconds())))
}

func (c CookieConfig) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, c.cookie(name, "", -1))
}
