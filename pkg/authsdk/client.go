package authsdk

import (
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"
)

// SDKClient is a client for the BorrowSmart portal. It behaves like a browser
// without JavaScript: session cookies live in its jar and the CSRF token of
// the current session is attached to every state-changing request.
//
// Secure cookies are only returned by the jar over https, so a portal served
// over plain http must run with PORTAL_COOKIE_SECURE=false.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	mu        sync.Mutex
	csrfToken string
}

// NewSDKClient creates a client with an empty cookie jar. Redirects are not
// followed; the portal answers API clients with JSON bodies instead.
func NewSDKClient(baseURL string) *SDKClient {
	jar, _ := cookiejar.New(nil)
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// CSRFToken returns the token the client currently sends.
func (c *SDKClient) CSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrfToken
}

// SetCSRFToken overrides the token sent with state-changing requests.
func (c *SDKClient) SetCSRFToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.csrfToken = token
}

// Cookie returns the named cookie the jar holds for the portal, if any.
func (c *SDKClient) Cookie(name string) (*http.Cookie, bool) {
	if c.HTTPClient.Jar == nil {
		return nil, false
	}
	req, err := http.NewRequest(http.MethodGet, c.url("/"), nil)
	if err != nil {
		return nil, false
	}
	for _, ck := range c.HTTPClient.Jar.Cookies(req.URL) {
		if ck.Name == name {
			return ck, true
		}
	}
	return nil, false
}
