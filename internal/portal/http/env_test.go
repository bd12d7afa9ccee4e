package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/mail"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
	"github.com/aussiebroadwan/borrowsmart/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testPassword = "Secret123!"
	testUA       = "Mozilla/5.0 portal-test"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type plainHasher struct{}

func (plainHasher) Hash(s string) (string, error) { return "plain$" + s, nil }

func (plainHasher) Verify(s, encoded string) error {
	if encoded != "plain$"+s {
		return errors.New("mismatch")
	}
	return nil
}

// harness serves a fully wired Router over a temporary database.
type harness struct {
	srv    *httptest.Server
	store  *sqlite.Store
	out    *mail.Outbox
	router *Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "portal.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	links, err := jwtx.NewLinkSigner([]byte(strings.Repeat("k", jwtx.MinKeySize)), "borrowsmart-test")
	require.NoError(t, err)

	now := func() time.Time { return t0 }
	out := &mail.Outbox{}

	sessions := &service.SessionManager{Store: st, Config: service.DefaultSessionConfig(), Now: now, Rand: func() float64 { return 1 }}
	audit := &service.AuditLog{Store: st, Now: now}
	twofactor := &service.TwoFactorService{Store: st, Hasher: plainHasher{}, Config: service.DefaultTwoFactorConfig(), Now: now}
	tokens := &service.TokenService{Store: st, Config: service.DefaultTokenConfig(), Now: now}
	bruteforce := &service.BruteForceGuard{Store: st, Config: service.DefaultBruteForceConfig(), Now: now, SubjectKey: []byte("subject-key")}

	cfg := service.DefaultAuthConfig()
	cfg.BaseURL = "https://borrow.test"

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter("test", st, logger, CookieConfig{RememberTTL: 30 * 24 * time.Hour}, httpx.IPResolver{})
	r.Sessions = sessions
	r.CSRF = &service.CSRFGuard{Store: st}
	r.Audit = audit
	r.Settings = service.NewSettingsService(st, 0, now)
	r.Auth = &service.AuthService{
		Store:      st,
		Hasher:     plainHasher{},
		Mailer:     out,
		Links:      links,
		Sessions:   sessions,
		BruteForce: bruteforce,
		TwoFactor:  twofactor,
		Tokens:     tokens,
		Audit:      audit,
		Config:     cfg,
		Now:        now,
	}
	r.ApplyRoutes()

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	return &harness{srv: srv, store: st, out: out, router: r}
}

// user inserts a verified, active account.
func (h *harness) user(t *testing.T, email string, role domain.Role, mutate ...func(*domain.User)) domain.User {
	t.Helper()
	u := domain.User{
		ID:            idx.NewAt(t0).String(),
		Name:          "Test User",
		Email:         email,
		MatricNumber:  "M-" + email,
		Department:    "FSKTM",
		PasswordHash:  "plain$" + testPassword,
		Role:          role,
		Status:        domain.StatusActive,
		EmailVerified: true,
		CreatedAt:     t0,
		UpdatedAt:     t0,
	}
	for _, m := range mutate {
		m(&u)
	}
	require.NoError(t, h.store.Users().CreateUser(context.Background(), u))
	return u
}

func (h *harness) countEvents(t *testing.T, uid string, kind domain.EventKind) int {
	t.Helper()
	n, err := h.router.Audit.Count(context.Background(), uid, kind, time.Time{})
	require.NoError(t, err)
	return n
}

var (
	reLinkToken = regexp.MustCompile(`token=(\S+)`)
	reCodeText  = regexp.MustCompile(`\b(\d{6})\b`)
)

func (h *harness) lastToken(t *testing.T, to string) string {
	t.Helper()
	h.router.Auth.WaitForMail()
	msg, ok := h.out.Last(to)
	require.True(t, ok, "no mail to %s", to)
	m := reLinkToken.FindStringSubmatch(msg.Text)
	require.NotNil(t, m, "no link in %q", msg.Text)
	tok, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return tok
}

func (h *harness) lastCode(t *testing.T, to string) string {
	t.Helper()
	msg, ok := h.out.Last(to)
	require.True(t, ok, "no mail to %s", to)
	m := reCodeText.FindStringSubmatch(msg.Text)
	require.NotNil(t, m, "no code in %q", msg.Text)
	return m[1]
}

// agent is one client with its own cookie jar. It submits the CSRF token it
// last saw on every state-changing request.
type agent struct {
	t      *testing.T
	h      *harness
	jar    *cookiejar.Jar
	client *http.Client

	ua   string
	html bool
	csrf string
}

func (h *harness) agent(t *testing.T) *agent {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &agent{
		t:   t,
		h:   h,
		jar: jar,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		ua: testUA,
	}
}

type reply struct {
	*http.Response
	body []byte
}

func (r reply) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r reply) apiError(t *testing.T) authsdk.APIError {
	t.Helper()
	var e authsdk.APIError
	r.decode(t, &e)
	return e
}

// setCookie returns the Set-Cookie entry for name, if the reply carried one.
func (r reply) setCookie(name string) *http.Cookie {
	for _, c := range r.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (a *agent) do(method, path string, form url.Values) reply {
	a.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, a.h.srv.URL+path, body)
	require.NoError(a.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("User-Agent", a.ua)
	if a.html {
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
	} else {
		req.Header.Set("Accept", "application/json")
	}
	if a.csrf != "" && !httpx.IsSafeMethod(method) {
		req.Header.Set("X-CSRF-Token", a.csrf)
	}

	res, err := a.client.Do(req)
	require.NoError(a.t, err)
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	require.NoError(a.t, err)
	return reply{Response: res, body: b}
}

func (a *agent) get(path string) reply { return a.do(http.MethodGet, path, nil) }

func (a *agent) post(path string, form url.Values) reply {
	if form == nil {
		form = url.Values{}
	}
	return a.do(http.MethodPost, path, form)
}

// cookie returns the jar's value for name, or "".
func (a *agent) cookie(name string) string {
	u, _ := url.Parse(a.h.srv.URL)
	for _, c := range a.jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// fetchCSRF bootstraps a pre-authentication session.
func (a *agent) fetchCSRF() {
	a.t.Helper()
	html := a.html
	a.html = false
	defer func() { a.html = html }()

	res := a.get("/csrf-token")
	require.Equal(a.t, http.StatusOK, res.StatusCode, string(res.body))
	var out authsdk.CSRFResponse
	res.decode(a.t, &out)
	require.NotEmpty(a.t, out.CSRFToken)
	a.csrf = out.CSRFToken
}

// submitLogin posts credentials and returns the decoded reply.
func (a *agent) submitLogin(email, password string, remember bool) (reply, authsdk.LoginResponse) {
	a.t.Helper()
	if a.csrf == "" {
		a.fetchCSRF()
	}
	form := url.Values{"email": {email}, "password": {password}}
	if remember {
		form.Set("remember", "on")
	}
	res := a.post("/login", form)

	var out authsdk.LoginResponse
	if res.StatusCode == http.StatusOK {
		res.decode(a.t, &out)
		a.csrf = out.CSRFToken
	}
	return res, out
}

// login signs in an account without two-factor.
func (a *agent) login(email string) authsdk.LoginResponse {
	a.t.Helper()
	res, out := a.submitLogin(email, testPassword, false)
	require.Equal(a.t, http.StatusOK, res.StatusCode, string(res.body))
	require.Equal(a.t, authsdk.LoginStatusAuthenticated, out.Status)
	return out
}
