package service

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/mail"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/borrowsmart/pkg/idx"
	"github.com/aussiebroadwan/borrowsmart/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testPassword = "Secret123!"

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// clock is a manually advanced time source.
type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// plainHasher keeps tests fast; argon2 is covered in cryptox.
type plainHasher struct{}

func (plainHasher) Hash(s string) (string, error) { return "plain$" + s, nil }

func (plainHasher) Verify(s, encoded string) error {
	if encoded != "plain$"+s {
		return errors.New("mismatch")
	}
	return nil
}

// counter is a Recorder that counts calls.
type counter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *counter) inc(k string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = map[string]int{}
	}
	c.counts[k]++
}

func (c *counter) get(k string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[k]
}

func (c *counter) LoginAttempt(o string)     { c.inc("login:" + o) }
func (c *counter) TwoFactorAttempt(o string) { c.inc("2fa:" + o) }
func (c *counter) AccountLocked()            { c.inc("locked") }
func (c *counter) AddressBlocked()           { c.inc("blocked") }
func (c *counter) SessionRejected(r string)  { c.inc("session:" + r) }
func (c *counter) CSRFRejected()             { c.inc("csrf") }
func (c *counter) MailFailed()               { c.inc("mail") }

type env struct {
	store *sqlite.Store
	clock *clock
	out   *mail.Outbox
	rec   *counter

	sessions   *SessionManager
	csrf       *CSRFGuard
	bruteforce *BruteForceGuard
	twofactor  *TwoFactorService
	tokens     *TokenService
	audit      *AuditLog
	auth       *AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "portal.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	links, err := jwtx.NewLinkSigner([]byte(strings.Repeat("k", jwtx.MinKeySize)), "borrowsmart-test")
	require.NoError(t, err)

	e := &env{store: st, clock: &clock{t: t0}, out: &mail.Outbox{}, rec: &counter{}}
	now := e.clock.Now

	e.sessions = &SessionManager{Store: st, Config: DefaultSessionConfig(), Now: now, Recorder: e.rec, Rand: func() float64 { return 1 }}
	e.csrf = &CSRFGuard{Store: st}
	e.bruteforce = &BruteForceGuard{Store: st, Config: DefaultBruteForceConfig(), Now: now, Recorder: e.rec, SubjectKey: []byte("subject-key")}
	e.twofactor = &TwoFactorService{Store: st, Hasher: plainHasher{}, Config: DefaultTwoFactorConfig(), Now: now}
	e.tokens = &TokenService{Store: st, Config: DefaultTokenConfig(), Now: now}
	e.audit = &AuditLog{Store: st, Now: now}

	cfg := DefaultAuthConfig()
	cfg.BaseURL = "https://borrow.test/"
	e.auth = &AuthService{
		Store:      st,
		Hasher:     plainHasher{},
		Mailer:     e.out,
		Links:      links,
		Sessions:   e.sessions,
		BruteForce: e.bruteforce,
		TwoFactor:  e.twofactor,
		Tokens:     e.tokens,
		Audit:      e.audit,
		Recorder:   e.rec,
		Config:     cfg,
		Now:        now,
	}
	return e
}

var client = domain.ClientInfo{SourceAddr: "10.0.0.1", UserAgent: "Mozilla/5.0 test"}

// activeUser inserts a verified, active account.
func (e *env) activeUser(t *testing.T, email string, mutate ...func(*domain.User)) domain.User {
	t.Helper()
	now := e.clock.Now()
	u := domain.User{
		ID:            idx.NewAt(now).String(),
		Name:          "Test User",
		Email:         email,
		MatricNumber:  "M-" + email,
		Department:    "FSKTM",
		PasswordHash:  "plain$" + testPassword,
		Role:          domain.RoleStudent,
		Status:        domain.StatusActive,
		EmailVerified: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, m := range mutate {
		m(&u)
	}
	require.NoError(t, e.store.Users().CreateUser(context.Background(), u))
	return u
}

func (e *env) preauth(t *testing.T, c domain.ClientInfo) *domain.Session {
	t.Helper()
	sess, _, err := e.sessions.Create(context.Background(), "", c, nil)
	require.NoError(t, err)
	return &sess
}

func (e *env) countEvents(t *testing.T, uid string, kind domain.EventKind) int {
	t.Helper()
	n, err := e.audit.Count(context.Background(), uid, kind, time.Time{})
	require.NoError(t, err)
	return n
}

var (
	reLinkToken = regexp.MustCompile(`token=(\S+)`)
	reCodeText  = regexp.MustCompile(`\b(\d{6})\b`)
)

func (e *env) lastToken(t *testing.T, to string) string {
	t.Helper()
	e.auth.WaitForMail()
	msg, ok := e.out.Last(to)
	require.True(t, ok, "no mail to %s", to)
	m := reLinkToken.FindStringSubmatch(msg.Text)
	require.NotNil(t, m, "no link in %q", msg.Text)
	tok, err := url.QueryUnescape(m[1])
	require.NoError(t, err)
	return tok
}

func (e *env) lastCode(t *testing.T, to string) string {
	t.Helper()
	msg, ok := e.out.Last(to)
	require.True(t, ok, "no mail to %s", to)
	m := reCodeText.FindStringSubmatch(msg.Text)
	require.NotNil(t, m, "no code in %q", msg.Text)
	return m[1]
}
