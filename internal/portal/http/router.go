package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"

	_ "github.com/aussiebroadwan/borrowsmart/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store
	cookies      CookieConfig
	ip           httpx.IPResolver

	Auth     *service.AuthService
	Sessions *service.SessionManager
	CSRF     *service.CSRFGuard
	Audit    *service.AuditLog
	Settings *service.SettingsService
	Recorder service.Recorder
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	cookies CookieConfig,
	ip httpx.IPResolver,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		cookies:      cookies,
		ip:           ip,
		Recorder:     service.NopRecorder{},
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.SecurityHeaders(cookies.Secure, "/swagger/"),
	}

	return r
}

// Use appends middlewares to the global chain, after the defaults.
func (r *Router) Use(mws ...httpx.Middleware) {
	r.middlewares = append(r.middlewares, mws...)
}

func (r *Router) ApplyRoutes() {
	r.registerLogin()
	r.registerRegistration()
	r.registerPasswordReset()
	r.registerAccount()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			BorrowSmart Portal Authentication API
//	@version		0.1.0
//	@description	Session-based authentication for the BorrowSmart instrument borrowing portal.
//	@description
//	@description	Requests are form encoded and answered with JSON. Browser navigations (Accept: text/html) are answered with redirects instead.
//	@description	Every POST, PUT, PATCH and DELETE must carry the session's CSRF token in the csrf_token form field or the X-CSRF-Token header.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/borrowsmart
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						portal_session
//	@description				Session cookie set by POST /login or POST /verify-2fa.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h behind the access middleware. Rate limiters run after
// access so that user keyed limits see the resolved user.
func (r *Router) handle(pattern string, h http.Handler, p policy, limits ...httpx.Middleware) {
	mws := append([]httpx.Middleware{r.access(p)}, limits...)
	r.Mux.Handle(pattern, httpx.Chain(h, mws...))
}

func (r *Router) registerLogin() {
	h := &LoginHandler{Auth: r.Auth, Sessions: r.Sessions, CSRF: r.CSRF, Cookies: r.cookies}

	// GET /login - form bootstrap, also the redirect target for anonymous browsers
	r.handle("GET /login", http.HandlerFunc(h.HandleLoginForm), maintenanceRoute,
		httpx.RateLimitByIP(httpx.LenientLimit, r.ip),
	)

	// POST /login - strict limit keyed by address and submitted email
	r.handle("POST /login", http.HandlerFunc(h.HandleLogin), maintenanceRoute,
		httpx.RateLimitByIPAndFormField(httpx.StrictLimit, r.ip, "email"),
	)

	r.handle("GET /verify-2fa", http.HandlerFunc(h.HandleChallenge), maintenanceRoute,
		httpx.RateLimitByIP(httpx.LenientLimit, r.ip),
	)
	r.handle("POST /verify-2fa", http.HandlerFunc(h.HandleVerifyTwoFactor), maintenanceRoute,
		httpx.RateLimitByIP(httpx.StrictLimit, r.ip),
	)
	r.handle("POST /resend-2fa", http.HandlerFunc(h.HandleResendTwoFactor), maintenanceRoute,
		httpx.RateLimitByIP(httpx.StrictLimit, r.ip),
	)

	// POST /logout - authenticated, any role
	r.handle("POST /logout", http.HandlerFunc(h.HandleLogout), protected(domain.Requirement{}),
		httpx.RateLimitByUser(httpx.ModerateLimit, r.ip),
	)
}

func (r *Router) registerRegistration() {
	h := &RegisterHandler{Auth: r.Auth}

	r.handle("POST /register", http.HandlerFunc(h.HandleRegister), publicRoute,
		httpx.RateLimitByIP(httpx.StrictLimit, r.ip),
	)
	r.handle("GET /verify-email", http.HandlerFunc(h.HandleVerifyEmail), publicRoute,
		httpx.RateLimitByIP(httpx.StrictLimit, r.ip),
	)
	r.handle("POST /verify-email/resend", http.HandlerFunc(h.HandleResendVerification), publicRoute,
		httpx.RateLimitByIPAndFormField(httpx.StrictLimit, r.ip, "email"),
	)
}

func (r *Router) registerPasswordReset() {
	h := &ResetHandler{Auth: r.Auth}

	r.handle("POST /reset-password/request", http.HandlerFunc(h.HandleRequest), publicRoute,
		httpx.RateLimitByIPAndFormField(httpx.StrictLimit, r.ip, "email"),
	)
	r.handle("GET /reset-password", http.HandlerFunc(h.HandleCheck), publicRoute,
		httpx.RateLimitByIP(httpx.StrictLimit, r.ip),
	)
	r.handle("POST /reset-password", http.HandlerFunc(h.HandleReset), publicRoute,
		httpx.RateLimitByIP(httpx.StrictLimit, r.ip),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{
		Auth:     r.Auth,
		Sessions: r.Sessions,
		Audit:    r.Audit,
		Cookies:  r.cookies,
	}

	profile := protected(domain.RequirePermission(domain.PermViewProfile))
	own := protected(domain.RequirePermission(domain.PermManageOwnSessions))

	r.handle("GET /me", http.HandlerFunc(h.HandleMe), profile,
		httpx.RateLimitByUser(httpx.LenientLimit, r.ip),
	)
	r.handle("PUT /me/two-factor", http.HandlerFunc(h.HandleSetTwoFactor), profile,
		httpx.RateLimitByUser(httpx.StrictLimit, r.ip),
	)

	r.handle("GET /sessions", http.HandlerFunc(h.HandleListSessions), own,
		httpx.RateLimitByUser(httpx.LenientLimit, r.ip),
	)
	r.handle("DELETE /sessions/{id}", http.HandlerFunc(h.HandleRevokeSession), own,
		httpx.RateLimitByUser(httpx.ModerateLimit, r.ip),
	)
	r.handle("POST /sessions/revoke-others", http.HandlerFunc(h.HandleRevokeOthers), own,
		httpx.RateLimitByUser(httpx.ModerateLimit, r.ip),
	)

	for _, role := range []domain.Role{domain.RoleStudent, domain.RoleStaff, domain.RoleAdmin} {
		r.handle("GET "+role.Dashboard(), http.HandlerFunc(h.HandleDashboard), protected(domain.RequireRoles(role)),
			httpx.RateLimitByUser(httpx.LenientLimit, r.ip),
		)
	}

	// Anything unmatched requires a signed-in user before it is answered.
	r.handle("/", http.HandlerFunc(h.HandleFallback), protected(domain.Requirement{}),
		httpx.RateLimitByUser(httpx.LenientLimit, r.ip),
	)
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{Audit: r.Audit, Settings: r.Settings}

	r.handle("GET /admin/security-logs", http.HandlerFunc(h.HandleSecurityLogs),
		protected(domain.RequirePermission(domain.PermViewSecurityLogs)),
		httpx.RateLimitByUser(httpx.ModerateLimit, r.ip),
	)
	r.handle("PUT /admin/maintenance", http.HandlerFunc(h.HandleSetMaintenance),
		protected(domain.RequirePermission(domain.PermManageSettings)),
		httpx.RateLimitByUser(httpx.ModerateLimit, r.ip),
	)
}

func (r *Router) registerSystem() {
	r.handle("GET /csrf-token", CSRFTokenHandler(r.Sessions, r.CSRF, r.cookies), maintenanceRoute,
		httpx.RateLimitByIP(httpx.LenientLimit, r.ip),
	)
	r.handle("GET /maintenance", MaintenanceHandler(r.Settings), maintenanceRoute,
		httpx.RateLimitByIP(httpx.LenientLimit, r.ip),
	)
	r.handle("GET /unauthorized", UnauthorizedHandler(), maintenanceRoute,
		httpx.RateLimitByIP(httpx.LenientLimit, r.ip),
	)

	// Health check endpoints skip the access pipeline entirely.
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit, r.ip),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.Settings),
			httpx.RateLimitByIP(httpx.PublicLimit, r.ip),
		),
	)
}
