package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/borrowsmart/internal/portal/http"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/mail"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/metrics"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store/drivers/sqlite"
	"github.com/aussiebroadwan/borrowsmart/pkg/cryptox"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
	"github.com/aussiebroadwan/borrowsmart/pkg/jwtx"
	"github.com/aussiebroadwan/borrowsmart/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	linkIssuer = "borrowsmart-portal"

	// settingsCacheTTL bounds how long a maintenance toggle takes to reach
	// every request.
	settingsCacheTTL = 5 * time.Second
)

// Application encapsulates the portal with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db        store.Store
	links     *jwtx.LinkSigner
	linkKey   []byte
	mailer    mail.Mailer
	registry  *prometheus.Registry
	collector *metrics.Collector

	// Services
	sessionManager      *service.SessionManager
	csrfGuard           *service.CSRFGuard
	auditLog            *service.AuditLog
	bruteForceGuard     *service.BruteForceGuard
	twoFactorService    *service.TwoFactorService
	tokenService        *service.TokenService
	settingsService     *service.SettingsService
	authService         *service.AuthService
	housekeepingService *service.HousekeepingService

	// HTTP servers
	server        *http.Server
	metricsServer *http.Server // nil when METRICS_PORT is 0
	router        *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "portal",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
			File:    cfg.LogFile,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initLinks(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initMetrics()
	app.initMailer()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until a shutdown signal arrives or a
// server fails.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	app.logger.Info("portal starting", "port", app.cfg.Port, "version", BuildVersion)
	g.Go(func() error { return serve(app.server) })

	if app.metricsServer != nil {
		app.logger.Info("metrics listener starting", "port", app.cfg.MetricsPort)
		g.Go(func() error { return serve(app.metricsServer) })
	}

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			app.logger.Info("shutdown signal received")
		}
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func serve(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server %s failed: %w", srv.Addr, err)
	}
	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down portal...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	for _, srv := range []*http.Server{app.server, app.metricsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			app.logger.Error("graceful server shutdown failed", "addr", srv.Addr, "error", err)
			if err := srv.Close(); err != nil {
				app.logger.Error("error closing server", "addr", srv.Addr, "error", err)
			}
		}
	}

	// Let queued emails go out
	app.authService.WaitForMail()

	// Stop the housekeeping service
	app.housekeepingService.Stop()

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("portal stopped")
	return nil
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initLinks loads the key that signs emailed links. The same key, under a
// separate label, keys the brute-force fingerprints of unknown emails.
func (app *Application) initLinks() error {
	key, err := cryptox.LoadOrCreateSecret(app.cfg.LinkKeyFile, jwtx.MinKeySize)
	if err != nil {
		return fmt.Errorf("failed to load link key: %w", err)
	}

	links, err := jwtx.NewLinkSigner(key, linkIssuer)
	if err != nil {
		return fmt.Errorf("failed to initialize link signer: %w", err)
	}

	app.linkKey = key
	app.links = links
	return nil
}

func (app *Application) initMetrics() {
	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.collector = metrics.NewCollector(app.registry)
}

// initMailer picks SMTP delivery when a relay is configured and the log
// fallback otherwise. Either way delivery is retried.
func (app *Application) initMailer() {
	var next mail.Mailer
	if app.cfg.SMTPHost != "" {
		next = &mail.SMTPMailer{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			Username: app.cfg.SMTPUsername,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.SMTPFrom,
		}
		app.logger.Info("smtp delivery enabled", "host", app.cfg.SMTPHost, "port", app.cfg.SMTPPort)
	} else {
		next = &mail.LogMailer{Logger: app.logger}
		app.logger.Warn("SMTP_HOST not set, outgoing mail will only be logged")
	}

	app.mailer = &mail.RetryMailer{
		Next:       next,
		MaxRetries: uint64(app.cfg.MailRetries),
		MaxElapsed: 30 * time.Second,
		OnFailure:  app.collector.MailFailed,
	}
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	hasher := cryptox.Argon2Hasher{}

	app.sessionManager = &service.SessionManager{
		Store: app.db,
		Config: service.SessionConfig{
			Lifetime:      app.cfg.SessionLifetime,
			IdleTimeout:   app.cfg.SessionIdleTimeout,
			GCProbability: app.cfg.SessionGCProbability,
		},
		Recorder: app.collector,
	}
	app.csrfGuard = &service.CSRFGuard{Store: app.db}
	app.auditLog = &service.AuditLog{Store: app.db}
	app.bruteForceGuard = &service.BruteForceGuard{
		Store: app.db,
		Config: service.BruteForceConfig{
			LockoutThreshold:      app.cfg.LockoutThreshold,
			LockoutDuration:       app.cfg.LockoutDuration,
			AddressBlockThreshold: app.cfg.IPBlockThreshold,
			IPBlockDuration:       app.cfg.IPBlockDuration,
		},
		Recorder:   app.collector,
		SubjectKey: []byte(cryptox.KeyedFingerprint(app.linkKey, "login-subject")),
	}
	app.twoFactorService = &service.TwoFactorService{
		Store:  app.db,
		Hasher: hasher,
		Config: service.TwoFactorConfig{
			CodeTTL:      app.cfg.TwoFactorCodeTTL,
			ResendLimit:  app.cfg.TwoFactorResendLimit,
			ResendWindow: app.cfg.TwoFactorResendWindow,
		},
	}
	app.tokenService = &service.TokenService{
		Store: app.db,
		Config: service.TokenConfig{
			RememberTTL: app.cfg.RememberTokenTTL,
			ResetTTL:    app.cfg.ResetTokenTTL,
		},
	}

	app.settingsService = service.NewSettingsService(app.db, settingsCacheTTL, time.Now)
	app.settingsService.ForceMaintenance = app.cfg.MaintenanceMode
	if app.cfg.MaintenanceMode {
		app.logger.Warn("maintenance mode forced by configuration")
	}

	authCfg := service.DefaultAuthConfig()
	authCfg.BaseURL = app.cfg.BaseURL
	authCfg.EmailVerificationTTL = app.cfg.EmailVerificationTTL
	authCfg.ResetRequestLimit = app.cfg.ResetRequestLimit
	authCfg.ResetRequestWindow = app.cfg.ResetRequestWindow

	app.authService = &service.AuthService{
		Store:      app.db,
		Hasher:     hasher,
		Mailer:     app.mailer,
		Links:      app.links,
		Sessions:   app.sessionManager,
		BruteForce: app.bruteForceGuard,
		TwoFactor:  app.twoFactorService,
		Tokens:     app.tokenService,
		Audit:      app.auditLog,
		Recorder:   app.collector,
		Config:     authCfg,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		service.RetentionConfig{
			SessionIdle:       app.cfg.SessionIdleTimeout,
			FailedLoginWindow: app.cfg.LockoutDuration,
			CodeHistory:       app.cfg.TwoFactorResendWindow,
			SecurityLogs:      app.cfg.SecurityLogRetention,
		},
	)
}

// initHTTP initializes the HTTP router and servers
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.logger,
		httpapi.CookieConfig{
			Secure:      app.cfg.CookieSecure,
			RememberTTL: app.cfg.RememberTokenTTL,
		},
		httpx.IPResolver{TrustProxy: app.cfg.TrustProxy},
	)
	router.Use(app.collector.Middleware)

	// Wire services to router
	router.Auth = app.authService
	router.Sessions = app.sessionManager
	router.CSRF = app.csrfGuard
	router.Audit = app.auditLog
	router.Settings = app.settingsService
	router.Recorder = app.collector
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}

	if app.cfg.MetricsPort > 0 {
		app.metricsServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", app.cfg.MetricsPort),
			Handler:           metrics.Handler(app.registry),
			ReadHeaderTimeout: 3 * time.Second,
		}
	}
}
