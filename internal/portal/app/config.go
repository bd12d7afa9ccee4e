package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseFile    string // Optional: path to SQLite database file (default: ./portal.db)
	PepperFile      string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	LinkKeyFile     string // Optional: path to the HMAC key for emailed links (default: ./link.key)
	BaseURL         string // Public origin used in emailed links (default: http://localhost:8080)
	CookieSecure    bool   // Mark cookies https-only (default: true)
	TrustProxy      bool   // Honour X-Forwarded-For / X-Real-IP (default: false)
	MaintenanceMode bool   // Force maintenance mode regardless of the stored setting (default: false)

	SessionLifetime      time.Duration // Absolute session lifetime (default: 1h)
	SessionIdleTimeout   time.Duration // Idle timeout (default: 15m)
	SessionGCProbability float64       // Chance per request of an expired-session sweep (default: 0.01)

	LockoutThreshold int           // Failures per account and address before lockout (default: 5)
	LockoutDuration  time.Duration // (default: 15m)
	IPBlockThreshold int           // Failures per address across all accounts before it is blocked (default: 10)
	IPBlockDuration  time.Duration // (default: 1h)

	TwoFactorCodeTTL      time.Duration // (default: 5m)
	TwoFactorResendLimit  int           // Codes per resend window (default: 3)
	TwoFactorResendWindow time.Duration // (default: 15m)

	RememberTokenTTL     time.Duration // (default: 30 days)
	ResetTokenTTL        time.Duration // (default: 1h)
	ResetRequestLimit    int           // Reset emails per account per window (default: 3)
	ResetRequestWindow   time.Duration // (default: 15m)
	EmailVerificationTTL time.Duration // (default: 24h)
	SecurityLogRetention time.Duration // (default: 90 days)

	SMTPHost     string // Optional: mail is logged instead of sent when empty
	SMTPPort     int    // (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string // (default: no-reply@borrowsmart.local)
	MailRetries  int    // Delivery retries after the first attempt (default: 3)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	LogFile              string        // Optional: also write logs to this rotated file
	Port                 int           // HTTP server port (default: 8080)
	MetricsPort          int           // Prometheus listener port, 0 disables it (default: 9090)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile:    getEnvOrDefault("PORTAL_DATABASE_FILE", "portal.db"),
		PepperFile:      getEnvOrDefault("PORTAL_PEPPER_FILE", "pepper"),
		LinkKeyFile:     getEnvOrDefault("PORTAL_LINK_KEY_FILE", "link.key"),
		BaseURL:         strings.TrimRight(getEnvOrDefault("PORTAL_BASE_URL", "http://localhost:8080"), "/"),
		CookieSecure:    getEnvBoolOrDefault("PORTAL_COOKIE_SECURE", true),
		TrustProxy:      getEnvBoolOrDefault("PORTAL_TRUST_PROXY", false),
		MaintenanceMode: getEnvBoolOrDefault("PORTAL_MAINTENANCE_MODE", false),

		SessionLifetime:      getEnvDurationOrDefault("SESSION_LIFETIME", time.Hour),
		SessionIdleTimeout:   getEnvDurationOrDefault("SESSION_IDLE_TIMEOUT", 15*time.Minute),
		SessionGCProbability: getEnvFloatOrDefault("SESSION_GC_PROBABILITY", 0.01),

		LockoutThreshold: getEnvIntOrDefault("LOCKOUT_THRESHOLD", 5),
		LockoutDuration:  getEnvDurationOrDefault("LOCKOUT_DURATION", 15*time.Minute),
		IPBlockThreshold: getEnvIntOrDefault("IP_BLOCK_THRESHOLD", 10),
		IPBlockDuration:  getEnvDurationOrDefault("IP_BLOCK_DURATION", time.Hour),

		TwoFactorCodeTTL:      getEnvDurationOrDefault("TWO_FACTOR_CODE_TTL", 5*time.Minute),
		TwoFactorResendLimit:  getEnvIntOrDefault("TWO_FACTOR_RESEND_LIMIT", 3),
		TwoFactorResendWindow: getEnvDurationOrDefault("TWO_FACTOR_RESEND_WINDOW", 15*time.Minute),

		RememberTokenTTL:     getEnvDurationOrDefault("REMEMBER_TOKEN_TTL", 30*24*time.Hour),
		ResetTokenTTL:        getEnvDurationOrDefault("RESET_TOKEN_TTL", time.Hour),
		ResetRequestLimit:    getEnvIntOrDefault("RESET_REQUEST_LIMIT", 3),
		ResetRequestWindow:   getEnvDurationOrDefault("RESET_REQUEST_WINDOW", 15*time.Minute),
		EmailVerificationTTL: getEnvDurationOrDefault("EMAIL_VERIFICATION_TTL", 24*time.Hour),
		SecurityLogRetention: getEnvDurationOrDefault("SECURITY_LOG_RETENTION", 90*24*time.Hour),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@borrowsmart.local"),
		MailRetries:  getEnvIntOrDefault("MAIL_RETRIES", 3),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		LogFile:              os.Getenv("LOG_FILE"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		MetricsPort:          getEnvIntOrDefault("METRICS_PORT", 9090),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

// Validate reports every setting that would make the portal misbehave rather
// than refuse to start.
func (c Config) Validate() error {
	var errs []error

	positiveInts := []struct {
		key string
		val int
	}{
		{"LOCKOUT_THRESHOLD", c.LockoutThreshold},
		{"IP_BLOCK_THRESHOLD", c.IPBlockThreshold},
		{"TWO_FACTOR_RESEND_LIMIT", c.TwoFactorResendLimit},
		{"RESET_REQUEST_LIMIT", c.ResetRequestLimit},
		{"PORT", c.Port},
	}
	for _, v := range positiveInts {
		if v.val <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", v.key, v.val))
		}
	}

	positiveDurations := []struct {
		key string
		val time.Duration
	}{
		{"SESSION_LIFETIME", c.SessionLifetime},
		{"SESSION_IDLE_TIMEOUT", c.SessionIdleTimeout},
		{"LOCKOUT_DURATION", c.LockoutDuration},
		{"IP_BLOCK_DURATION", c.IPBlockDuration},
		{"TWO_FACTOR_CODE_TTL", c.TwoFactorCodeTTL},
		{"TWO_FACTOR_RESEND_WINDOW", c.TwoFactorResendWindow},
		{"REMEMBER_TOKEN_TTL", c.RememberTokenTTL},
		{"RESET_TOKEN_TTL", c.ResetTokenTTL},
		{"RESET_REQUEST_WINDOW", c.ResetRequestWindow},
		{"EMAIL_VERIFICATION_TTL", c.EmailVerificationTTL},
		{"SECURITY_LOG_RETENTION", c.SecurityLogRetention},
		{"SHUTDOWN_GRACE_PERIOD", c.ShutdownGracePeriod},
		{"HOUSEKEEPING_INTERVAL", c.HousekeepingInterval},
	}
	for _, v := range positiveDurations {
		if v.val <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", v.key, v.val))
		}
	}

	if c.SessionIdleTimeout > c.SessionLifetime {
		errs = append(errs, errors.New("SESSION_IDLE_TIMEOUT must not exceed SESSION_LIFETIME"))
	}
	if c.SessionGCProbability < 0 || c.SessionGCProbability > 1 {
		errs = append(errs, fmt.Errorf("SESSION_GC_PROBABILITY must be within [0, 1], got %g", c.SessionGCProbability))
	}
	if c.MetricsPort < 0 || c.MetricsPort == c.Port {
		errs = append(errs, fmt.Errorf("METRICS_PORT must be 0 or a port other than PORT, got %d", c.MetricsPort))
	}
	if c.MailRetries < 0 {
		errs = append(errs, fmt.Errorf("MAIL_RETRIES must not be negative, got %d", c.MailRetries))
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		errs = append(errs, fmt.Errorf("PORTAL_BASE_URL must be an http(s) URL, got %q", c.BaseURL))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return f
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
