// Package metrics exposes the portal's security counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements service.Recorder on Prometheus counters.
type Collector struct {
	loginAttempts     *prometheus.CounterVec
	twoFactorAttempts *prometheus.CounterVec
	accountLockouts   prometheus.Counter
	ipBlocks          prometheus.Counter
	sessionRejections *prometheus.CounterVec
	csrfRejections    prometheus.Counter
	mailFailures      prometheus.Counter
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

// NewCollector creates the collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "borrowsmart_login_attempts_total",
			Help: "Password login attempts by outcome.",
		}, []string{"outcome"}),
		twoFactorAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "borrowsmart_two_factor_attempts_total",
			Help: "Two-factor code submissions by outcome.",
		}, []string{"outcome"}),
		accountLockouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borrowsmart_account_lockouts_total",
			Help: "Accounts locked after repeated failures.",
		}),
		ipBlocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borrowsmart_ip_blocks_total",
			Help: "Source addresses blocked or re-blocked after repeated failures.",
		}),
		sessionRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "borrowsmart_session_rejections_total",
			Help: "Session cookies that failed validation, by reason.",
		}, []string{"reason"}),
		csrfRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borrowsmart_csrf_rejections_total",
			Help: "State-changing requests refused for a missing or wrong CSRF token.",
		}),
		mailFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "borrowsmart_mail_failures_total",
			Help: "Messages that could not be delivered after retries.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "borrowsmart_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "borrowsmart_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		c.loginAttempts,
		c.twoFactorAttempts,
		c.accountLockouts,
		c.ipBlocks,
		c.sessionRejections,
		c.csrfRejections,
		c.mailFailures,
		c.requests,
		c.requestDuration,
	)
	return c
}

func (c *Collector) LoginAttempt(outcome string) { c.loginAttempts.WithLabelValues(outcome).Inc() }

func (c *Collector) TwoFactorAttempt(outcome string) {
	c.twoFactorAttempts.WithLabelValues(outcome).Inc()
}

func (c *Collector) AccountLocked()  { c.accountLockouts.Inc() }
func (c *Collector) AddressBlocked() { c.ipBlocks.Inc() }

func (c *Collector) SessionRejected(reason string) {
	c.sessionRejections.WithLabelValues(reason).Inc()
}

func (c *Collector) CSRFRejected() { c.csrfRejections.Inc() }
func (c *Collector) MailFailed()   { c.mailFailures.Inc() }

// Middleware counts requests and records their latency.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		c.requests.WithLabelValues(r.Method, strconv.Itoa(sw.status)).Inc()
		c.requestDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Handler serves /metrics for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
