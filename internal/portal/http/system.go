package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/store"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
)

// CSRFTokenHandler godoc
//
//	@Summary		CSRF token
//	@Description	Returns the CSRF token of the caller's session, starting a pre-authentication session when there is none.
//	@Tags			Forms
//	@Produce		json
//	@Success		200	{object}	authsdk.CSRFResponse	"Token for state-changing requests"
//	@Router			/csrf-token [get].
func CSRFTokenHandler(sessions *service.SessionManager, csrf *service.CSRFGuard, cookies CookieConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rs := sessionFrom(ctx)

		if err := ensureSession(ctx, w, rs, sessions, cookies); err != nil {
			writeError(w, r, err)
			return
		}
		token, err := csrf.Issue(ctx, rs.Session)
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, authsdk.CSRFResponse{CSRFToken: token})
	}
}

// MaintenanceHandler godoc
//
//	@Summary		Maintenance status
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	authsdk.MaintenanceResponse	"Maintenance flag"
//	@Router			/maintenance [get].
func MaintenanceHandler(settings *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		on, err := settings.MaintenanceMode(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, authsdk.MaintenanceResponse{Enabled: on})
	}
}

// UnauthorizedHandler godoc
//
//	@Summary		Access denied page
//	@Description	Target of browser redirects after an authorization failure.
//	@Tags			System
//	@Produce		json
//	@Failure		403	{object}	authsdk.APIError	"Access denied"
//	@Router			/unauthorized [get].
func UnauthorizedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authsdk.ErrForbidden.WriteError(w)
	}
}

// LivezHandler godoc
//
//	@Summary		Health Check Endpoint
//	@Description	Liveness probe endpoint returning basic service health status, uptime, and version information
//	@Description	This endpoint always returns 200 OK if the service is running
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := authsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe endpoint checking the database and the settings read on every request
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store, settings *service.SettingsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &authsdk.HealthChecks{
			Database: "ok",
			Settings: "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		if _, err := settings.MaintenanceMode(r.Context()); err != nil {
			checks.Settings = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, authsdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
