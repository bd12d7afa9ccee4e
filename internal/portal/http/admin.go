package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/internal/portal/service"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

// AdminHandler serves the administrator endpoints.
type AdminHandler struct {
	Audit    *service.AuditLog
	Settings *service.SettingsService
}

// HandleSecurityLogs handles GET /admin/security-logs
//
//	@Summary		List security log entries
//	@Description	Audit entries newest first. Requires the view_security_logs permission.
//	@Tags			Admin
//	@Security		SessionCookie
//	@Produce		json
//	@Param			user_id	query		string							false	"Only entries of this user"
//	@Param			kind	query		string							false	"Only this event kind, e.g. LOGIN_FAILED"
//	@Param			since	query		string							false	"RFC 3339 lower bound"
//	@Param			limit	query		int								false	"Page size (default 50, max 200)"
//	@Param			offset	query		int								false	"Entries to skip"
//	@Success		200		{object}	authsdk.SecurityLogListResponse	"Log entries"
//	@Failure		400		{object}	authsdk.APIError				"Invalid filter"
//	@Failure		403		{object}	authsdk.APIError				"Not an administrator"
//	@Router			/admin/security-logs [get].
func (h *AdminHandler) HandleSecurityLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.SecurityLogFilter{
		UserID: q.Get("user_id"),
		Kind:   domain.EventKind(strings.ToUpper(q.Get("kind"))),
		Limit:  defaultLogLimit,
	}

	if v := q.Get("since"); v != "" {
		since, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, r, &service.ValidationError{Field: "since", Message: "Must be an RFC 3339 timestamp."})
			return
		}
		f.Since = since
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, &service.ValidationError{Field: "limit", Message: "Must be a positive number."})
			return
		}
		f.Limit = min(n, maxLogLimit)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, r, &service.ValidationError{Field: "offset", Message: "Must not be negative."})
			return
		}
		f.Offset = n
	}

	logs, err := h.Audit.List(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := authsdk.SecurityLogListResponse{
		Logs:   make([]authsdk.SecurityLogResponse, 0, len(logs)),
		Limit:  f.Limit,
		Offset: f.Offset,
	}
	for _, l := range logs {
		out.Logs = append(out.Logs, authsdk.SecurityLogResponse{
			ID:          l.ID,
			UserID:      l.UserID,
			Kind:        string(l.Kind),
			Description: l.Description,
			SourceAddr:  l.SourceAddr,
			UserAgent:   l.UserAgent,
			CreatedAt:   l.CreatedAt,
		})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleSetMaintenance handles PUT /admin/maintenance
//
//	@Summary		Switch maintenance mode
//	@Description	While maintenance mode is on only administrators can use the portal. Requires the manage_settings permission.
//	@Tags			Admin
//	@Security		SessionCookie
//	@Accept			x-www-form-urlencoded
//	@Produce		json
//	@Param			enabled		formData	bool						true	"Maintenance on or off"
//	@Param			csrf_token	formData	string						true	"CSRF token"
//	@Success		200			{object}	authsdk.MaintenanceResponse	"Resulting state"
//	@Failure		403			{object}	authsdk.APIError			"Not an administrator"
//	@Router			/admin/maintenance [put].
func (h *AdminHandler) HandleSetMaintenance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rs := sessionFrom(ctx)

	enabled, err := formBool(r, "enabled")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Settings.SetMaintenanceMode(ctx, enabled); err != nil {
		writeError(w, r, err)
		return
	}

	desc := "Maintenance mode disabled"
	if enabled {
		desc = "Maintenance mode enabled"
	}
	h.Audit.Record(ctx, rs.User.ID, domain.EventMaintenanceToggled, desc, rs.Client)

	on, err := h.Settings.MaintenanceMode(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MaintenanceResponse{Enabled: on})
}
