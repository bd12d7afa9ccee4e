package authsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// SecurityLogs lists audit entries, newest first.
// Requires: view_security_logs permission (admin)
func (c *SDKClient) SecurityLogs(ctx context.Context, q SecurityLogQuery) (*SecurityLogListResponse, error) {
	params := url.Values{}
	if q.UserID != "" {
		params.Set("user_id", q.UserID)
	}
	if q.Kind != "" {
		params.Set("kind", q.Kind)
	}
	if !q.Since.IsZero() {
		params.Set("since", q.Since.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	path := "/admin/security-logs"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var out SecurityLogListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetMaintenance switches maintenance mode.
// Requires: manage_settings permission (admin)
func (c *SDKClient) SetMaintenance(ctx context.Context, enabled bool) (*MaintenanceResponse, error) {
	resp, err := c.doForm(ctx, http.MethodPut, "/admin/maintenance", url.Values{"enabled": {formBool(enabled)}})
	if err != nil {
		return nil, err
	}

	var out MaintenanceResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Maintenance reports whether the portal is in maintenance mode.
func (c *SDKClient) Maintenance(ctx context.Context) (*MaintenanceResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/maintenance", nil, nil)
	if err != nil {
		return nil, err
	}

	var out MaintenanceResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
