package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// Me returns the signed-in user.
func (c *SDKClient) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/me", nil, nil)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTwoFactor enables or disables emailed two-factor codes for the signed-in
// user. The current password is required.
func (c *SDKClient) SetTwoFactor(ctx context.Context, enabled bool, currentPassword string) (*UserResponse, error) {
	data := url.Values{
		"enabled":          {formBool(enabled)},
		"current_password": {currentPassword},
	}

	resp, err := c.doForm(ctx, http.MethodPut, "/me/two-factor", data)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Dashboard fetches the landing page of a role, e.g. "student".
func (c *SDKClient) Dashboard(ctx context.Context, role string) (*DashboardResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/"+url.PathEscape(role)+"/dashboard", nil, nil)
	if err != nil {
		return nil, err
	}

	var out DashboardResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ============================================================================
// Sessions
// ============================================================================

// ListSessions returns the caller's active sessions.
func (c *SDKClient) ListSessions(ctx context.Context) (*SessionListResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/sessions", nil, nil)
	if err != nil {
		return nil, err
	}

	var out SessionListResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// RevokeSession ends one of the caller's sessions.
func (c *SDKClient) RevokeSession(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// RevokeOtherSessions ends every session of the caller except this one.
func (c *SDKClient) RevokeOtherSessions(ctx context.Context) (*RevokeOthersResponse, error) {
	resp, err := c.doForm(ctx, http.MethodPost, "/sessions/revoke-others", url.Values{})
	if err != nil {
		return nil, err
	}

	var out RevokeOthersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
