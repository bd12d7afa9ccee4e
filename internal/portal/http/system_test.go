package http

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestHealthEndpoints(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	res := a.get("/livez")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var live authsdk.HealthResponse
	res.decode(t, &live)
	require.Equal(t, "ok", live.Status)
	require.Equal(t, "test", live.Version)
	require.Nil(t, live.Checks)

	res = a.get("/readyz")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var ready authsdk.HealthResponse
	res.decode(t, &ready)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
	require.Equal(t, "ok", ready.Checks.Settings)

	// Probes do not start sessions.
	require.Empty(t, a.cookie(preauthCookie))
}

func TestReadyzReportsDatabaseFailure(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.store.Close())

	res := h.agent(t).get("/readyz")
	require.Equal(t, http.StatusServiceUnavailable, res.StatusCode)
	var ready authsdk.HealthResponse
	res.decode(t, &ready)
	require.Equal(t, "degraded", ready.Status)
	require.NotEqual(t, "ok", ready.Checks.Database)
}

func TestSystemPages(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	res := a.get("/unauthorized")
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	require.Equal(t, authsdk.ErrorCodeAuthorization, res.apiError(t).Code)

	res = a.get("/maintenance")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var m authsdk.MaintenanceResponse
	res.decode(t, &m)
	require.False(t, m.Enabled)

	res = a.get("/csrf-token")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var first authsdk.CSRFResponse
	res.decode(t, &first)

	// The token is stable for the life of the session.
	res = a.get("/csrf-token")
	var second authsdk.CSRFResponse
	res.decode(t, &second)
	require.Equal(t, first.CSRFToken, second.CSRFToken)
}

func TestSecurityHeadersAndSwagger(t *testing.T) {
	h := newHarness(t)
	a := h.agent(t)

	res := a.get("/livez")
	require.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))
	require.NotEmpty(t, res.Header.Get("Content-Security-Policy"))

	res = a.get("/swagger/doc.json")
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Contains(t, string(res.body), "BorrowSmart Portal Authentication API")
	require.Contains(t, string(res.body), "/verify-2fa")
}
