package portal_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestHealthEndpoints verifies the liveness and readiness probes.
func TestHealthEndpoints(t *testing.T) {
	p := setupPortalContainer(t, nil)
	client := authsdk.NewSDKClient(p.baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)

	health, err = client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
}

// TestMetricsListener verifies that counters are served on the metrics port
// and not on the application port.
func TestMetricsListener(t *testing.T) {
	p := setupPortalContainer(t, nil)
	ctx := t.Context()

	// Generate one failed login so the counter has a sample.
	c := p.client(t)
	_, err := c.Login(ctx, authsdk.LoginRequest{Email: "ghost@uni.test", Password: "Wrong123!"})
	require.True(t, authsdk.IsCode(err, authsdk.ErrorCodeAuthentication))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(t, p.container, "9090")+"/metrics", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "borrowsmart_login_attempts_total")
	require.Contains(t, string(body), "borrowsmart_http_requests_total")

	req, err = http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/metrics", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.NotEqual(t, http.StatusOK, resp.StatusCode)
}
