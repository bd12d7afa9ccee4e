package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/aussiebroadwan/borrowsmart/internal/portal/domain"
	"github.com/aussiebroadwan/borrowsmart/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestSecurityLogs(t *testing.T) {
	h := newHarness(t)
	admin := h.user(t, "root@uni.test", domain.RoleAdmin)
	student := h.user(t, "amir@uni.test", domain.RoleStudent)

	s := h.agent(t)
	res, _ := s.submitLogin("amir@uni.test", "Wrong123!", false)
	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	s.login("amir@uni.test")

	a := h.agent(t)
	a.login("root@uni.test")

	list := func(t *testing.T, query string) authsdk.SecurityLogListResponse {
		t.Helper()
		res := a.get("/admin/security-logs" + query)
		require.Equal(t, http.StatusOK, res.StatusCode, string(res.body))
		var out authsdk.SecurityLogListResponse
		res.decode(t, &out)
		return out
	}

	t.Run("all", func(t *testing.T) {
		out := list(t, "")
		require.Len(t, out.Logs, 3)
		require.Equal(t, 50, out.Limit)
	})

	t.Run("by user", func(t *testing.T) {
		out := list(t, "?user_id="+student.ID)
		require.Len(t, out.Logs, 2)
		for _, l := range out.Logs {
			require.Equal(t, student.ID, l.UserID)
		}
	})

	t.Run("by kind", func(t *testing.T) {
		out := list(t, "?kind=login_success")
		require.Len(t, out.Logs, 2)
		ids := []string{out.Logs[0].UserID, out.Logs[1].UserID}
		require.ElementsMatch(t, []string{admin.ID, student.ID}, ids)
	})

	t.Run("paging", func(t *testing.T) {
		out := list(t, "?limit=1&offset=1")
		require.Len(t, out.Logs, 1)
		require.Equal(t, 1, out.Limit)
		require.Equal(t, 1, out.Offset)

		out = list(t, "?limit=1000")
		require.Equal(t, 200, out.Limit)
	})

	t.Run("since", func(t *testing.T) {
		out := list(t, "?since=2030-01-01T00:00:00Z")
		require.Empty(t, out.Logs)
	})

	t.Run("invalid filters", func(t *testing.T) {
		for query, field := range map[string]string{
			"?limit=abc":  "limit",
			"?limit=0":    "limit",
			"?offset=-1":  "offset",
			"?since=soon": "since",
		} {
			res := a.get("/admin/security-logs" + query)
			require.Equal(t, http.StatusBadRequest, res.StatusCode, query)
			require.Equal(t, field, res.apiError(t).Field, query)
		}
	})
}

func TestSetMaintenanceRequiresAdmin(t *testing.T) {
	h := newHarness(t)
	h.user(t, "siti@uni.test", domain.RoleStaff)

	a := h.agent(t)
	a.login("siti@uni.test")

	res := a.do(http.MethodPut, "/admin/maintenance", url.Values{"enabled": {"true"}})
	require.Equal(t, http.StatusForbidden, res.StatusCode)

	on, err := h.router.Settings.MaintenanceMode(t.Context())
	require.NoError(t, err)
	require.False(t, on)
}
