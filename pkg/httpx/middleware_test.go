package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/borrowsmart/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), tag("outer"), tag("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestSecurityHeaders(t *testing.T) {
	h := httpx.SecurityHeaders(true, "/swagger/")(okHandler())

	rec := serve(h, "/login", "127.0.0.1:1")
	require.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rec.Header().Get("Content-Security-Policy"))
	require.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = serve(h, "/swagger/index.html", "127.0.0.1:1")
	require.Empty(t, rec.Header().Get("Content-Security-Policy"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	rec = serve(httpx.SecurityHeaders(false)(okHandler()), "/", "127.0.0.1:1")
	require.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRequestHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	require.True(t, httpx.WantsHTML(req))

	req.Header.Set("Accept", "application/json")
	require.False(t, httpx.WantsHTML(req))

	require.True(t, httpx.IsSafeMethod(http.MethodGet))
	require.False(t, httpx.IsSafeMethod(http.MethodPost))
	require.False(t, httpx.IsSafeMethod(http.MethodDelete))
}
