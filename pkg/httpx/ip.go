package httpx

import (
	"net"
	"net/http"
	"strings"
)

// IPResolver extracts the client address of a request. Forwarding headers are
// only honoured when TrustProxy is set, because the address feeds IP blocking
// and session binding and must not be client controlled.
type IPResolver struct {
	TrustProxy bool
}

// ClientIP returns the client address without port.
func (res IPResolver) ClientIP(r *http.Request) string {
	if res.TrustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// IPKeyExtractor keys requests by their socket address only.
func IPKeyExtractor(r *http.Request) string {
	return IPResolver{}.ClientIP(r)
}
