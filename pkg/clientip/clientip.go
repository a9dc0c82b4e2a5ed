package clientip

import (
	"net"
	"net/http"
	"strings"
)

// FromRequest returns the client IP used for rate limiting. It trusts
// r.RemoteAddr only; the API is expected to face clients directly, not
// through a CDN that rewrites proxy headers.
func FromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return strings.TrimSpace(host)
}
