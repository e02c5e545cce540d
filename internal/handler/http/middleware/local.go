package middleware

import (
	"net"
	"net/http"

	"github.com/cmlabs-hris/capacity-planner/internal/handler/http/response"
)

// LocalOnly rejects requests that do not come from a loopback address. The
// planner serves a single local session.
func LocalOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		ip := net.ParseIP(host)
		if ip == nil || !ip.IsLoopback() {
			response.Forbidden(w, "Only local requests are allowed")
			return
		}

		next.ServeHTTP(w, r)
	})
}
