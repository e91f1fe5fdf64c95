package access

import (
	"net"
	"net/http"
	"strings"

	"github.com/rileyhilliard/actop/internal/logger"
)

// Decision is what Guard did with a request.
type Decision string

const (
	DecisionAllowed     Decision = "allowed"
	DecisionDenied      Decision = "denied"
	DecisionPassthrough Decision = "passthrough"
)

// deniedBody is written with every 403.
const deniedBody = `{"error":"Access denied","message":"Insufficient privileges"}`

// GuardOptions configures Guard.
type GuardOptions struct {
	// Prefix is the guarded path prefix, e.g. /actuator.
	Prefix string

	Validator *Validator
	Log       logger.Logger

	// Observe, if set, is called once per request with the decision.
	Observe func(Decision)
}

// Guard wraps next so that requests under opts.Prefix are only served to
// allowed client IPs. Other paths pass through untouched. Guarded responses
// carry hardening headers whether or not they are denied.
func Guard(next http.Handler, opts GuardOptions) http.Handler {
	log := opts.Log
	if log == nil {
		log = logger.Noop()
	}
	observe := opts.Observe
	if observe == nil {
		observe = func(Decision) {}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, opts.Prefix) {
			observe(DecisionPassthrough)
			next.ServeHTTP(w, r)
			return
		}

		SecurityHeaders(w.Header())

		ip := ClientIP(r)
		if !opts.Validator.Allowed(ip) {
			if ip == "" {
				ip = "unknown"
			}
			log.Warn("unauthorized access attempt to %s from %s", opts.Prefix, ip)
			observe(DecisionDenied)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(deniedBody))
			return
		}

		observe(DecisionAllowed)
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the first X-Forwarded-For entry, else X-Real-IP, else
// the host part of the connection's remote address.
func ClientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders sets the hardening headers applied to guarded responses.
func SecurityHeaders(h http.Header) {
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}
