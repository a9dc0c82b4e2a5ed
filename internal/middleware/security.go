package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mindhaven/companion-backend/pkg/clientip"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// Per-IP limiter for credential endpoints. Token issuance gets a much
// tighter budget than the global Redis limiter.
const (
	loginRateLimitRPS   = 0.2 // one attempt every 5 seconds sustained
	loginRateLimitBurst = 5
	limiterTTL          = 30 * time.Minute
	cleanupInterval     = 5 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

type loginLimiter struct {
	mu      sync.Mutex
	entries map[string]*limiterEntry
}

func (l *loginLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rate.Limit(loginRateLimitRPS), loginRateLimitBurst)}
		l.entries[ip] = entry
	}
	entry.lastUse = time.Now()
	return entry.limiter
}

func (l *loginLimiter) cleanup() {
	for range time.Tick(cleanupInterval) {
		l.mu.Lock()
		for ip, entry := range l.entries {
			if time.Since(entry.lastUse) > limiterTTL {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

// LoginRateLimit throttles brute-force attempts against the token
// endpoint, per client IP.
func LoginRateLimit() func(http.Handler) http.Handler {
	l := &loginLimiter{entries: make(map[string]*limiterEntry)}
	go l.cleanup()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.get(clientip.FromRequest(r)).Allow() {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"Too many login attempts. Please wait and try again."}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
