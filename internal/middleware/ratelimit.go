package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mindhaven/companion-backend/pkg/clientip"
)

const (
	rateLimitWindow      = 120 * time.Second
	rateLimitMaxRequests = 60
	rateLimitKeyPrefix   = "ratelimit:"
	blockedIPKeyPrefix   = "blocked_ip:"
	blockedIPDuration    = 24 * time.Hour
)

// RateLimit counts requests per client IP in Redis and blocks abusive IPs
// for 24 hours. Redis failures fail open: the request proceeds.
func RateLimit(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.FromRequest(r)
			ctx := r.Context()

			blockedKey := blockedIPKeyPrefix + ip
			isBlocked, err := client.Exists(ctx, blockedKey).Result()
			if err == nil && isBlocked > 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"success":false,"message":"Your IP has been temporarily blocked due to excessive requests. Please try again later."}`))
				return
			}

			rateLimitKey := rateLimitKeyPrefix + ip
			currentCount, err := client.Get(ctx, rateLimitKey).Int()
			if err != nil {
				currentCount = 0
			}
			newCount := currentCount + 1

			if currentCount == 0 {
				err = client.Set(ctx, rateLimitKey, "1", rateLimitWindow).Err()
			} else {
				err = client.Incr(ctx, rateLimitKey).Err()
			}
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if newCount > rateLimitMaxRequests {
				client.Set(ctx, blockedKey, "1", blockedIPDuration)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"success":false,"message":"Rate limit exceeded. Please try again later.","retry_after":%d}`, int(rateLimitWindow.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rateLimitMaxRequests-newCount))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(rateLimitWindow).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}
