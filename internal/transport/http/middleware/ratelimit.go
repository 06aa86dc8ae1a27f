package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"employeedir/internal/platform/logger"
	"employeedir/internal/transport/http/api"
	"employeedir/internal/transport/http/shared"
)

type rateBucket struct {
	count int
	reset time.Time
}

type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	// trustProxy keys buckets on X-Forwarded-For instead of RemoteAddr.
	trustProxy bool
	now        func() time.Time
	clients    map[string]*rateBucket
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		window:  window,
		now:     time.Now,
		clients: map[string]*rateBucket{},
	}
}

// MutationRateLimit applies a fixed-window limit per client IP to POST, PUT
// and PATCH requests. Reads are never limited. A non-positive limit disables it.
// trustProxy must only be set behind a proxy that rewrites X-Forwarded-For.
func MutationRateLimit(limit int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, window)
	rl.trustProxy = trustProxy
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isMutation(r.Method) && !rl.allow(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *rateLimiter) allow(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}
	key := shared.ClientIP(r, rl.trustProxy)
	now := rl.now()

	rl.mu.Lock()
	bucket, ok := rl.clients[key]
	if !ok || now.After(bucket.reset) {
		bucket = &rateBucket{reset: now.Add(rl.window)}
		rl.clients[key] = bucket
	}
	bucket.count++
	remaining := max(rl.limit-bucket.count, 0)
	resetIn := max(int(bucket.reset.Sub(now).Seconds()), 1)
	overLimit := bucket.count > rl.limit
	if len(rl.clients) > 10000 {
		rl.evictExpired(now)
	}
	rl.mu.Unlock()

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if !overLimit {
		return true
	}

	w.Header().Set("Retry-After", strconv.Itoa(resetIn))
	logger.FromContext(r.Context()).Warn().
		Str("key", key).
		Str("path", r.URL.Path).
		Str("method", r.Method).
		Int("limit", rl.limit).
		Msg("rate limit exceeded")
	api.Fail(w, http.StatusTooManyRequests, "Too many requests", GetRequestID(r.Context()))
	return false
}

// evictExpired drops buckets whose window has passed. Callers hold rl.mu.
func (rl *rateLimiter) evictExpired(now time.Time) {
	for key, bucket := range rl.clients {
		if now.After(bucket.reset) {
			delete(rl.clients, key)
		}
	}
}
