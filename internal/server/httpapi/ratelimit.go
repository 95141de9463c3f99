package httpapi

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-client token bucket parameters.
type RateLimiterConfig struct {
	Rate            rate.Limit
	Burst           int
	CleanupInterval time.Duration
}

// DefaultRateLimiterConfig allows 120 requests per minute per client.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            rate.Limit(120.0 / 60.0),
		Burst:           120,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter applies a per-client token bucket. Authenticated requests are
// keyed by user id, anonymous ones by remote IP.
type RateLimiter struct {
	config RateLimiterConfig

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopCh chan struct{}
}

// NewRateLimiter creates a RateLimiter and starts the background cleanup of
// idle entries.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop terminates the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// Middleware returns the rate limiting middleware. It must run after the
// auth middleware so authenticated clients are keyed by identity.
func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(clientKey(r)) {
				retryAfterSec := int(math.Ceil(1.0 / float64(rl.config.Rate)))
				if retryAfterSec < 1 {
					retryAfterSec = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
				writeJSON(w, http.StatusTooManyRequests,
					messageResponse{Message: "Too many requests. Please try again later."})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller for limiting purposes.
func clientKey(r *http.Request) string {
	if identity, ok := AuthFromRequest(r).Identity(); ok {
		return "user:" + identity.ID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

func (rl *RateLimiter) allow(key string) bool {
	rl.mu.Lock()
	cl, exists := rl.limiters[key]
	if !exists {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	rl.mu.Unlock()

	return cl.limiter.Allow()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops entries idle for more than twice the cleanup interval.
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.mu.Lock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
	rl.mu.Unlock()
}
