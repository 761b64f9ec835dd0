package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/userdir/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters. The env tags are
// relative; callers nest it under a prefix such as RATELIMIT_WRITE_.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int `env:"REQUESTS" validate:"gt=0"`
	// Window is the time window for rate limiting
	Window time.Duration `env:"WINDOW" validate:"gt=0"`
	// Burst allows for temporary bursts above the rate limit
	Burst int `env:"BURST" validate:"gt=0"`
}

// RateLimits groups the profiles applied by the router.
type RateLimits struct {
	// Write covers record creation.
	Write RateLimitConfig `envPrefix:"RATELIMIT_WRITE_"`
	// Read covers listing and single-record lookups.
	Read RateLimitConfig `envPrefix:"RATELIMIT_READ_"`
	// Probe covers health checks and metrics scrapes, which monitoring polls often.
	Probe RateLimitConfig `envPrefix:"RATELIMIT_PROBE_"`
}

// DefaultRateLimits returns the profiles used when nothing is configured.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Write: RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20},
		Read:  RateLimitConfig{RequestsPerWindow: 300, Window: time.Minute, Burst: 100},
		Probe: RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
}

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (e.g., IP address, API client, etc.)
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// rateLimiter manages rate limiters for different keys
type rateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func newRateLimiter(config RateLimitConfig) *rateLimiter {
	return &rateLimiter{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}
}

// getLimiter retrieves or creates a rate limiter for the given key
func (rl *rateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()

	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket has refilled completely, at most
// once every five minutes. A full bucket means the key has gone idle.
func (rl *rateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < 5*time.Minute {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware creates a rate limiting middleware with the given configuration.
// The keyExtractor determines how requests are grouped for rate limiting.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	rl := newRateLimiter(config)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := rl.getLimiter(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			// Peek at when the next token lands without consuming it.
			reservation := limiter.Reserve()
			delay := reservation.Delay()
			reservation.Cancel()

			retryAfter := max(int(delay.Seconds()), 1)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			log.Warn("rate limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)

			WriteDetail(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP creates a rate limiter that limits by IP address only.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, IPKeyExtractor)
}
