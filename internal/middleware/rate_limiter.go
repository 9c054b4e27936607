package middleware

import (
	"strings"
	"sync"
	"time"

	"koinsave/internal/errors"
	"koinsave/internal/handlers"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiterConfig tunes per-client request throttling. Zero values fall
// back to the defaults below.
type RateLimiterConfig struct {
	RequestsPerSecond int
	Burst             int
	// SweepInterval is how often idle client buckets are scanned for removal.
	SweepInterval time.Duration
	// IdleAfter is how long a client must stay silent before its bucket is
	// dropped and it starts over with a full burst.
	IdleAfter time.Duration
}

const (
	defaultRequestsPerSecond = 5
	defaultBurst             = 10
	defaultSweepInterval     = time.Minute
	defaultIdleAfter         = 3 * time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	cfg     RateLimiterConfig
	mu      sync.Mutex
	clients map[string]*clientBucket
}

// RateLimiter throttles requests per client IP using a token bucket. Each
// call creates an independent limiter with its own buckets and sweep
// goroutine, so separate routes can carry separate limits.
func RateLimiter(cfg RateLimiterConfig) echo.MiddlewareFunc {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	if cfg.IdleAfter <= 0 {
		cfg.IdleAfter = defaultIdleAfter
	}

	rl := &rateLimiter{
		cfg:     cfg,
		clients: make(map[string]*clientBucket),
	}
	go rl.sweep()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !rl.allow(clientKey(c)) {
				return handlers.SendError(c, errors.SystemRateLimitExceeded)
			}
			return next(c)
		}
	}
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	bucket, ok := rl.clients[key]
	if !ok {
		bucket = &clientBucket{
			limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst),
		}
		rl.clients[key] = bucket
	}
	bucket.lastSeen = time.Now()
	limiter := bucket.limiter
	rl.mu.Unlock()

	return limiter.Allow()
}

func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(rl.cfg.SweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.cfg.IdleAfter)
		rl.mu.Lock()
		for key, bucket := range rl.clients {
			if bucket.lastSeen.Before(cutoff) {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

// clientKey identifies the client behind proxies. X-Forwarded-For may list
// several hops; the first entry is the originating client.
func clientKey(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}

	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return c.RealIP()
}
