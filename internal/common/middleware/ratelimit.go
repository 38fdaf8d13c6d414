package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/ahwlsqja/permission-mw-signer/internal/common/errors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP
type RateLimiter struct {
	limiters sync.Map
	rps      int
	burst    int
	idleTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

type limiterEntry struct {
	limiter    *rate.Limiter
	mu         sync.Mutex
	lastAccess time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the given burst
func NewRateLimiter(rps, burst int, logger *zap.Logger) *RateLimiter {
	if burst < rps {
		burst = rps
	}
	return &RateLimiter{
		rps:     rps,
		burst:   burst,
		idleTTL: 10 * time.Minute,
		logger:  logger,
		now:     time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	now := rl.now()
	if val, ok := rl.limiters.Load(key); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(rl.rps), rl.burst),
		lastAccess: now,
	}
	actual, _ := rl.limiters.LoadOrStore(key, entry)
	return actual.(*limiterEntry).limiter
}

// Sweep drops limiters idle for longer than the idle TTL
func (rl *RateLimiter) Sweep() {
	cutoff := rl.now().Add(-rl.idleTTL)
	rl.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		idle := entry.lastAccess.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// Middleware rejects requests over the limit with 429. Health probes are never limited.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbe(c.Request.URL.Path) {
			c.Next()
			return
		}

		clientID := c.ClientIP()
		if !rl.getLimiter(clientID).Allow() {
			rl.logger.Warn("rate limit exceeded",
				zap.String("client_ip", clientID),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.rps))
			AbortWithError(c, errors.RateLimited())
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", rl.rps))
		c.Next()
	}
}
