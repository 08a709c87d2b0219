package middleware

import (
	"net/http"
	"sync"
	"time"

	"ludo_client/internal/metrics"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

// ActionRateLimit is a per-client token bucket for the action endpoints.
// Buckets idle for more than idleTTL are dropped on the next request.
func ActionRateLimit(perSecond float64, burst int) gin.HandlerFunc {
	const idleTTL = 10 * time.Minute
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(perSecond)
	if perSecond <= 0 {
		limit = rate.Inf
	}

	var mu sync.Mutex
	clients := make(map[string]*limiterEntry)
	lastSweep := time.Now()

	return func(c *gin.Context) {
		key := clientKey(c)
		now := time.Now()

		mu.Lock()
		if now.Sub(lastSweep) > idleTTL {
			for k, e := range clients {
				if now.Sub(e.seen) > idleTTL {
					delete(clients, k)
				}
			}
			lastSweep = now
		}
		e, ok := clients[key]
		if !ok {
			e = &limiterEntry{lim: rate.NewLimiter(limit, burst)}
			clients[key] = e
		}
		e.seen = now
		allowed := e.lim.Allow()
		mu.Unlock()

		if !allowed {
			metrics.RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		metrics.RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}

// clientKey prefers the authenticated viewer over the remote address.
func clientKey(c *gin.Context) string {
	if v, ok := c.Get(ViewerKey); ok {
		if name, ok := v.(string); ok && name != "" {
			return "viewer:" + name
		}
	}
	return c.ClientIP()
}
