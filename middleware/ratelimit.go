package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type ipRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

func (i *ipRateLimiter) limiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()
	lim, ok := i.ips[ip]
	if !ok {
		lim = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = lim
	}
	return lim
}

// RateLimiter applies a per-client-IP token bucket to the whole API group.
func RateLimiter(r rate.Limit, burst int) gin.HandlerFunc {
	limiters := &ipRateLimiter{ips: make(map[string]*rate.Limiter), r: r, b: burst}
	return func(c *gin.Context) {
		if !limiters.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}
