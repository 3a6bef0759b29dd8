package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	"github.com/healthinsights/health-insights-backend/dto"
)

const (
	rateLimiterCacheSize = 10_000
	rateLimiterIdleTtl   = 10 * time.Minute
)

// NewRateLimiter limits every client IP to perMinute requests per minute, with bursts of the same size.
// Limiters of clients idle for a while are evicted, which resets their budget.
func NewRateLimiter(perMinute int) gin.HandlerFunc {
	limiters := expirable.NewLRU[string, *rate.Limiter](rateLimiterCacheSize, nil, rateLimiterIdleTtl)
	every := time.Minute / time.Duration(perMinute)

	// the lru is safe for concurrent use, but get-or-create must not hand two fresh limiters to one client
	var mu sync.Mutex
	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters.Get(ip)
		if !ok {
			limiter = rate.NewLimiter(rate.Every(every), perMinute)
		}
		// re-adding refreshes the idle ttl
		limiters.Add(ip, limiter)
		return limiter
	}

	return func(c *gin.Context) {
		limiter := limiterFor(c.ClientIP())
		if !limiter.Allow() {
			c.Header("Retry-After", strconv.Itoa(int(every.Seconds())+1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.APIErrorResponse{
				Detail: "Too many requests, please slow down",
			})
			return
		}
		c.Next()
	}
}
