package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/fonsecars/fonsecars-backend/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// visitorTTL is how long an idle client keeps its bucket.
const visitorTTL = 10 * time.Minute

// RateLimiter is a per-IP token bucket. It caps request volume on the login
// route independently of the per-account lockout.
type RateLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	visitors *expirable.LRU[string, *rate.Limiter]
}

// NewRateLimiter allows perMinute requests per client IP, bursting up to the same amount.
func NewRateLimiter(perMinute, capacity int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = 30
	}
	if capacity <= 0 {
		capacity = 10000
	}
	return &RateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		visitors: expirable.NewLRU[string, *rate.Limiter](capacity, nil, visitorTTL),
	}
}

// Allow reports whether a request from ip may proceed.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.visitors.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
	}
	// Re-adding keeps active clients from expiring.
	rl.visitors.Add(ip, limiter)
	return limiter.Allow()
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
