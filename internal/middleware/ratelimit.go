package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"sdsposter/internal/config"
)

// IPLimiter keeps one token bucket per client IP. Buckets unused for idleTTL
// are dropped.
type IPLimiter struct {
	buckets *gocache.Cache
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
}

// NewIPLimiter creates a limiter allowing requestsPerMinute per client IP.
func NewIPLimiter(requestsPerMinute, burst int, idleTTL time.Duration) *IPLimiter {
	if burst <= 0 {
		burst = 1
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &IPLimiter{
		buckets: gocache.New(idleTTL, idleTTL),
		limit:   rate.Limit(float64(requestsPerMinute) / 60),
		burst:   burst,
	}
}

// Reserve takes a token for ip. It returns false, with the time until the
// next token, when the bucket is empty.
func (l *IPLimiter) Reserve(ip string) (bool, time.Duration) {
	limiter := l.get(ip)
	r := limiter.Reserve()
	if !r.OK() {
		return false, time.Minute
	}
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return false, delay
	}
	return true, 0
}

func (l *IPLimiter) get(ip string) *rate.Limiter {
	if v, ok := l.buckets.Get(ip); ok {
		l.buckets.SetDefault(ip, v)
		return v.(*rate.Limiter)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring the lock
	if v, ok := l.buckets.Get(ip); ok {
		return v.(*rate.Limiter)
	}
	limiter := rate.NewLimiter(l.limit, l.burst)
	l.buckets.SetDefault(ip, limiter)
	return limiter
}

// RateLimit rejects requests beyond the per-IP budget with 429 and a
// Retry-After header. A disabled config passes every request through.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewIPLimiter(cfg.RequestsPerMinute, cfg.Burst, cfg.IdleTTL)

	return func(c *gin.Context) {
		ok, wait := limiter.Reserve(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": "RATE_LIMITED", "message": "too many requests; try again later"},
			})
			return
		}
		c.Next()
	}
}
