// internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/aplv/catalogo-api/internal/utils"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	visitors map[string]*visitor
	mtx      sync.Mutex
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(r rate.Limit, b int) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     r,
		burst:    b,
	}
}

// Cleanup forgets idle visitors every minute until ctx is done.
func (rl *RateLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.evictIdle(3 * time.Minute)
		}
	}
}

func (rl *RateLimiter) evictIdle(idle time.Duration) {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()
	for ip, v := range rl.visitors {
		if time.Since(v.lastSeen) > idle {
			delete(rl.visitors, ip)
		}
	}
}

func (rl *RateLimiter) getVisitor(ip string) *rate.Limiter {
	rl.mtx.Lock()
	defer rl.mtx.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rate, rl.burst)
		rl.visitors[ip] = &visitor{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getVisitor(c.ClientIP())

		if !limiter.Allow() {
			retry := time.Second
			if rl.rate > 0 {
				retry = time.Duration(float64(time.Second) / float64(rl.rate))
			}
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			utils.ErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// Limiters groups the per-route-class limiters of the API.
type Limiters struct {
	General *RateLimiter
	Auth    *RateLimiter
	Upload  *RateLimiter
}

func DefaultLimiters() *Limiters {
	return &Limiters{
		General: NewRateLimiter(rate.Limit(20), 40),            // browsing re-filters on every keystroke
		Auth:    NewRateLimiter(rate.Every(12*time.Second), 5), // 5 sign-ins per minute
		Upload:  NewRateLimiter(rate.Every(6*time.Second), 10),
	}
}

// Start runs the cleanup loops until ctx is done.
func (l *Limiters) Start(ctx context.Context) {
	for _, rl := range []*RateLimiter{l.General, l.Auth, l.Upload} {
		go rl.Cleanup(ctx)
	}
}
