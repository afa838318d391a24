package middleware

import (
	"math"
	"net"
	"strconv"
	"strings"
	"time"

	"DuoChat/pkg/apperr"
	"DuoChat/pkg/cache"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL  = 10 * time.Minute
	maxTrackedUsers = 10000
)

// RateLimiter hands every caller its own token bucket. Buckets idle for
// longer than limiterIdleTTL are forgotten.
type RateLimiter struct {
	limiters *cache.Cache
	every    rate.Limit
	burst    int
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: cache.New(maxTrackedUsers, time.Minute),
		every:    rate.Limit(perSecond),
		burst:    burst,
	}
}

func (rl *RateLimiter) Close() {
	rl.limiters.Close()
}

func clientIP(c *gin.Context) string {
	ip := strings.TrimSpace(c.ClientIP())
	if ip == "" {
		host, _, _ := net.SplitHostPort(strings.TrimSpace(c.Request.RemoteAddr))
		ip = host
	}
	return ip
}

// callerKey is the user id behind AuthMiddleware and the client IP
// before it.
func callerKey(c *gin.Context) string {
	if uid := CurrentUserID(c); uid != 0 {
		return "user:" + strconv.FormatUint(uint64(uid), 10)
	}
	return "ip:" + clientIP(c)
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	v := rl.limiters.GetOrSet(key, limiterIdleTTL, func() any {
		return rate.NewLimiter(rl.every, rl.burst)
	})
	return v.(*rate.Limiter)
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := rl.limiter(callerKey(c))
		res := lim.Reserve()
		if !res.OK() {
			abortTooMany(c, time.Second)
			return
		}
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			abortTooMany(c, delay)
			return
		}
		c.Next()
	}
}

func abortTooMany(c *gin.Context, retryAfter time.Duration) {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	abortWith(c, apperr.New(apperr.RateLimited))
}
