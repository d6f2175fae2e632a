package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/d60-Lab/hint/pkg/response"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit 按客户端 IP 限流写接口；闲置 10 分钟的 limiter 惰性回收
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*ipLimiter)
		lastGC   = time.Now()
	)

	return func(c *gin.Context) {
		mu.Lock()
		now := time.Now()
		if now.Sub(lastGC) > 10*time.Minute {
			for ip, l := range limiters {
				if now.Sub(l.lastSeen) > 10*time.Minute {
					delete(limiters, ip)
				}
			}
			lastGC = now
		}
		ip := c.ClientIP()
		l, ok := limiters[ip]
		if !ok {
			l = &ipLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
			limiters[ip] = l
		}
		l.lastSeen = now
		mu.Unlock()

		if !l.limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, response.ErrorBody{Message: "too many requests"})
			return
		}
		c.Next()
	}
}
