package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterIdleAfter  = 10 * time.Minute
)

// clientLimiter pairs a token bucket with the last time its IP was seen.
// lastSeen is unix nanos behind an atomic; requests touch it without a
// lock while the sweeper reads it.
type clientLimiter struct {
	bucket   *rate.Limiter
	lastSeen atomic.Int64
}

type limiterPool struct {
	clients sync.Map // ip -> *clientLimiter
	r       rate.Limit
	burst   int
}

func (p *limiterPool) get(ip string) *rate.Limiter {
	v, _ := p.clients.LoadOrStore(ip, &clientLimiter{bucket: rate.NewLimiter(p.r, p.burst)})
	cl := v.(*clientLimiter)
	cl.lastSeen.Store(time.Now().UnixNano())
	return cl.bucket
}

// sweep drops buckets for IPs not seen within limiterIdleAfter.
func (p *limiterPool) sweep() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()
	for range ticker.C {
		p.sweepOnce(time.Now().Add(-limiterIdleAfter).UnixNano())
	}
}

func (p *limiterPool) sweepOnce(cutoff int64) {
	p.clients.Range(func(k, v interface{}) bool {
		if v.(*clientLimiter).lastSeen.Load() < cutoff {
			p.clients.Delete(k)
		}
		return true
	})
}

// RateLimit enforces a per-IP token bucket of r requests per second
// with the given burst. Buckets for idle IPs are swept periodically so
// the pool does not grow without bound.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	pool := &limiterPool{r: r, burst: burst}
	go pool.sweep()

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests, slow down"})
			return
		}
		c.Next()
	}
}
