package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 5 * time.Minute
	limiterSweepEvery = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client address and evicts
// entries idle longer than limiterIdleTTL so the map cannot grow without
// bound.
type clientLimiters struct {
	mu        sync.Mutex
	perSecond float64
	burst     int
	byClient  map[string]*clientLimiter
	lastSweep time.Time
}

func newClientLimiters(perSecond float64, burst int) *clientLimiters {
	return &clientLimiters{
		perSecond: perSecond,
		burst:     burst,
		byClient:  make(map[string]*clientLimiter),
	}
}

func (c *clientLimiters) get(client string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) >= limiterSweepEvery {
		for addr, entry := range c.byClient {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(c.byClient, addr)
			}
		}
		c.lastSweep = now
	}

	entry, ok := c.byClient[client]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(c.perSecond), c.burst)}
		c.byClient[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// RateLimit applies a token-bucket limiter per client address. Clients over
// the limit get 429 without reaching the GraphQL executor.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	limiters := newClientLimiters(perSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				client = r.RemoteAddr
			}

			if !limiters.get(client, time.Now()).Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
