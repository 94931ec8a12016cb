// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file carries both layers of abuse control:
//
//   - EdgeLimiter: a per-identity token bucket (golang.org/x/time/rate)
//     applied to every route. It smooths the overall request rate per user
//     or IP and evicts idle buckets opportunistically.
//   - Throttle: a per-operation fixed-window gate in front of sensitive
//     endpoints (submission, generic writes), backed by the
//     internal/ratelimit counter. Denials carry Retry-After and
//     X-RateLimit-Remaining headers.
//
// Both limiters are process-local. For horizontally scaled deployments,
// enforce global limits with a shared counter store instead; callers depend
// only on these middleware constructors, not on the in-memory state.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/localspot/go-directory-backend/internal/ratelimit"
)

// rateLimitRejections counts throttled requests by operation class so abuse
// pressure is visible on dashboards.
var rateLimitRejections = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rate_limit_rejections_total",
		Help: "Total number of requests rejected by rate limiting.",
	},
	[]string{"op"},
)

func init() {
	prometheus.MustRegister(rateLimitRejections)
}

// keyFunc selects the identity used to key a rate-limit bucket. It should
// return a stable string for the duration of a request, e.g. "user:<id>"
// or "ip:<addr>".
type keyFunc func(*gin.Context) string

// KeyByUserOrIP returns a keyFunc that prefers the authenticated user
// identity and falls back to the client IP. Keys are prefixed so user and
// IP namespaces never collide.
func KeyByUserOrIP() keyFunc {
	return func(c *gin.Context) string {
		if uid := UserID(c); uid != "" {
			return "user:" + uid
		}
		return "ip:" + c.ClientIP()
	}
}

// visitor holds a single token bucket and the last time it was seen, so
// idle buckets can be evicted.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// EdgeLimiter implements the per-key token-bucket limiter applied to all
// routes. Buckets are created on demand in a mutex-guarded map; idle
// entries are evicted after a TTL during lookups to keep memory bounded.
// Safe for concurrent use.
type EdgeLimiter struct {
	rps      rate.Limit
	burst    int
	keyFn    keyFunc
	mu       sync.Mutex
	visitors map[string]*visitor

	ttl      time.Duration
	cleanupN uint64
}

// NewEdgeLimiter constructs an EdgeLimiter with the given tokens-per-second
// and burst size, keyed by keyFn. A burst <= 0 is coerced to 1.
func NewEdgeLimiter(rps float64, burst int, keyFn keyFunc) *EdgeLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &EdgeLimiter{
		rps:      rate.Limit(rps),
		burst:    burst,
		keyFn:    keyFn,
		visitors: make(map[string]*visitor),
		ttl:      10 * time.Minute, // evict idle entries after TTL
	}
}

// getVisitor returns (and refreshes) the bucket for key, creating it if
// absent. Idle-entry GC runs after ~5000 lookups and must happen BEFORE the
// requested visitor is touched so an old bucket can be evicted even when it
// is the one being fetched.
func (rl *EdgeLimiter) getVisitor(key string) *rate.Limiter {
	now := time.Now()

	rl.mu.Lock()
	rl.cleanupN++
	if rl.cleanupN >= 5000 {
		for k, vv := range rl.visitors {
			if now.Sub(vv.lastSeen) >= rl.ttl {
				delete(rl.visitors, k)
			}
		}
		rl.cleanupN = 0
	}

	if v, ok := rl.visitors[key]; ok {
		v.lastSeen = now
		lim := v.limiter
		rl.mu.Unlock()
		return lim
	}

	lim := rate.NewLimiter(rl.rps, rl.burst)
	rl.visitors[key] = &visitor{limiter: lim, lastSeen: now}
	rl.mu.Unlock()
	return lim
}

// IsRateBypass reports whether the submission-replay validator marked this
// request for rate-limit bypass (a replay of a previously completed
// submission). Both limiters skip limiting when true.
func IsRateBypass(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyRateBypass)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// Handler returns a Gin middleware that enforces the edge token bucket.
// Denials respond 429 with the standard envelope and a minimal Retry-After.
func (rl *EdgeLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		key := rl.keyFn(c)
		lim := rl.getVisitor(key)

		if lim.Allow() {
			c.Next()
			return
		}

		rateLimitRejections.WithLabelValues("edge").Inc()
		c.Header("Retry-After", "1")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded",
		})
	}
}

// Throttle returns a route middleware that gates requests through the
// fixed-window limiter for one operation class. The client is identified by
// the first X-Forwarded-For entry, X-Real-IP, or the "unknown" sentinel —
// clients behind a shared proxy share a bucket.
//
// Allowed requests carry X-RateLimit-Remaining; denials respond 429 with
// Retry-After in whole seconds (rounded up).
func Throttle(l *ratelimit.Limiter, op ratelimit.Op) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsRateBypass(c) {
			c.Next()
			return
		}

		id := ratelimit.ClientIdentifier(
			c.GetHeader("X-Forwarded-For"),
			c.GetHeader("X-Real-IP"),
		)
		d := l.Check(op, id)
		if d.Allowed {
			if d.Remaining >= 0 {
				c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			}
			c.Next()
			return
		}

		rateLimitRejections.WithLabelValues(string(op)).Inc()
		retry := int(d.RetryAfter.Seconds())
		if d.RetryAfter > time.Duration(retry)*time.Second {
			retry++ // round up so clients never retry early
		}
		if retry < 1 {
			retry = 1
		}
		c.Header("Retry-After", strconv.Itoa(retry))
		c.Header("X-RateLimit-Remaining", "0")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"request_id": c.Writer.Header().Get(requestIDHeader),
			"code":       "too_many_requests",
			"message":    "rate limit exceeded, retry later",
		})
	}
}
