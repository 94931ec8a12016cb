// Package ratelimit implements a fixed-window request-count gate keyed by
// client identifier and operation class. It protects sensitive write and
// auth endpoints against abuse without external dependencies.
//
// The window state is process-local and lost on restart, which is acceptable
// for a single-process deployment. For horizontally scaled deployments the
// Limiter's Check contract can be re-implemented over a shared counter store
// (e.g. a key-value store with atomic increment-and-expire) without touching
// callers; nothing outside this package assumes in-memory state.
//
// Unlike the edge token bucket in the HTTP middleware (which smooths overall
// request rate per IP), this limiter counts requests in discrete,
// non-overlapping windows per operation class, so policy reads naturally:
// "at most 5 submissions per hour".
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// Op names a class of rate-limited operation. Each class carries its own
// window policy so an aggressive uploader cannot exhaust the auth budget.
type Op string

const (
	OpAuth          Op = "auth"
	OpPasswordReset Op = "password_reset"
	OpRegistration  Op = "registration"
	OpUpload        Op = "upload"
	OpAPI           Op = "api"
)

// Policy is the fixed-window configuration for one operation class.
type Policy struct {
	// Window is the length of each counting window.
	Window time.Duration
	// MaxRequests is the number of requests allowed per window per key.
	MaxRequests int
}

// Decision is the outcome of a single Check call.
type Decision struct {
	// Allowed is false when the caller should be throttled.
	Allowed bool
	// Remaining is the number of requests left in the current window.
	Remaining int
	// RetryAfter is how long until the window resets; only meaningful when
	// Allowed is false.
	RetryAfter time.Duration
}

// DefaultPolicies returns the shipped per-operation windows. These are
// policy, not contract; config overrides every number.
func DefaultPolicies() map[Op]Policy {
	return map[Op]Policy{
		OpAuth:          {Window: 15 * time.Minute, MaxRequests: 5},
		OpPasswordReset: {Window: time.Hour, MaxRequests: 3},
		OpRegistration:  {Window: time.Hour, MaxRequests: 5},
		OpUpload:        {Window: time.Minute, MaxRequests: 10},
		OpAPI:           {Window: time.Minute, MaxRequests: 100},
	}
}

// sweepInterval bounds how often the passive cleanup walks the entry map.
const sweepInterval = 60 * time.Second

// entry is the per-key window state: requests seen so far and when the
// window expires.
type entry struct {
	count   int
	resetAt time.Time
}

// Limiter is a mutex-guarded fixed-window counter map. It is safe for
// concurrent use; the window increment is atomic relative to concurrent
// requests sharing a key.
type Limiter struct {
	mu        sync.Mutex
	policies  map[Op]Policy
	entries   map[string]*entry
	lastSweep time.Time

	// now is injectable for tests; defaults to time.Now.
	now func() time.Time
}

// New constructs a Limiter with the given policies. A nil map falls back to
// DefaultPolicies.
func New(policies map[Op]Policy) *Limiter {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Limiter{
		policies: policies,
		entries:  make(map[string]*entry),
		now:      time.Now,
	}
}

// Check records one request for (op, identifier) and decides whether it may
// proceed. Operations without a configured policy are never limited.
//
// Semantics (fixed window): the first request in a window creates the record
// with count=1 and resetAt=now+window; requests at or over MaxRequests are
// denied with the time remaining in the window; everything else increments
// the count.
func (l *Limiter) Check(op Op, identifier string) Decision {
	pol, ok := l.policies[op]
	if !ok || pol.MaxRequests <= 0 || pol.Window <= 0 {
		return Decision{Allowed: true, Remaining: -1}
	}

	key := string(op) + ":" + identifier
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Passive cleanup: at most once per sweepInterval, drop expired windows
	// so the map does not grow unbounded. Runs inline on the calling request;
	// O(active keys), no timer goroutine.
	if now.Sub(l.lastSweep) > sweepInterval {
		for k, e := range l.entries {
			if !now.Before(e.resetAt) {
				delete(l.entries, k)
			}
		}
		l.lastSweep = now
	}

	e, exists := l.entries[key]
	if !exists || !now.Before(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(pol.Window)}
		return Decision{Allowed: true, Remaining: pol.MaxRequests - 1}
	}
	if e.count >= pol.MaxRequests {
		return Decision{Allowed: false, Remaining: 0, RetryAfter: e.resetAt.Sub(now)}
	}
	e.count++
	return Decision{Allowed: true, Remaining: pol.MaxRequests - e.count}
}

// ClientIdentifier derives the throttling key from proxy-forwarded request
// metadata: the first X-Forwarded-For entry, else X-Real-IP, else the
// sentinel "unknown". Clients behind a shared proxy/NAT share a bucket; that
// is an accepted consequence of IP keying.
func ClientIdentifier(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		if i := strings.IndexByte(forwardedFor, ','); i >= 0 {
			forwardedFor = forwardedFor[:i]
		}
		if ip := strings.TrimSpace(forwardedFor); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(realIP); ip != "" {
		return ip
	}
	return "unknown"
}
