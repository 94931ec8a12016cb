// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements replay protection for the business submission
// endpoint. Clients may send an Idempotency-Key header with POST
// /businesses; when a still-valid receipt exists for (owner, key), the
// request is marked as a replay so the handler can return the original
// listing instead of creating a second one, and rate limiting is bypassed
// so replays never consume quota.
//
// The middleware validates and stashes the key; persistence stays behind
// the narrow ReceiptLookup function type so the transport layer never
// touches the database directly.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey is the request header clients use to convey a stable
// key for a semantic submission, so retries can be deduplicated safely.
const HeaderIdempotencyKey = "Idempotency-Key"

// Context keys used internally to stash replay state.
const (
	ctxKeySubmissionKey = "receipt.key"
	ctxKeyReplay        = "receipt.replay" // bool: a valid receipt exists
	ctxKeyRateBypass    = "rate.bypass"    // bool: skip rate limiting
)

// SubmissionKey returns the validated idempotency key stored in the Gin
// context. The second return value indicates presence.
func SubmissionKey(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeySubmissionKey)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether this request replays a previously completed
// submission. Handlers should serve the originally persisted listing.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// ReceiptOptions configures header validation for ReceiptValidator. TTL
// enforcement belongs inside the lookup, not here.
type ReceiptOptions struct {
	// MaxLen caps the accepted key length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative
	// RFC7230-like token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// ReceiptLookup answers whether a valid submission receipt exists for
// (ownerID, key) at the given time. Return an error only for lookup
// failures; those must not block normal processing.
type ReceiptLookup func(ctx context.Context, ownerID, key string, now time.Time) (exists bool, err error)

// ReceiptValidator validates the Idempotency-Key header (if present),
// stashes it, and marks replays via the supplied lookup.
//
// Behavior:
//   - Header absent: no-op.
//   - Header invalid: 400 with a compact error body.
//   - Lookup reports a receipt: replay + rate-bypass flags are set.
//
// The middleware never returns a cached payload itself; the handler decides
// how to serve a replay.
func ReceiptValidator(opts ReceiptOptions, lookup ReceiptLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxLen || !pat.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_idempotency_key",
				"message": "invalid Idempotency-Key",
			})
			return
		}

		c.Set(ctxKeySubmissionKey, key)

		if lookup != nil {
			if owner := UserID(c); owner != "" {
				now := time.Now().UTC()
				if exists, _ := lookup(c.Request.Context(), owner, key, now); exists {
					c.Set(ctxKeyReplay, true)
					c.Set(ctxKeyRateBypass, true)
				}
			}
		}

		c.Next()
	}
}
