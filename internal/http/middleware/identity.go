// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file extracts the caller identity supplied by the upstream gateway.
// Authentication and session handling happen outside this service; the
// gateway forwards the resolved identity as trusted headers, and everything
// downstream (handlers, services) reads it from the Gin context. The core
// logic trusts the caller to have authorized the action.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity headers set by the upstream gateway.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserRole  = "X-User-Role"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

// Context keys under which the identity is stashed.
const (
	ctxKeyUserID    = "userID"
	ctxKeyUserRole  = "userRole"
	ctxKeyUserEmail = "userEmail"
	ctxKeyUserName  = "userName"
)

// RoleAdmin is the role string that grants access to moderation endpoints.
const RoleAdmin = "admin"

// Identity copies the gateway identity headers into the Gin context. It
// never rejects a request; endpoints that need an identity enforce it via
// RequireUser or RequireAdmin.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if v := strings.TrimSpace(c.GetHeader(HeaderUserID)); v != "" {
			c.Set(ctxKeyUserID, v)
		}
		if v := strings.TrimSpace(c.GetHeader(HeaderUserRole)); v != "" {
			c.Set(ctxKeyUserRole, strings.ToLower(v))
		}
		if v := strings.TrimSpace(c.GetHeader(HeaderUserEmail)); v != "" {
			c.Set(ctxKeyUserEmail, v)
		}
		if v := strings.TrimSpace(c.GetHeader(HeaderUserName)); v != "" {
			c.Set(ctxKeyUserName, v)
		}
		c.Next()
	}
}

// UserID returns the caller's user id, or "" when anonymous.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserEmail returns the caller's email, or "".
func UserEmail(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserEmail); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// UserName returns the caller's display name, or "".
func UserName(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserName); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// IsAdmin reports whether the caller carries the admin role.
func IsAdmin(c *gin.Context) bool {
	if v, ok := c.Get(ctxKeyUserRole); ok {
		if s, ok := v.(string); ok {
			return s == RoleAdmin
		}
	}
	return false
}

// RequireUser aborts with 401 when no identity is present.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the caller is an admin (401 when
// anonymous).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "authentication required",
			})
			return
		}
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "forbidden",
				"message":    "admin role required",
			})
			return
		}
		c.Next()
	}
}
