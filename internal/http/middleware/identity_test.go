package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestIdentity_CopiesHeadersIntoContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity())
	r.GET("/whoami", func(c *gin.Context) {
		if UserID(c) != "u1" {
			t.Fatalf("UserID = %q", UserID(c))
		}
		if UserEmail(c) != "owner@example.com" || UserName(c) != "Pat" {
			t.Fatalf("email/name = %q / %q", UserEmail(c), UserName(c))
		}
		// Role comparison is case-insensitive via lowering at ingest.
		if !IsAdmin(c) {
			t.Fatal("expected admin role")
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderUserID, " u1 ")
	req.Header.Set(HeaderUserRole, "Admin")
	req.Header.Set(HeaderUserEmail, "owner@example.com")
	req.Header.Set(HeaderUserName, "Pat")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestIdentity_AnonymousDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	if UserID(c) != "" || UserEmail(c) != "" || UserName(c) != "" {
		t.Fatal("identity accessors should be empty without headers")
	}
	if IsAdmin(c) {
		t.Fatal("anonymous caller must not be admin")
	}

	// Wrong-typed context values read as absent, not panic.
	c.Set(ctxKeyUserID, 42)
	if UserID(c) != "" {
		t.Fatalf("UserID with non-string value = %q", UserID(c))
	}
}

func TestRequireUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity(), RequireUser())
	r.GET("/mine", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mine", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", w.Code)
	}

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/mine", nil)
	req.Header.Set(HeaderUserID, "u1")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("authenticated: status = %d, want 200", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity(), RequireAdmin())
	r.GET("/admin", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Anonymous -> 401, not 403.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status = %d, want 401", w.Code)
	}

	// Authenticated non-admin -> 403.
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(HeaderUserID, "u1")
	req.Header.Set(HeaderUserRole, "owner")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-admin: status = %d, want 403", w.Code)
	}

	// Admin passes.
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(HeaderUserID, "a1")
	req.Header.Set(HeaderUserRole, RoleAdmin)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", w.Code)
	}
}
