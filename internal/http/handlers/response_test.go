package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestFail_ServerErrorLogsAndCarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal || resp.Message != "kaboom" {
		t.Fatalf("resp = %+v", resp)
	}
	// 5xx responses are logged with their code.
	if !strings.Contains(buf.String(), ErrCodeInternal) {
		t.Fatalf("log = %q", buf.String())
	}
}

func TestFail_ClientErrorDoesNotLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/nope", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrCodeNotFound, "business not found")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if buf.Len() != 0 {
		t.Fatalf("4xx logged: %q", buf.String())
	}
}

func Test_paginate(t *testing.T) {
	cases := []struct {
		page, pageSize int
		total          int64
		wantPages      int
		wantNext       bool
	}{
		{1, 20, 0, 0, false},
		{1, 20, 20, 1, false},
		{1, 20, 21, 2, true},
		{2, 20, 21, 2, false},
		{5, 10, 100, 10, true},
	}
	for _, tc := range cases {
		p := paginate(tc.page, tc.pageSize, tc.total)
		if p.TotalPages != tc.wantPages || p.HasNext != tc.wantNext {
			t.Fatalf("paginate(%d, %d, %d) = %+v", tc.page, tc.pageSize, tc.total, p)
		}
	}
}
