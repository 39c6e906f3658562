// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Setup
// =============================================================================

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// RequestID Tests
// =============================================================================

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, seen)
}

func TestRequestID_ReusesClientID(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := serve(router, req)

	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestID_RejectsMalformedClientID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"spaces", "has space"},
		{"too long", strings.Repeat("a", 129)},
		{"control char", "bad\x01id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID())
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.id)
			w := serve(router, req)

			got := w.Header().Get(RequestIDHeader)
			assert.NotEqual(t, tt.id, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestGetRequestID_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Empty(t, GetRequestID(c))
}

// =============================================================================
// RateLimiter Tests
// =============================================================================

func TestRateLimiter_BurstThen429(t *testing.T) {
	limited := 0
	rl := NewRateLimiter(0.001, 2, func() { limited++ })
	router := gin.New()
	router.Use(rl.Middleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = serve(router, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, last.Code)
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Equal(t, 1, limited)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(last.Body.Bytes(), &body))
	assert.Equal(t, "rate_limited", body["code"])
	assert.NotEmpty(t, body["error"])
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, nil)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
	assert.Equal(t, 2, rl.Clients())
}

func TestRateLimiter_AllowReportsRejections(t *testing.T) {
	limited := 0
	rl := NewRateLimiter(0.001, 1, func() { limited++ })

	assert.True(t, rl.Allow("ws-client"))
	assert.False(t, rl.Allow("ws-client"))
	assert.False(t, rl.Allow("ws-client"))
	assert.Equal(t, 2, limited)
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	rl.Allow("b")
	require.Equal(t, 2, rl.Clients())

	now = now.Add(idleClientTTL + time.Minute)
	rl.Allow("c")

	assert.Equal(t, 1, rl.Clients())
}
