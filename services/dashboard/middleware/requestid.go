// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package middleware provides HTTP middleware for the dashboard server.
//
// # Request Flow
//
//	Request
//	   │
//	   ▼
//	RequestID ──► otelgin ──► GinLogger ──► Metrics ──► RateLimit ──► Handler
//
// RequestID runs first so every later stage, including rejected requests,
// can be correlated by X-Request-ID.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// =============================================================================
// Context Keys
// =============================================================================

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key for the request ID.
const requestIDKey = "launchdash_request_id"

// maxRequestIDLen bounds client-supplied IDs.
const maxRequestIDLen = 128

// =============================================================================
// Request ID Middleware
// =============================================================================

// RequestID assigns every request an ID.
//
// # Description
//
// A well-formed X-Request-ID from the client is reused so IDs survive
// proxies; otherwise a random UUID is generated. The ID is echoed in the
// response header and stored in the gin context for GetRequestID.
//
// # Thread Safety
//
// Thread-safe. The returned middleware can be used concurrently.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// validRequestID accepts 1..128 printable ASCII characters without spaces.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] <= ' ' || id[i] > '~' {
			return false
		}
	}
	return true
}
