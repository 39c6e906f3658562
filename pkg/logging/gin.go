// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package logging

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader is read from the response to correlate request logs.
const RequestIDHeader = "X-Request-ID"

// GinLogger logs one record per HTTP request after it completes.
//
// # Description
//
// Records carry method, path, route, status, latency_ms, client_ip,
// request_id (from the X-Request-ID response header) and, when a span is
// active, trace_id. 5xx responses log at error level, 4xx at warn, the
// rest at info. Install after the request ID and tracing middleware.
func GinLogger(logger *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := LevelInfo
		switch {
		case status >= 500:
			level = LevelError
		case status >= 400:
			level = LevelWarn
		}

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", status,
			"latency_ms", float64(time.Since(start).Microseconds()) / 1000,
			"client_ip", c.ClientIP(),
			"request_id", c.Writer.Header().Get(RequestIDHeader),
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
			args = append(args, "trace_id", sc.TraceID().String())
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		logger.Log(c.Request.Context(), level, "http request", args...)
	}
}
