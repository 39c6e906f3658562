// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Test Helper: Create isolated metrics for testing
// ============================================================================

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	return NewMetrics(prometheus.NewRegistry())
}

func init() {
	gin.SetMode(gin.TestMode)
}

// ============================================================================
// Callback Metrics
// ============================================================================

func TestObserveCallback_Success(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveCallback("success-pie-chart.figure", 2*time.Millisecond, 4, nil)
	m.ObserveCallback("success-pie-chart.figure", time.Millisecond, 2, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CallbackInvocationsTotal.WithLabelValues("success-pie-chart.figure", StatusSuccess)))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.ChartItemsTotal.WithLabelValues("success-pie-chart.figure")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CallbackDurationSeconds))
}

func TestObserveCallback_Error(t *testing.T) {
	m := newTestMetrics(t)

	m.ObserveCallback("success-payload-scatter-chart.figure", time.Millisecond, 10, errors.New("bad"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CallbackInvocationsTotal.WithLabelValues("success-payload-scatter-chart.figure", StatusError)))
	assert.Equal(t, 0, testutil.CollectAndCount(m.ChartItemsTotal))
}

// ============================================================================
// Dataset and HTTP Metrics
// ============================================================================

func TestSetDataset(t *testing.T) {
	m := newTestMetrics(t)

	m.SetDataset(56, 4)

	assert.Equal(t, 56.0, testutil.ToFloat64(m.DatasetRecords))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.DatasetSites))
}

func TestRecordRateLimited(t *testing.T) {
	m := newTestMetrics(t)

	m.RecordRateLimited()
	m.RecordRateLimited()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RateLimitedTotal))
}

func TestMiddleware_CountsByRoute(t *testing.T) {
	m := newTestMetrics(t)
	router := gin.New()
	router.Use(m.Middleware())
	router.GET("/v1/sites", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/sites", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 3.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("/v1/sites", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("unmatched", "GET", "404")))
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)

	assert.Panics(t, func() { NewMetrics(reg) })
}
