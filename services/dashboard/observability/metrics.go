// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the launch dashboard.
//
// # Description
//
// Metrics include:
//   - Callback invocations (by output and status)
//   - Chart computation latency histograms
//   - Chart items emitted (pie slices, scatter points)
//   - Dataset size gauge
//   - HTTP requests (by route and status) and rate-limited rejections
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint of the dashboard server.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "launchdash"

// Subsystems
const (
	callbackSubsystem = "callback"
	datasetSubsystem  = "dataset"
	httpSubsystem     = "http"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Metrics holds all Prometheus metrics for the dashboard.
//
// # Description
//
// Create once at startup with NewMetrics and share. Tests pass an isolated
// prometheus.NewRegistry to avoid duplicate registration panics.
//
// # Thread Safety
//
// All operations are thread-safe.
type Metrics struct {
	// CallbackInvocationsTotal counts callback runs.
	// Labels: output (success-pie-chart.figure, ...), status (success, error)
	CallbackInvocationsTotal *prometheus.CounterVec

	// CallbackDurationSeconds measures chart computation latency.
	// Labels: output
	CallbackDurationSeconds *prometheus.HistogramVec

	// ChartItemsTotal counts pie slices and scatter points emitted.
	// Labels: output
	ChartItemsTotal *prometheus.CounterVec

	// DatasetRecords is the number of launch records loaded at startup.
	DatasetRecords prometheus.Gauge

	// DatasetSites is the number of distinct launch sites.
	DatasetSites prometheus.Gauge

	// HTTPRequestsTotal counts HTTP requests.
	// Labels: route, method, status
	HTTPRequestsTotal *prometheus.CounterVec

	// RateLimitedTotal counts requests rejected with 429.
	RateLimitedTotal prometheus.Counter
}

// NewMetrics creates and registers all dashboard metrics.
//
// # Inputs
//
//   - reg: Registerer to register with. Nil means prometheus.DefaultRegisterer.
//
// # Outputs
//
//   - *Metrics: The initialized metrics.
//
// # Limitations
//
//   - Panics if called twice with the same registerer (duplicate registration).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		CallbackInvocationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: callbackSubsystem,
				Name:      "invocations_total",
				Help:      "Total callback invocations by output and status",
			},
			[]string{"output", "status"},
		),

		CallbackDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: callbackSubsystem,
				Name:      "duration_seconds",
				Help:      "Chart computation latency in seconds",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"output"},
		),

		ChartItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: callbackSubsystem,
				Name:      "chart_items_total",
				Help:      "Total pie slices and scatter points emitted by output",
			},
			[]string{"output"},
		),

		DatasetRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: datasetSubsystem,
				Name:      "records",
				Help:      "Number of launch records loaded",
			},
		),

		DatasetSites: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: datasetSubsystem,
				Name:      "sites",
				Help:      "Number of distinct launch sites loaded",
			},
		),

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "requests_total",
				Help:      "Total HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),

		RateLimitedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: httpSubsystem,
				Name:      "rate_limited_total",
				Help:      "Total requests rejected by the rate limiter",
			},
		),
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

// ObserveCallback records one callback invocation.
//
// # Inputs
//
//   - output: The output the callback produced.
//   - elapsed: Computation time.
//   - items: Slices or points emitted. Ignored on error.
//   - err: The callback error, if any.
func (m *Metrics) ObserveCallback(output string, elapsed time.Duration, items int, err error) {
	status := StatusSuccess
	if err != nil {
		status = StatusError
	}
	m.CallbackInvocationsTotal.WithLabelValues(output, status).Inc()
	m.CallbackDurationSeconds.WithLabelValues(output).Observe(elapsed.Seconds())
	if err == nil && items > 0 {
		m.ChartItemsTotal.WithLabelValues(output).Add(float64(items))
	}
}

// SetDataset records the size of the loaded dataset.
func (m *Metrics) SetDataset(records, sites int) {
	m.DatasetRecords.Set(float64(records))
	m.DatasetSites.Set(float64(sites))
}

// RecordRateLimited increments the rate-limited counter.
func (m *Metrics) RecordRateLimited() {
	m.RateLimitedTotal.Inc()
}

// Middleware counts HTTP requests by matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
