// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/AleutianAI/launchdash/pkg/logging"
	"github.com/AleutianAI/launchdash/services/dashboard/handlers"
	"github.com/AleutianAI/launchdash/services/dashboard/middleware"
	"github.com/AleutianAI/launchdash/services/dashboard/observability"
)

// Dependencies carries everything NewRouter wires into the engine. Nil
// fields switch the matching middleware or route off.
type Dependencies struct {
	ServiceName    string
	Dashboard      *handlers.Dashboard
	Logger         *logging.Logger
	Metrics        *observability.Metrics
	Limiter        *middleware.RateLimiter
	MetricsHandler http.Handler
	TrustedProxies []string
}

// NewRouter builds the gin engine with the middleware chain applied in
// order: recovery, request ID, tracing, request logging, request metrics.
// The rate limiter guards only the /v1 API. Client addresses come from
// X-Forwarded-For only when the peer is one of TrustedProxies.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		slog.Warn("Ignoring invalid trusted proxies", "error", err)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	if deps.ServiceName != "" {
		router.Use(otelgin.Middleware(deps.ServiceName))
	}
	if deps.Logger != nil {
		router.Use(logging.GinLogger(deps.Logger))
	}
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}

	var v1Middleware []gin.HandlerFunc
	if deps.Limiter != nil {
		v1Middleware = append(v1Middleware, deps.Limiter.Middleware())
	}
	SetupRoutes(router, deps.Dashboard, deps.MetricsHandler, v1Middleware...)
	return router
}

// SetupRoutes registers the dashboard endpoints. v1Middleware runs only
// on the /v1 group.
func SetupRoutes(router *gin.Engine, dashboard *handlers.Dashboard, metricsHandler http.Handler,
	v1Middleware ...gin.HandlerFunc) {

	router.GET("/", dashboard.Index)
	router.GET("/health", dashboard.HealthCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	// API version 1 group
	v1 := router.Group("/v1", v1Middleware...)
	{
		v1.GET("/layout", dashboard.GetLayout)
		v1.GET("/sites", dashboard.ListSites)
		v1.POST("/callbacks", dashboard.HandleCallback)
		v1.GET("/ws", dashboard.HandleWebSocket)

		charts := v1.Group("/charts")
		{
			charts.GET("/pie", dashboard.GetPieChart)
			charts.GET("/scatter", dashboard.GetScatterChart)
			charts.GET("/pie.svg", dashboard.GetPieSVG)
			charts.GET("/scatter.svg", dashboard.GetScatterSVG)
		}
	}
}
