// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package handlers implements the dashboard's HTTP and WebSocket endpoints.
//
// All handlers share one Dashboard, which holds the read-only dataset, the
// prebuilt layout, and the callback registry. Nothing in it is mutated
// after construction, so handlers run concurrently without locking.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/launchdash/services/dashboard/callbacks"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
	"github.com/AleutianAI/launchdash/services/dashboard/layout"
)

// Error codes returned in the "code" field of error bodies.
const (
	CodeInvalidSelection = "invalid_selection"
	CodeUnknownControl   = "unknown_control"
	CodeUnknownOutput    = "unknown_output"
	CodeRateLimited      = "rate_limited"
	CodeCancelled        = "cancelled"
	CodeInternal         = "internal"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Dashboard holds the state shared by every handler.
type Dashboard struct {
	dataset  *datatypes.Dataset
	layout   layout.Layout
	registry *callbacks.Registry
	bounds   datatypes.SliderBounds
	initial  callbacks.State
	frames   FrameLimiter
}

// FrameLimiter decides whether a client may run another callback.
type FrameLimiter interface {
	Allow(key string) bool
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithFrameLimiter checks every WebSocket frame against l, keyed by the
// client IP.
func WithFrameLimiter(l FrameLimiter) Option {
	return func(d *Dashboard) {
		d.frames = l
	}
}

// New builds the page layout from ds and opts and returns the handler set.
// The registry must already have its callbacks bound.
func New(ds *datatypes.Dataset, reg *callbacks.Registry, opts layout.Options, options ...Option) *Dashboard {
	l := layout.Build(ds, opts)
	d := &Dashboard{
		dataset:  ds,
		layout:   l,
		registry: reg,
		bounds:   opts.Bounds,
		initial: callbacks.State{
			Site:    l.SiteDropdown.Value,
			Payload: datatypes.PayloadRange{Min: l.Payload.Value[0], Max: l.Payload.Value[1]},
		},
	}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// classify maps an error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, datatypes.ErrInvalidSelection):
		return http.StatusBadRequest, CodeInvalidSelection
	case errors.Is(err, callbacks.ErrUnknownControl):
		return http.StatusBadRequest, CodeUnknownControl
	case errors.Is(err, callbacks.ErrUnknownOutput):
		return http.StatusNotFound, CodeUnknownOutput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, CodeCancelled
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// respondError aborts with an ErrorResponse derived from err.
func respondError(c *gin.Context, err error) {
	status, code := classify(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
