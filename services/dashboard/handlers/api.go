// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/launchdash/services/dashboard/callbacks"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// CallbackRequest is the body of POST /v1/callbacks.
type CallbackRequest struct {
	// Changed is the control that changed. Empty requests every output,
	// as on first paint.
	Changed callbacks.ControlID `json:"changed"`

	// State holds control values keyed by control ID. Missing controls
	// take their initial page values.
	State map[callbacks.ControlID]json.RawMessage `json:"state"`
}

// CallbackResponse is the body returned by POST /v1/callbacks.
type CallbackResponse struct {
	Updates []callbacks.Update `json:"updates"`
}

// HealthCheck reports liveness and the number of loaded records.
func (d *Dashboard) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"records": d.dataset.Len(),
	})
}

// GetLayout returns the static page layout.
func (d *Dashboard) GetLayout(c *gin.Context) {
	c.JSON(http.StatusOK, d.layout)
}

// ListSites returns the dropdown values: "All" then each site in
// first-appearance order.
func (d *Dashboard) ListSites(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sites": d.dataset.SiteOptions()})
}

// HandleCallback runs the callbacks affected by a control change.
func (d *Dashboard) HandleCallback(c *gin.Context) {
	var req CallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, fmt.Errorf("%w: malformed callback request: %v", datatypes.ErrInvalidSelection, err))
		return
	}

	updates, _, err := d.dispatch(c.Request.Context(), d.initial, req)
	if err != nil {
		slog.Warn("Callback failed", "changed", req.Changed, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CallbackResponse{Updates: updates})
}

// dispatch decodes the request state over base and runs the callbacks.
// It returns the decoded state alongside the updates.
func (d *Dashboard) dispatch(ctx context.Context, base callbacks.State, req CallbackRequest) ([]callbacks.Update, callbacks.State, error) {
	st, err := callbacks.DecodeState(req.State, base)
	if err != nil {
		return nil, base, err
	}
	var updates []callbacks.Update
	if req.Changed == "" {
		updates, err = d.registry.Initial(ctx, st)
	} else {
		updates, err = d.registry.Trigger(ctx, req.Changed, st)
	}
	if err != nil {
		return nil, base, err
	}
	return updates, st, nil
}
