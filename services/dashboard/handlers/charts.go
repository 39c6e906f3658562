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
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/launchdash/services/dashboard/callbacks"
	"github.com/AleutianAI/launchdash/services/dashboard/charts"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

const svgContentType = "image/svg+xml"

// GetPieChart returns the pie figure for ?site= (default "All").
func (d *Dashboard) GetPieChart(c *gin.Context) {
	st, err := d.queryState(c)
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := d.registry.Resolve(c.Request.Context(), callbacks.PieOutput, st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.Figure)
}

// GetScatterChart returns the scatter figure for ?site=&min=&max=.
// Missing parameters take their initial page values.
func (d *Dashboard) GetScatterChart(c *gin.Context) {
	st, err := d.queryState(c)
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := d.registry.Resolve(c.Request.Context(), callbacks.ScatterOutput, st)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u.Figure)
}

// GetPieSVG renders the pie chart as SVG. An all-zero pie yields 204.
func (d *Dashboard) GetPieSVG(c *gin.Context) {
	st, err := d.queryState(c)
	if err != nil {
		respondError(c, err)
		return
	}
	d.writeSVG(c, func(w io.Writer) error {
		return charts.RenderPieSVG(charts.ComputePie(d.dataset, st.Site), w)
	})
}

// GetScatterSVG renders the scatter chart as SVG. An empty subset yields 204.
func (d *Dashboard) GetScatterSVG(c *gin.Context) {
	st, err := d.queryState(c)
	if err != nil {
		respondError(c, err)
		return
	}
	rng := st.Payload.Clamp(d.bounds)
	if err := rng.Validate(); err != nil {
		respondError(c, err)
		return
	}
	d.writeSVG(c, func(w io.Writer) error {
		return charts.RenderScatterSVG(charts.ComputeScatter(d.dataset, st.Site, rng), w)
	})
}

// writeSVG buffers the rendered image so a render failure can still
// produce a JSON error.
func (d *Dashboard) writeSVG(c *gin.Context, render func(io.Writer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		if errors.Is(err, charts.ErrNothingToRender) {
			c.Status(http.StatusNoContent)
			return
		}
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, svgContentType, buf.Bytes())
}

// queryState reads site, min and max query parameters over the initial
// page state.
func (d *Dashboard) queryState(c *gin.Context) (callbacks.State, error) {
	st := d.initial
	if site, ok := c.GetQuery("site"); ok && site != "" {
		st.Site = site
	}
	var err error
	if st.Payload.Min, err = queryFloat(c, "min", st.Payload.Min); err != nil {
		return st, err
	}
	if st.Payload.Max, err = queryFloat(c, "max", st.Payload.Max); err != nil {
		return st, err
	}
	return st, st.Payload.Validate()
}

func queryFloat(c *gin.Context, name string, fallback float64) (float64, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", datatypes.ErrInvalidSelection, name, raw)
	}
	return v, nil
}
