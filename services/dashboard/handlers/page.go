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
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AleutianAI/launchdash/services/dashboard/callbacks"
	"github.com/AleutianAI/launchdash/services/dashboard/charts"
	"github.com/AleutianAI/launchdash/services/dashboard/layout"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// pageData feeds templates/index.html. Struct fields used inside <script>
// are JSON-encoded by html/template.
type pageData struct {
	Layout  layout.Layout
	Figures map[callbacks.OutputID]charts.Figure
	Initial map[callbacks.ControlID]any
}

// Index renders the dashboard page with the figures for the initial state
// already embedded, so the first paint needs no round trip.
func (d *Dashboard) Index(c *gin.Context) {
	updates, err := d.registry.Initial(c.Request.Context(), d.initial)
	if err != nil {
		respondError(c, err)
		return
	}
	figures := make(map[callbacks.OutputID]charts.Figure, len(updates))
	for _, u := range updates {
		figures[u.Output] = u.Figure
	}

	var buf bytes.Buffer
	data := pageData{Layout: d.layout, Figures: figures, Initial: d.initial.Values()}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
