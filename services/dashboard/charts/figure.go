// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package charts computes the dashboard's pie and scatter charts from the
// launch dataset.
//
// # Description
//
// Every exported computation is a pure function of its arguments and the
// read-only Dataset: no package state, no side effects, the same inputs
// always produce the same output. Results come in two shapes:
//
//   - Aggregates (PieAggregate, ScatterSubset) for tests, the CLI, and
//     server-side SVG export.
//   - Figures, which serialize to the JSON accepted by plotly.js
//     (Plotly.react(el, figure.data, figure.layout)).
package charts

// Figure is a plotly.js figure: a list of traces plus layout.
type Figure struct {
	Data   []Trace      `json:"data"`
	Layout FigureLayout `json:"layout"`
}

// Trace is the subset of plotly.js trace attributes the dashboard emits.
// Pie traces use Labels/Values; scatter traces use X/Y.
type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`

	// Pie
	Labels   []string `json:"labels,omitempty"`
	Values   []int    `json:"values,omitempty"`
	TextInfo string   `json:"textinfo,omitempty"`
	Sort     *bool    `json:"sort,omitempty"`

	// Scatter
	X             []float64  `json:"x,omitempty"`
	Y             []int      `json:"y,omitempty"`
	Mode          string     `json:"mode,omitempty"`
	LegendGroup   string     `json:"legendgroup,omitempty"`
	CustomData    [][]string `json:"customdata,omitempty"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
	Marker        *Marker    `json:"marker,omitempty"`
}

// Marker styles scatter points.
type Marker struct {
	Color  string `json:"color,omitempty"`
	Symbol string `json:"symbol,omitempty"`
	Size   int    `json:"size,omitempty"`
}

// FigureLayout holds figure-level presentation settings.
type FigureLayout struct {
	Title  Title   `json:"title"`
	XAxis  *Axis   `json:"xaxis,omitempty"`
	YAxis  *Axis   `json:"yaxis,omitempty"`
	Legend *Legend `json:"legend,omitempty"`
}

// Legend carries the legend title.
type Legend struct {
	Title Title `json:"title"`
}

// Title wraps a text title the way plotly.js expects it.
type Title struct {
	Text string `json:"text"`
}

// Axis describes a cartesian axis.
type Axis struct {
	Title Title     `json:"title"`
	Range []float64 `json:"range,omitempty"`
}

// palette is the plotly default qualitative color sequence. Categories are
// colored in first-appearance order and wrap around after ten.
var palette = []string{
	"#636efa", "#EF553B", "#00cc96", "#ab63fa", "#FFA15A",
	"#19d3f3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// colorFor returns the palette color for the i-th category.
func colorFor(i int) string {
	return palette[i%len(palette)]
}
