// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package layout describes the dashboard page: its title, the two input
// controls, and the two graph regions they drive.
//
// The layout is built once at startup from the loaded dataset and never
// changes afterwards. It is served as JSON and embedded in the HTML page.
package layout

import (
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// Element IDs shared by the page, the callback registry, and the clients.
const (
	SiteDropdownID  = "site-dropdown"
	PayloadSliderID = "payload-slider"
	PieChartID      = "success-pie-chart"
	ScatterChartID  = "success-payload-scatter-chart"
)

// Title is the page heading.
const Title = "SpaceX Launch Records Dashboard"

// DropdownPlaceholder is shown before a site is chosen.
const DropdownPlaceholder = "Select a Site."

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Dropdown is the launch site selector.
type Dropdown struct {
	ID          string   `json:"id"`
	Options     []Option `json:"options"`
	Value       string   `json:"value"`
	Placeholder string   `json:"placeholder"`
	Searchable  bool     `json:"searchable"`
}

// RangeSlider is the payload range selector.
type RangeSlider struct {
	ID    string           `json:"id"`
	Min   float64          `json:"min"`
	Max   float64          `json:"max"`
	Step  float64          `json:"step"`
	Value [2]float64       `json:"value"`
	Marks []datatypes.Mark `json:"marks"`
}

// Graph is a chart region filled in by a callback.
type Graph struct {
	ID string `json:"id"`
}

// Layout is the full static page description.
type Layout struct {
	Title        string      `json:"title"`
	SiteDropdown Dropdown    `json:"site_dropdown"`
	Payload      RangeSlider `json:"payload_slider"`
	PieChart     Graph       `json:"pie_chart"`
	ScatterChart Graph       `json:"scatter_chart"`
}

// Options configures Build.
type Options struct {
	Bounds       datatypes.SliderBounds
	DefaultRange datatypes.PayloadRange
}

// DefaultOptions returns the stock slider configuration: 0 to 10000 kg in
// steps of 1000 with 1000..5000 preselected.
func DefaultOptions() Options {
	return Options{
		Bounds:       datatypes.DefaultSliderBounds(),
		DefaultRange: datatypes.DefaultPayloadRange(),
	}
}

// Build constructs the page layout.
//
// # Description
//
// The dropdown lists "All" followed by every distinct site of ds in
// first-appearance order, with "All" preselected. The slider covers
// opts.Bounds and starts at opts.DefaultRange, clamped into the bounds.
// The slider does not adapt to the dataset's actual payload range.
//
// # Inputs
//
//   - ds: The loaded dataset.
//   - opts: Slider configuration. Use DefaultOptions for the stock page.
//
// # Outputs
//
//   - Layout: Ready to serialize.
func Build(ds *datatypes.Dataset, opts Options) Layout {
	siteOpts := ds.SiteOptions()
	options := make([]Option, 0, len(siteOpts))
	for _, s := range siteOpts {
		label := s
		if s == datatypes.AllSites {
			label = "All Sites"
		}
		options = append(options, Option{Label: label, Value: s})
	}

	initial := opts.DefaultRange.Clamp(opts.Bounds)

	return Layout{
		Title: Title,
		SiteDropdown: Dropdown{
			ID:          SiteDropdownID,
			Options:     options,
			Value:       datatypes.AllSites,
			Placeholder: DropdownPlaceholder,
			Searchable:  true,
		},
		Payload: RangeSlider{
			ID:    PayloadSliderID,
			Min:   opts.Bounds.Min,
			Max:   opts.Bounds.Max,
			Step:  opts.Bounds.Step,
			Value: [2]float64{initial.Min, initial.Max},
			Marks: opts.Bounds.Marks(),
		},
		PieChart:     Graph{ID: PieChartID},
		ScatterChart: Graph{ID: ScatterChartID},
	}
}
