// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package datatypes holds the launch record model shared by the dashboard
// loader, chart computations, and HTTP handlers.
package datatypes

import "math"

// =============================================================================
// Launch Records
// =============================================================================

// Outcome classes as stored in the "class" column.
const (
	ClassFailure = 0
	ClassSuccess = 1
)

// LaunchRecord is one row of the launch dataset.
//
// # Fields
//
//   - FlightNumber: Optional. Zero when the column is absent.
//   - Site: Required. Launch site name.
//   - PayloadMassKg: Required. Non-negative payload mass in kilograms.
//   - Class: Required. ClassSuccess or ClassFailure.
//   - BoosterVersion: Optional. Exact booster designation, hover metadata only.
//   - BoosterCategory: Required. Booster version category, used for coloring.
type LaunchRecord struct {
	FlightNumber    int     `json:"flight_number,omitempty"`
	Site            string  `json:"launch_site"`
	PayloadMassKg   float64 `json:"payload_mass_kg"`
	Class           int     `json:"class"`
	BoosterVersion  string  `json:"booster_version,omitempty"`
	BoosterCategory string  `json:"booster_version_category"`
}

// Succeeded reports whether the record's outcome class is a success.
func (r LaunchRecord) Succeeded() bool {
	return r.Class == ClassSuccess
}

// =============================================================================
// Dataset
// =============================================================================

// Dataset is the ordered, read-only collection of launch records.
//
// # Description
//
// A Dataset is built once by NewDataset and never mutated afterwards. The
// derived scalars (distinct sites, payload bounds) are computed at
// construction. Every accessor that returns a slice returns a copy so callers
// cannot alter shared state.
//
// # Thread Safety
//
// Safe for concurrent reads. There is no writer after construction.
type Dataset struct {
	records    []LaunchRecord
	sites      []string
	siteIndex  map[string]struct{}
	minPayload float64
	maxPayload float64
}

// NewDataset builds a Dataset from records, keeping their order.
//
// Sites are listed in first-appearance order. For an empty input the payload
// bounds are both zero.
func NewDataset(records []LaunchRecord) *Dataset {
	ds := &Dataset{
		records:    make([]LaunchRecord, len(records)),
		siteIndex:  make(map[string]struct{}),
		minPayload: math.Inf(1),
		maxPayload: math.Inf(-1),
	}
	copy(ds.records, records)

	for _, r := range ds.records {
		if _, seen := ds.siteIndex[r.Site]; !seen {
			ds.siteIndex[r.Site] = struct{}{}
			ds.sites = append(ds.sites, r.Site)
		}
		ds.minPayload = math.Min(ds.minPayload, r.PayloadMassKg)
		ds.maxPayload = math.Max(ds.maxPayload, r.PayloadMassKg)
	}
	if len(ds.records) == 0 {
		ds.minPayload, ds.maxPayload = 0, 0
	}
	return ds
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of all records in load order.
func (d *Dataset) Records() []LaunchRecord {
	out := make([]LaunchRecord, len(d.records))
	copy(out, d.records)
	return out
}

// Each calls fn for every record in load order without copying the slice.
func (d *Dataset) Each(fn func(LaunchRecord)) {
	for _, r := range d.records {
		fn(r)
	}
}

// Sites returns the distinct site names in first-appearance order.
func (d *Dataset) Sites() []string {
	out := make([]string, len(d.sites))
	copy(out, d.sites)
	return out
}

// SiteOptions returns the selectable values for the site dropdown: the
// AllSites sentinel followed by every distinct site.
func (d *Dataset) SiteOptions() []string {
	out := make([]string, 0, len(d.sites)+1)
	out = append(out, AllSites)
	return append(out, d.sites...)
}

// HasSite reports whether name is a site present in the data.
func (d *Dataset) HasSite(name string) bool {
	_, ok := d.siteIndex[name]
	return ok
}

// MinPayload returns the smallest payload mass across all records.
func (d *Dataset) MinPayload() float64 {
	return d.minPayload
}

// MaxPayload returns the largest payload mass across all records.
func (d *Dataset) MaxPayload() float64 {
	return d.maxPayload
}
