// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package charts

import (
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// Slice labels used for a single-site pie.
const (
	LabelSuccess = "Success"
	LabelFailed  = "Failed"
)

// Slice is one labeled pie wedge with a literal count.
type Slice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PieAggregate is the data behind the pie chart for one site selection.
type PieAggregate struct {
	Selection string  `json:"selection"`
	Slices    []Slice `json:"slices"`
}

// ComputePie aggregates outcome counts for the pie chart.
//
// # Description
//
// For the AllSites selection it returns one slice per distinct site, in
// first-appearance order, counting only successful launches. A site without
// any success still gets a slice with count 0.
//
// For a concrete site it returns exactly two slices, Success then Failed,
// counted explicitly per outcome class. A missing class yields 0, and a site
// absent from the data yields {Success: 0, Failed: 0}.
//
// # Inputs
//
//   - ds: The read-only launch dataset.
//   - selection: datatypes.AllSites or a site name.
//
// # Outputs
//
//   - PieAggregate: The slices, never nil.
func ComputePie(ds *datatypes.Dataset, selection string) PieAggregate {
	if datatypes.IsAllSites(selection) {
		return successesBySite(ds)
	}
	return outcomesForSite(ds, selection)
}

func successesBySite(ds *datatypes.Dataset) PieAggregate {
	sites := ds.Sites()
	counts := make(map[string]int, len(sites))
	ds.Each(func(r datatypes.LaunchRecord) {
		if r.Succeeded() {
			counts[r.Site]++
		}
	})

	slices := make([]Slice, 0, len(sites))
	for _, site := range sites {
		slices = append(slices, Slice{Label: site, Count: counts[site]})
	}
	return PieAggregate{Selection: datatypes.AllSites, Slices: slices}
}

func outcomesForSite(ds *datatypes.Dataset, site string) PieAggregate {
	var successes, failures int
	ds.Each(func(r datatypes.LaunchRecord) {
		if r.Site != site {
			return
		}
		if r.Succeeded() {
			successes++
		} else {
			failures++
		}
	})
	return PieAggregate{
		Selection: site,
		Slices: []Slice{
			{Label: LabelSuccess, Count: successes},
			{Label: LabelFailed, Count: failures},
		},
	}
}

// Total returns the sum of all slice counts.
func (p PieAggregate) Total() int {
	total := 0
	for _, s := range p.Slices {
		total += s.Count
	}
	return total
}

// Count returns the count for label, or 0 when there is no such slice.
func (p PieAggregate) Count(label string) int {
	for _, s := range p.Slices {
		if s.Label == label {
			return s.Count
		}
	}
	return 0
}

// Title returns the chart title for the aggregate's selection.
func (p PieAggregate) Title() string {
	if datatypes.IsAllSites(p.Selection) {
		return "Successful Launches by Site"
	}
	return "Launches by Site: " + p.Selection
}

// Figure converts the aggregate to a plotly pie figure showing literal
// counts rather than percentages.
func (p PieAggregate) Figure() Figure {
	labels := make([]string, len(p.Slices))
	values := make([]int, len(p.Slices))
	for i, s := range p.Slices {
		labels[i] = s.Label
		values[i] = s.Count
	}
	keepOrder := false
	return Figure{
		Data: []Trace{{
			Type:     "pie",
			Labels:   labels,
			Values:   values,
			TextInfo: "value",
			Sort:     &keepOrder,
		}},
		Layout: FigureLayout{Title: Title{Text: p.Title()}},
	}
}

// PieFigure is ComputePie followed by Figure.
func PieFigure(ds *datatypes.Dataset, selection string) Figure {
	return ComputePie(ds, selection).Figure()
}
