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
	"strconv"

	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// ScatterSubset is the set of records plotted for one selection and range.
type ScatterSubset struct {
	Selection string                   `json:"selection"`
	Range     datatypes.PayloadRange   `json:"range"`
	Points    []datatypes.LaunchRecord `json:"points"`
}

// ComputeScatter filters the dataset for the payload scatter plot.
//
// # Description
//
// Keeps every record whose payload lies in rng (inclusive on both ends) and,
// unless selection is AllSites, whose site equals selection. Load order is
// preserved. Zero surviving rows is a valid, empty result.
//
// # Inputs
//
//   - ds: The read-only launch dataset.
//   - selection: datatypes.AllSites or a site name.
//   - rng: Payload range; callers validate Min <= Max beforehand.
//
// # Outputs
//
//   - ScatterSubset: Points is non-nil even when empty.
func ComputeScatter(ds *datatypes.Dataset, selection string, rng datatypes.PayloadRange) ScatterSubset {
	all := datatypes.IsAllSites(selection)
	if all {
		selection = datatypes.AllSites
	}

	points := make([]datatypes.LaunchRecord, 0)
	ds.Each(func(r datatypes.LaunchRecord) {
		if !rng.Contains(r.PayloadMassKg) {
			return
		}
		if !all && r.Site != selection {
			return
		}
		points = append(points, r)
	})
	return ScatterSubset{Selection: selection, Range: rng, Points: points}
}

// Categories returns the booster version categories present in the subset,
// in first-appearance order.
func (s ScatterSubset) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, p := range s.Points {
		if !seen[p.BoosterCategory] {
			seen[p.BoosterCategory] = true
			cats = append(cats, p.BoosterCategory)
		}
	}
	return cats
}

// Title returns the chart title for the subset's selection.
func (s ScatterSubset) Title() string {
	if datatypes.IsAllSites(s.Selection) {
		return "Reporting Launch Success vs Payload for All Sites"
	}
	return "Reporting Launch Success vs Payload for Site " + s.Selection
}

// Figure converts the subset to a plotly scatter figure with one marker
// trace per booster version category. The launch site, booster version, and
// flight number ride along as hover data.
func (s ScatterSubset) Figure() Figure {
	cats := s.Categories()
	byCat := make(map[string]*Trace, len(cats))
	traces := make([]Trace, len(cats))
	for i, cat := range cats {
		traces[i] = Trace{
			Type:          "scatter",
			Name:          cat,
			Mode:          "markers",
			LegendGroup:   cat,
			X:             []float64{},
			Y:             []int{},
			HoverTemplate: hoverTemplate,
			Marker:        &Marker{Color: colorFor(i), Symbol: "circle"},
		}
		byCat[cat] = &traces[i]
	}

	for _, p := range s.Points {
		t := byCat[p.BoosterCategory]
		t.X = append(t.X, p.PayloadMassKg)
		t.Y = append(t.Y, p.Class)
		t.CustomData = append(t.CustomData, []string{p.Site, p.BoosterVersion, flightLabel(p.FlightNumber)})
	}

	return Figure{
		Data: traces,
		Layout: FigureLayout{
			Title:  Title{Text: s.Title()},
			XAxis:  &Axis{Title: Title{Text: "Payload Mass (kg)"}},
			YAxis:  &Axis{Title: Title{Text: "class"}},
			Legend: &Legend{Title: Title{Text: "Booster Version Category"}},
		},
	}
}

// ScatterFigure is ComputeScatter followed by Figure.
func ScatterFigure(ds *datatypes.Dataset, selection string, rng datatypes.PayloadRange) Figure {
	return ComputeScatter(ds, selection, rng).Figure()
}

const hoverTemplate = "Payload Mass (kg)=%{x}<br>class=%{y}<br>Launch Site=%{customdata[0]}" +
	"<br>Booster Version=%{customdata[1]}<br>Flight=%{customdata[2]}<extra>%{fullData.name}</extra>"

func flightLabel(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
