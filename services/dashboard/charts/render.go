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
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNothingToRender is returned when an aggregate has no data an image
// could show: a pie whose slices are all zero, or an empty scatter subset.
var ErrNothingToRender = errors.New("nothing to render")

// Default static export size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 480
)

// RenderPieSVG writes the aggregate as an SVG pie chart.
//
// Zero-count slices are omitted from the image; the JSON figure keeps them.
func RenderPieSVG(p PieAggregate, w io.Writer) error {
	values := make([]chart.Value, 0, len(p.Slices))
	for _, s := range p.Slices {
		if s.Count == 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Label, s.Count),
			Value: float64(s.Count),
		})
	}
	if len(values) == 0 {
		return ErrNothingToRender
	}

	pie := chart.PieChart{
		Title:  p.Title(),
		Width:  DefaultWidth,
		Height: DefaultHeight,
		Values: values,
	}
	if err := pie.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render pie: %w", err)
	}
	return nil
}

// RenderScatterSVG writes the subset as an SVG scatter plot with one point
// series per booster version category.
func RenderScatterSVG(s ScatterSubset, w io.Writer) error {
	if len(s.Points) == 0 {
		return ErrNothingToRender
	}

	cats := s.Categories()
	series := make([]chart.Series, 0, len(cats))
	for i, cat := range cats {
		var xs, ys []float64
		for _, p := range s.Points {
			if p.BoosterCategory == cat {
				xs = append(xs, p.PayloadMassKg)
				ys = append(ys, float64(p.Class))
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    cat,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(drawing.ColorFromHex(colorFor(i)[1:])),
		})
	}

	xMin, xMax := s.Range.Min, s.Range.Max
	if xMax <= xMin {
		xMax = xMin + 1
	}

	graph := chart.Chart{
		Title:      s.Title(),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis:      chart.XAxis{Name: "Payload Mass (kg)", Range: &chart.ContinuousRange{Min: xMin, Max: xMax}},
		YAxis: chart.YAxis{
			Name:  "class",
			Range: &chart.ContinuousRange{Min: -0.25, Max: 1.25},
			Ticks: []chart.Tick{{Value: 0, Label: "0"}, {Value: 1, Label: "1"}},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("render scatter: %w", err)
	}
	return nil
}

// pointStyle draws markers only, without connecting lines.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    5,
		DotColor:    col,
	}
}
