// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package callbacks

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/launchdash/services/dashboard/charts"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
	"github.com/AleutianAI/launchdash/services/dashboard/telemetry"
)

const tracerName = "dashboard.callbacks"

// Bind registers the two dashboard callbacks on reg.
//
// # Description
//
//   - PieOutput reads SiteValue and renders charts.PieFigure.
//   - ScatterOutput reads SiteValue and PayloadValue and renders
//     charts.ScatterFigure. The payload range is clamped to bounds first.
//
// # Inputs
//
//   - reg: Registry to populate.
//   - ds: The loaded dataset, shared read-only by every invocation.
//   - bounds: Slider bounds used for clamping.
//
// # Outputs
//
//   - error: Non-nil if either output is already registered.
func Bind(reg *Registry, ds *datatypes.Dataset, bounds datatypes.SliderBounds) error {
	pie := Callback{
		Output: PieOutput,
		Inputs: []ControlID{SiteValue},
		Handler: func(ctx context.Context, st State) (charts.Figure, error) {
			_, span := telemetry.StartSpan(ctx, tracerName, string(PieOutput),
				trace.WithAttributes(attribute.String("dashboard.site", st.Site)))
			defer span.End()

			agg := charts.ComputePie(ds, st.Site)
			span.SetAttributes(attribute.Int("dashboard.slices", len(agg.Slices)))
			telemetry.SetSpanOK(span)
			return agg.Figure(), nil
		},
	}

	scatter := Callback{
		Output: ScatterOutput,
		Inputs: []ControlID{SiteValue, PayloadValue},
		Handler: func(ctx context.Context, st State) (charts.Figure, error) {
			_, span := telemetry.StartSpan(ctx, tracerName, string(ScatterOutput),
				trace.WithAttributes(
					attribute.String("dashboard.site", st.Site),
					attribute.Float64("dashboard.payload_min", st.Payload.Min),
					attribute.Float64("dashboard.payload_max", st.Payload.Max),
				))
			defer span.End()

			rng := st.Payload.Clamp(bounds)
			if err := rng.Validate(); err != nil {
				telemetry.RecordError(span, err)
				return charts.Figure{}, err
			}

			sub := charts.ComputeScatter(ds, st.Site, rng)
			span.SetAttributes(attribute.Int("dashboard.points", len(sub.Points)))
			telemetry.SetSpanOK(span)
			return sub.Figure(), nil
		},
	}

	for _, cb := range []Callback{pie, scatter} {
		if err := reg.Register(cb); err != nil {
			return fmt.Errorf("bind dashboard callbacks: %w", err)
		}
	}
	return nil
}
