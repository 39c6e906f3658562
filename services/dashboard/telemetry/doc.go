// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry tracing and metrics for the launch
// dashboard.
//
// OTel is used directly; there is no wrapper interface. Backends are chosen
// by exporter name in Config and can be swapped without code changes.
//
// # Traces
//
//   - otlp: OTLP over a gRPC client connection (Jaeger, Tempo, collectors)
//   - stdout: pretty-printed spans, useful when debugging locally
//   - none: the global no-op provider stays in place
//
// # Metrics
//
//   - prometheus: OTel instruments exported through the same Prometheus
//     registry that serves /metrics
//   - stdout: periodic pretty-printed dumps
//   - none
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, cfg)
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
//	ctx, span := telemetry.StartSpan(ctx, "dashboard.callbacks", "pie")
//	defer span.End()
//
// # Environment Variables
//
//   - OTEL_TRACES_EXPORTER: otlp, stdout, or none (default: none)
//   - OTEL_METRICS_EXPORTER: prometheus, stdout, or none (default: prometheus)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint (default: localhost:4317)
//   - LAUNCHDASH_ENV: environment name (default: development)
package telemetry
