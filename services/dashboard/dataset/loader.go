// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package dataset loads the launch records CSV into a read-only Dataset.
//
// # Description
//
// Loading happens once at process start. Any problem with the input (missing
// file, missing column, unparsable value) is returned as an error and the
// caller is expected to abort startup; there is no partial load.
//
// # Expected Columns
//
//   - "Launch Site" (string, required)
//   - "Payload Mass (kg)" (number >= 0, required)
//   - "class" (0 or 1, required)
//   - "Booster Version Category" (string, required)
//   - "Flight Number", "Booster Version" (optional)
//
// Column order does not matter and unknown columns, including the unnamed
// index column written by pandas, are ignored.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
	"github.com/AleutianAI/launchdash/services/dashboard/telemetry"
)

const tracerName = "dashboard.dataset"

// Column headers in the launch CSV.
const (
	ColumnSite            = "Launch Site"
	ColumnPayload         = "Payload Mass (kg)"
	ColumnClass           = "class"
	ColumnBoosterCategory = "Booster Version Category"
	ColumnFlightNumber    = "Flight Number"
	ColumnBoosterVersion  = "Booster Version"
)

// ErrMalformedDataset is returned when the CSV content is unusable.
var ErrMalformedDataset = errors.New("malformed dataset")

var requiredColumns = []string{ColumnSite, ColumnPayload, ColumnClass, ColumnBoosterCategory}

// Load reads and parses the launch CSV from src.
//
// # Outputs
//
//   - *datatypes.Dataset: The immutable dataset with derived scalars computed.
//   - error: Wraps ErrSourceUnavailable or ErrMalformedDataset.
//
// # Examples
//
//	src, _ := dataset.ParseSource("spacex_launch_dash.csv")
//	ds, err := dataset.Load(ctx, src)
//	if err != nil {
//	    log.Fatalf("load dataset: %v", err)
//	}
func Load(ctx context.Context, src Source) (ds *datatypes.Dataset, err error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "dataset.Load",
		trace.WithAttributes(attribute.String("dataset.source", src.String())))
	defer span.End()
	start := time.Now()
	defer func() { recordLoad(ctx, span, time.Since(start), err) }()

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src, err)
	}

	ds = datatypes.NewDataset(records)
	span.SetAttributes(attribute.Int("dataset.records", ds.Len()))
	slog.Info("Loaded launch dataset",
		"source", src.String(),
		"records", ds.Len(),
		"sites", len(ds.Sites()),
		"min_payload_kg", ds.MinPayload(),
		"max_payload_kg", ds.MaxPayload(),
	)
	return ds, nil
}

// recordLoad finishes the load span and records the load duration on the
// global OTel meter.
func recordLoad(ctx context.Context, span trace.Span, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		telemetry.RecordError(span, err)
	} else {
		telemetry.SetSpanOK(span)
	}

	hist, herr := telemetry.Meter(tracerName).Float64Histogram("launchdash.dataset.load.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Time spent reading and parsing the launch dataset"))
	if herr != nil {
		return
	}
	hist.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("status", status)))
}

// Parse decodes launch records from CSV. It rejects an input with no rows.
func Parse(r io.Reader) ([]datatypes.LaunchRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedDataset)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedDataset, err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []datatypes.LaunchRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := cols.record(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedDataset, line, err)
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no launch records", ErrMalformedDataset)
	}
	return records, nil
}

// columnIndex maps known headers to their position; -1 marks an absent
// optional column.
type columnIndex struct {
	site, payload, class, category int
	flight, version                int
}

func indexColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		pos[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := pos[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: missing required columns %q", ErrMalformedDataset, missing)
	}

	optional := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}
	return columnIndex{
		site:     pos[ColumnSite],
		payload:  pos[ColumnPayload],
		class:    pos[ColumnClass],
		category: pos[ColumnBoosterCategory],
		flight:   optional(ColumnFlightNumber),
		version:  optional(ColumnBoosterVersion),
	}, nil
}

func (c columnIndex) record(row []string) (datatypes.LaunchRecord, error) {
	site := strings.TrimSpace(row[c.site])
	if site == "" {
		return datatypes.LaunchRecord{}, fmt.Errorf("empty %q", ColumnSite)
	}
	if site == datatypes.AllSites {
		return datatypes.LaunchRecord{}, fmt.Errorf("site name %q is reserved", datatypes.AllSites)
	}

	payload, err := strconv.ParseFloat(strings.TrimSpace(row[c.payload]), 64)
	if err != nil || math.IsNaN(payload) || math.IsInf(payload, 0) {
		return datatypes.LaunchRecord{}, fmt.Errorf("invalid %q value %q", ColumnPayload, row[c.payload])
	}
	if payload < 0 {
		return datatypes.LaunchRecord{}, fmt.Errorf("negative %q value %g", ColumnPayload, payload)
	}

	class, err := parseClass(row[c.class])
	if err != nil {
		return datatypes.LaunchRecord{}, err
	}

	rec := datatypes.LaunchRecord{
		Site:            site,
		PayloadMassKg:   payload,
		Class:           class,
		BoosterCategory: strings.TrimSpace(row[c.category]),
	}
	if c.version >= 0 {
		rec.BoosterVersion = strings.TrimSpace(row[c.version])
	}
	if c.flight >= 0 {
		if v := strings.TrimSpace(row[c.flight]); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return datatypes.LaunchRecord{}, fmt.Errorf("invalid %q value %q", ColumnFlightNumber, v)
			}
			rec.FlightNumber = int(n)
		}
	}
	return rec, nil
}

// parseClass accepts the integer and float spellings pandas may write.
func parseClass(raw string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %q value %q", ColumnClass, raw)
	}
	switch v {
	case datatypes.ClassFailure:
		return datatypes.ClassFailure, nil
	case datatypes.ClassSuccess:
		return datatypes.ClassSuccess, nil
	}
	return 0, fmt.Errorf("%q must be 0 or 1, got %q", ColumnClass, raw)
}
