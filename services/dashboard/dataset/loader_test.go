// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// writeCSV writes content to a temp file and returns its path.
func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launches.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// =============================================================================
// Load Tests
// =============================================================================

func TestLoad_Fixture(t *testing.T) {
	ds, err := Load(context.Background(), FileSource{Path: "testdata/launches.csv"})
	require.NoError(t, err)

	assert.Equal(t, 12, ds.Len())
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A", "CCAFS SLC-40"}, ds.Sites())
	assert.Equal(t, 0.0, ds.MinPayload())
	assert.Equal(t, 9600.0, ds.MaxPayload())

	first := ds.Records()[0]
	assert.Equal(t, datatypes.LaunchRecord{
		FlightNumber:    1,
		Site:            "CCAFS LC-40",
		PayloadMassKg:   0,
		Class:           0,
		BoosterVersion:  "F9 v1.0  B0003",
		BoosterCategory: "v1.0",
	}, first)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(context.Background(), FileSource{Path: "/nonexistent/launches.csv"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
}

func TestLoad_WrapsSourceInParseErrors(t *testing.T) {
	path := writeCSV(t, "Launch Site,class\nA,1\n")

	_, err := Load(context.Background(), FileSource{Path: path})

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedDataset))
	assert.Contains(t, err.Error(), path)
}

// =============================================================================
// Parse Tests
// =============================================================================

func TestParse_MinimalColumnsAnyOrder(t *testing.T) {
	in := "class,Booster Version Category,Payload Mass (kg),Launch Site\n1,FT,2000,SiteA\n0,v1.1,3000.5,SiteB\n"

	recs, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, datatypes.LaunchRecord{Site: "SiteA", PayloadMassKg: 2000, Class: 1, BoosterCategory: "FT"}, recs[0])
	assert.Equal(t, 3000.5, recs[1].PayloadMassKg)
	assert.Equal(t, 0, recs[1].FlightNumber)
}

func TestParse_FloatClassSpelling(t *testing.T) {
	in := "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1.0,10,FT\nB,0.0,20,FT\n"

	recs, err := Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, 1, recs[0].Class)
	assert.Equal(t, 0, recs[1].Class)
}

func TestParse_ByteOrderMark(t *testing.T) {
	in := "\ufeffLaunch Site,class,Payload Mass (kg),Booster Version Category\nA,1,10,FT\n"

	recs, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestParse_Rejects(t *testing.T) {
	header := "Launch Site,class,Payload Mass (kg),Booster Version Category\n"
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{"empty file", "", "empty file"},
		{"header only", header, "no launch records"},
		{"missing column", "Launch Site,class\nA,1\n", "missing required columns"},
		{"bad payload", header + "A,1,heavy,FT\n", "Payload Mass (kg)"},
		{"negative payload", header + "A,1,-5,FT\n", "negative"},
		{"nan payload", header + "A,1,NaN,FT\n", "Payload Mass (kg)"},
		{"class out of range", header + "A,2,10,FT\n", "must be 0 or 1"},
		{"class not numeric", header + "A,yes,10,FT\n", "class"},
		{"empty site", header + ",1,10,FT\n", "empty"},
		{"reserved site", header + "All,1,10,FT\n", "reserved"},
		{"ragged row", header + "A,1,10\n", "wrong number of fields"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedDataset), "error should wrap ErrMalformedDataset: %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestParse_ReportsLineNumber(t *testing.T) {
	in := "Launch Site,class,Payload Mass (kg),Booster Version Category\nA,1,10,FT\nB,1,oops,FT\n"

	_, err := Parse(strings.NewReader(in))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

// =============================================================================
// Source Tests
// =============================================================================

func TestParseSource(t *testing.T) {
	src, err := ParseSource("data/launches.csv")
	require.NoError(t, err)
	assert.Equal(t, FileSource{Path: "data/launches.csv"}, src)

	src, err = ParseSource("gs://launch-data/2024/spacex.csv")
	require.NoError(t, err)
	assert.Equal(t, GCSSource{Bucket: "launch-data", Object: "2024/spacex.csv"}, src)
	assert.Equal(t, "gs://launch-data/2024/spacex.csv", src.String())
}

func TestParseSource_Invalid(t *testing.T) {
	for _, loc := range []string{"", "  ", "gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, err := ParseSource(loc)
		assert.Error(t, err, "location %q", loc)
		assert.True(t, errors.Is(err, ErrSourceUnavailable))
	}
}

func TestGCSSource_MissingCredentialsFile(t *testing.T) {
	src := GCSSource{Bucket: "b", Object: "o", CredentialsFile: "/nonexistent/key.json"}

	_, err := src.Open(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "/nonexistent/key.json")
}
