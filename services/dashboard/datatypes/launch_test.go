// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []LaunchRecord {
	return []LaunchRecord{
		{Site: "CCAFS LC-40", PayloadMassKg: 0, Class: 0, BoosterCategory: "v1.0"},
		{Site: "VAFB SLC-4E", PayloadMassKg: 500, Class: 1, BoosterCategory: "v1.1"},
		{Site: "CCAFS LC-40", PayloadMassKg: 9600, Class: 1, BoosterCategory: "FT"},
		{Site: "KSC LC-39A", PayloadMassKg: 2490, Class: 1, BoosterCategory: "FT"},
	}
}

// =============================================================================
// Dataset Tests
// =============================================================================

func TestNewDataset_DerivedScalars(t *testing.T) {
	ds := NewDataset(sampleRecords())

	assert.Equal(t, 4, ds.Len())
	assert.Equal(t, 0.0, ds.MinPayload())
	assert.Equal(t, 9600.0, ds.MaxPayload())
	assert.Equal(t, []string{"CCAFS LC-40", "VAFB SLC-4E", "KSC LC-39A"}, ds.Sites())
}

func TestNewDataset_Empty(t *testing.T) {
	ds := NewDataset(nil)

	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, 0.0, ds.MinPayload())
	assert.Equal(t, 0.0, ds.MaxPayload())
	assert.Empty(t, ds.Sites())
	assert.Equal(t, []string{AllSites}, ds.SiteOptions())
}

func TestDataset_SiteOptionsPrependsAll(t *testing.T) {
	ds := NewDataset(sampleRecords())

	opts := ds.SiteOptions()
	require.Len(t, opts, 4)
	assert.Equal(t, AllSites, opts[0])
	assert.False(t, ds.HasSite(AllSites), "sentinel must not be a data site")
	assert.True(t, ds.HasSite("KSC LC-39A"))
}

func TestDataset_ReturnsCopies(t *testing.T) {
	input := sampleRecords()
	ds := NewDataset(input)

	input[0].Site = "mutated"
	recs := ds.Records()
	recs[1].Site = "mutated"
	sites := ds.Sites()
	sites[0] = "mutated"

	assert.Equal(t, "CCAFS LC-40", ds.Records()[0].Site)
	assert.Equal(t, "VAFB SLC-4E", ds.Records()[1].Site)
	assert.Equal(t, "CCAFS LC-40", ds.Sites()[0])
}

func TestDataset_EachPreservesOrder(t *testing.T) {
	ds := NewDataset(sampleRecords())

	var payloads []float64
	ds.Each(func(r LaunchRecord) { payloads = append(payloads, r.PayloadMassKg) })

	assert.Equal(t, []float64{0, 500, 9600, 2490}, payloads)
}

func TestLaunchRecord_Succeeded(t *testing.T) {
	assert.True(t, LaunchRecord{Class: ClassSuccess}.Succeeded())
	assert.False(t, LaunchRecord{Class: ClassFailure}.Succeeded())
}

// =============================================================================
// Selection Tests
// =============================================================================

func TestPayloadRange_ContainsIsInclusive(t *testing.T) {
	r := PayloadRange{Min: 1000, Max: 5000}

	assert.True(t, r.Contains(1000))
	assert.True(t, r.Contains(5000))
	assert.True(t, r.Contains(2500))
	assert.False(t, r.Contains(999.9))
	assert.False(t, r.Contains(5000.1))
}

func TestPayloadRange_Validate(t *testing.T) {
	assert.NoError(t, PayloadRange{Min: 0, Max: 0}.Validate())
	assert.NoError(t, PayloadRange{Min: 1000, Max: 5000}.Validate())

	err := PayloadRange{Min: 5000, Max: 1000}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidSelection))
}

func TestPayloadRange_Clamp(t *testing.T) {
	b := DefaultSliderBounds()

	assert.Equal(t, PayloadRange{Min: 0, Max: 10000}, PayloadRange{Min: -50, Max: 20000}.Clamp(b))
	assert.Equal(t, PayloadRange{Min: 1000, Max: 5000}, PayloadRange{Min: 1000, Max: 5000}.Clamp(b))
}

func TestSliderBounds_Defaults(t *testing.T) {
	b := DefaultSliderBounds()

	require.NoError(t, b.Validate())
	marks := b.Marks()
	require.Len(t, marks, 11)
	assert.Equal(t, Mark{Value: 0, Label: "0"}, marks[0])
	assert.Equal(t, Mark{Value: 10000, Label: "10000"}, marks[10])
}

func TestSliderBounds_ValidateRejectsBadBounds(t *testing.T) {
	assert.Error(t, SliderBounds{Min: 10, Max: 10, Step: 1}.Validate())
	assert.Error(t, SliderBounds{Min: 0, Max: 10, Step: 0}.Validate())
	assert.Error(t, SliderBounds{Min: -1, Max: 10, Step: 1}.Validate())
}

func TestSliderBounds_MarksWithZeroStep(t *testing.T) {
	assert.Nil(t, SliderBounds{Min: 0, Max: 10}.Marks())
}

func TestIsAllSites(t *testing.T) {
	assert.True(t, IsAllSites(AllSites))
	assert.True(t, IsAllSites(""))
	assert.False(t, IsAllSites("KSC LC-39A"))
}
