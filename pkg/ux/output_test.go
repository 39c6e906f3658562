// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Mode Tests
// =============================================================================

func TestNewPrinter_AutoIsPlainForBuffers(t *testing.T) {
	p := NewPrinter(&bytes.Buffer{}, ModeAuto)
	assert.True(t, p.Plain())
}

func TestNewPrinter_ExplicitModes(t *testing.T) {
	assert.False(t, NewPrinter(&bytes.Buffer{}, ModeStyled).Plain())
	assert.True(t, NewPrinter(&bytes.Buffer{}, ModePlain).Plain())
}

// =============================================================================
// Plain Output Tests
// =============================================================================

func TestPrinter_PlainTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModePlain)

	p.Title("Launch outcomes")
	p.Muted("hidden in plain mode")
	p.Table([]string{"Label", "Count"}, [][]string{{"Success", "10"}, {"Failed", "3"}})

	assert.Equal(t, "# Launch outcomes\nLabel\tCount\nSuccess\t10\nFailed\t3\n", buf.String())
}

func TestPrinter_PlainWarning(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf, ModePlain).Warning("no points")
	assert.Equal(t, "WARN: no points\n", buf.String())
}

// =============================================================================
// Styled Output Tests
// =============================================================================

func TestPrinter_StyledTableContainsCells(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, ModeStyled)

	p.Table([]string{"Site", "Successes"}, [][]string{{"KSC LC-39A", "10"}})

	out := buf.String()
	assert.Contains(t, out, "Site")
	assert.Contains(t, out, "KSC LC-39A")
	assert.Contains(t, out, "10")
	assert.GreaterOrEqual(t, strings.Count(out, "\n"), 4)
}

// =============================================================================
// ProgressBar Tests
// =============================================================================

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{"half", 5, 10, "50%"},
		{"full", 3, 3, "100%"},
		{"zero total", 0, 0, "0%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plain := NewPrinter(&bytes.Buffer{}, ModePlain).ProgressBar(tt.current, tt.total, 10)
			assert.Equal(t, tt.want, plain)

			styled := NewPrinter(&bytes.Buffer{}, ModeStyled).ProgressBar(tt.current, tt.total, 10)
			assert.Contains(t, styled, tt.want)
		})
	}
}

func TestRepeatChar(t *testing.T) {
	assert.Equal(t, "", repeatChar('x', 0))
	assert.Equal(t, "", repeatChar('x', -2))
	assert.Equal(t, "███", repeatChar('█', 3))
}
