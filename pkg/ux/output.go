// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the launchdash CLI.
package ux

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
)

// Color palette
var (
	ColorTealBright  = lipgloss.Color("#2CD7C7") // highlights, success
	ColorTealPrimary = lipgloss.Color("#20B9B4") // main brand color
	ColorTealDeep    = lipgloss.Color("#16858E") // borders, accents
	ColorSlate       = lipgloss.Color("#2C4A54") // muted text

	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style

	Header lipgloss.Style
	Cell   lipgloss.Style
	Border lipgloss.Style
}{
	Title:    lipgloss.NewStyle().Bold(true).Foreground(ColorTealBright),
	Subtitle: lipgloss.NewStyle().Foreground(ColorTealPrimary),
	Bold:     lipgloss.NewStyle().Bold(true),
	Muted:    lipgloss.NewStyle().Foreground(ColorSlate),
	Success:  lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:  lipgloss.NewStyle().Foreground(ColorWarning),
	Error:    lipgloss.NewStyle().Foreground(ColorError),

	Header: lipgloss.NewStyle().Bold(true).Foreground(ColorTealPrimary).Padding(0, 1),
	Cell:   lipgloss.NewStyle().Padding(0, 1),
	Border: lipgloss.NewStyle().Foreground(ColorTealDeep),
}

// Mode selects between styled terminal output and plain tab-separated
// output suitable for scripting.
type Mode int

const (
	// ModeAuto styles output only when the writer is a terminal.
	ModeAuto Mode = iota
	ModeStyled
	ModePlain
)

// Printer writes styled or plain output to a single writer.
type Printer struct {
	w     io.Writer
	plain bool
}

// NewPrinter creates a Printer. ModeAuto resolves to ModePlain when w is
// not a terminal or NO_COLOR is set.
func NewPrinter(w io.Writer, mode Mode) *Printer {
	plain := mode == ModePlain
	if mode == ModeAuto {
		plain = !isTerminal(w) || os.Getenv("NO_COLOR") != ""
	}
	return &Printer{w: w, plain: plain}
}

// Plain reports whether the printer writes unstyled output.
func (p *Printer) Plain() bool {
	return p.plain
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Title prints a styled title. Plain output prints it prefixed with "# ".
func (p *Printer) Title(text string) {
	if p.plain {
		fmt.Fprintf(p.w, "# %s\n", text)
		return
	}
	fmt.Fprintln(p.w, Styles.Title.Render(text))
}

// Muted prints secondary text. Plain output omits it.
func (p *Printer) Muted(text string) {
	if p.plain {
		return
	}
	fmt.Fprintln(p.w, Styles.Muted.Render(text))
}

// Warning prints a warning line.
func (p *Printer) Warning(text string) {
	if p.plain {
		fmt.Fprintf(p.w, "WARN: %s\n", text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", Styles.Warning.Render("⚠"), Styles.Warning.Render(text))
}

// Table prints rows under headers. Styled output draws a rounded lipgloss
// table; plain output writes one tab-separated line per row.
func (p *Printer) Table(headers []string, rows [][]string) {
	if p.plain {
		fmt.Fprintln(p.w, strings.Join(headers, "\t"))
		for _, row := range rows {
			fmt.Fprintln(p.w, strings.Join(row, "\t"))
		}
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Styles.Border).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return Styles.Header
			}
			return Styles.Cell
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(p.w, t.Render())
}

// ProgressBar renders a share bar such as "█████░░░░░  50%". Plain mode
// returns only the percentage.
func (p *Printer) ProgressBar(current, total, width int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(current) / float64(total)
	}
	if p.plain {
		return fmt.Sprintf("%.0f%%", pct*100)
	}
	filled := int(pct * float64(width))
	empty := width - filled

	bar := Styles.Success.Render(repeatChar('█', filled)) +
		Styles.Muted.Render(repeatChar('░', empty))

	return fmt.Sprintf("%s %3.0f%%", bar, pct*100)
}

func repeatChar(c rune, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(string(c), n)
}
