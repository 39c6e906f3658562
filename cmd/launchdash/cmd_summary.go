// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/launchdash/pkg/ux"
	"github.com/AleutianAI/launchdash/services/dashboard/charts"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
	"github.com/AleutianAI/launchdash/services/dashboard/layout"
)

const shareBarWidth = 20

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Close()
	logger.SetDefault()

	ds, err := loadDataset(cmd.Context(), cfg.Data)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	rng := cfg.Slider.Default
	if cmd.Flags().Changed("min") {
		rng.Min = summaryMin
	}
	if cmd.Flags().Changed("max") {
		rng.Max = summaryMax
	}
	rng = rng.Clamp(cfg.Slider.Bounds)
	if err := rng.Validate(); err != nil {
		return err
	}

	mode := ux.ModeAuto
	if summaryPlain {
		mode = ux.ModePlain
	}
	writeSummary(ux.NewPrinter(cmd.OutOrStdout(), mode), ds, summarySite, rng)
	return nil
}

// writeSummary prints the pie aggregate and the scatter subset for one
// selection, computed by the same functions that back the charts.
func writeSummary(p *ux.Printer, ds *datatypes.Dataset, site string, rng datatypes.PayloadRange) {
	p.Title(layout.Title)
	if !datatypes.IsAllSites(site) && !ds.HasSite(site) {
		p.Warning(fmt.Sprintf("site %q does not appear in the dataset", site))
	}

	pie := charts.ComputePie(ds, site)
	p.Title(pie.Title())
	labelHeader := "Outcome"
	if datatypes.IsAllSites(pie.Selection) {
		labelHeader = "Site"
	}
	total := pie.Total()
	pieRows := make([][]string, 0, len(pie.Slices))
	for _, s := range pie.Slices {
		pieRows = append(pieRows, []string{s.Label, strconv.Itoa(s.Count), p.ProgressBar(s.Count, total, shareBarWidth)})
	}
	p.Table([]string{labelHeader, "Launches", "Share"}, pieRows)

	scatter := charts.ComputeScatter(ds, site, rng)
	p.Title(scatter.Title())
	p.Muted(fmt.Sprintf("%d launches with payload between %g and %g kg", len(scatter.Points), rng.Min, rng.Max))
	if len(scatter.Points) == 0 {
		p.Warning("no launches in the selected payload range")
		return
	}

	launches := make(map[string]int)
	successes := make(map[string]int)
	for _, pt := range scatter.Points {
		launches[pt.BoosterCategory]++
		if pt.Succeeded() {
			successes[pt.BoosterCategory]++
		}
	}
	cats := scatter.Categories()
	rows := make([][]string, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, []string{cat, strconv.Itoa(launches[cat]), strconv.Itoa(successes[cat])})
	}
	p.Table([]string{"Booster Version Category", "Launches", "Successes"}, rows)
}
