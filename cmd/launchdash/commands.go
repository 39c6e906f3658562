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
	"github.com/spf13/cobra"

	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
)

// --- Global Command Variables ---
var (
	configPath string
	dataPath   string
	listenAddr string
	logLevel   string

	summarySite  string
	summaryMin   float64
	summaryMax   float64
	summaryPlain bool

	rootCmd = &cobra.Command{
		Use:   "launchdash",
		Short: "Interactive dashboard for SpaceX launch records",
		Long: `launchdash serves a single-page dashboard over a CSV of SpaceX launches:
a pie chart of launch outcomes by site and a payload-vs-outcome scatter
plot, driven by a site dropdown and a payload range slider.

Running launchdash with no subcommand is the same as "launchdash serve".`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Load the dataset and start the dashboard server",
		Args:  cobra.NoArgs,
		RunE:  runServe, // Defined in cmd_serve.go
	}

	summaryCmd = &cobra.Command{
		Use:   "summary",
		Short: "Print the chart aggregates for a selection as tables",
		Args:  cobra.NoArgs,
		RunE:  runSummary, // Defined in cmd_summary.go
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInitConfig, // Defined in cmd_serve.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "",
		"Launch CSV path or gs://bucket/object (overrides config and LAUNCHDASH_DATA)")
	rootCmd.PersistentFlags().StringVar(&listenAddr, "addr", "", "Listen address, e.g. :8050")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().StringVar(&summarySite, "site", datatypes.AllSites, "Launch site, or \"All\"")
	summaryCmd.Flags().Float64Var(&summaryMin, "min", 0, "Lower payload bound in kg (default: the slider's initial value)")
	summaryCmd.Flags().Float64Var(&summaryMax, "max", 0, "Upper payload bound in kg (default: the slider's initial value)")
	summaryCmd.Flags().BoolVar(&summaryPlain, "plain", false, "Write tab-separated output without styling")

	rootCmd.AddCommand(initConfigCmd)
}
