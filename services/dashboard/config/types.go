// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the dashboard's optional YAML configuration.
//
// Every field has a default, and the defaults reproduce the stock
// dashboard: spacex_launch_dash.csv from the working directory, served on
// :8050, with a 0..10000 kg slider.
package config

import (
	"time"

	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
	"github.com/AleutianAI/launchdash/services/dashboard/telemetry"
)

// DashboardConfig is the root configuration document.
type DashboardConfig struct {
	// Data: where the launch records come from
	Data DataConfig `yaml:"data"`

	// Server: HTTP listener and request limits
	Server ServerConfig `yaml:"server"`

	// Slider: payload range slider bounds and initial selection
	Slider SliderConfig `yaml:"slider"`

	// Logging: level and optional log directory
	Logging LoggingConfig `yaml:"logging"`

	// Telemetry: OTel exporters
	Telemetry telemetry.Config `yaml:"telemetry"`
}

type DataConfig struct {
	Path            string `yaml:"path" validate:"required"` // local path or gs://bucket/object
	CredentialsFile string `yaml:"credentials_file"`         // service account JSON for gs:// paths
}

type ServerConfig struct {
	Addr            string          `yaml:"addr" validate:"required"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit"`
	TrustedProxies  []string        `yaml:"trusted_proxies,omitempty" validate:"dive,ip|cidr"` // empty trusts no X-Forwarded-For
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gt=0"`
	Burst             int     `yaml:"burst" validate:"gt=0"`
}

type SliderConfig struct {
	Bounds  datatypes.SliderBounds `yaml:"bounds"`
	Default datatypes.PayloadRange `yaml:"default"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	Dir   string `yaml:"dir"`  // empty disables file logging
	JSON  *bool  `yaml:"json"` // nil picks JSON when stderr is not a terminal
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() DashboardConfig {
	return DashboardConfig{
		Data: DataConfig{
			Path: "spacex_launch_dash.csv",
		},
		Server: ServerConfig{
			Addr:            ":8050",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				RequestsPerSecond: 20,
				Burst:             40,
			},
		},
		Slider: SliderConfig{
			Bounds:  datatypes.DefaultSliderBounds(),
			Default: datatypes.DefaultPayloadRange(),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}
