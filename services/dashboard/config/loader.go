// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables applied after the config file.
const (
	EnvData     = "LAUNCHDASH_DATA"
	EnvAddr     = "LAUNCHDASH_ADDR"
	EnvLogLevel = "LAUNCHDASH_LOG_LEVEL"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

var configValidate = validator.New()

// Load reads the configuration.
//
// # Description
//
// An empty path yields DefaultConfig. Otherwise the YAML file at path is
// decoded over the defaults, so a partial file only changes what it names.
// Unknown keys are rejected. Environment overrides are applied last and
// the result is validated.
//
// # Inputs
//
//   - path: YAML file path, or "" for defaults only.
//
// # Outputs
//
//   - DashboardConfig: The effective configuration.
//   - error: Read, decode, or ErrInvalidConfig errors. A path that does
//     not exist is an error.
func Load(path string) (DashboardConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return DashboardConfig{}, fmt.Errorf("failed to read the config file %s: %w", path, err)
		}
		if err := decode(data, &cfg); err != nil {
			return DashboardConfig{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return DashboardConfig{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *DashboardConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *DashboardConfig) {
	if v := os.Getenv(EnvData); v != "" {
		cfg.Data.Path = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks field constraints and that the default slider range lies
// inside the slider bounds.
func (c DashboardConfig) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	b, d := c.Slider.Bounds, c.Slider.Default
	if d.Min < b.Min || d.Max > b.Max {
		return fmt.Errorf("%w: slider default [%g, %g] outside bounds [%g, %g]",
			ErrInvalidConfig, d.Min, d.Max, b.Min, b.Max)
	}
	return nil
}

// Write serializes cfg as YAML to path, as a starting point for edits.
func Write(path string, cfg DashboardConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
