// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/launchdash/pkg/logging"
	"github.com/AleutianAI/launchdash/pkg/ux"
	"github.com/AleutianAI/launchdash/services/dashboard/config"
	"github.com/AleutianAI/launchdash/services/dashboard/dataset"
	"github.com/AleutianAI/launchdash/services/dashboard/datatypes"
	"github.com/AleutianAI/launchdash/services/dashboard/telemetry"
)

const testCSV = "../../services/dashboard/dataset/testdata/launches.csv"

func init() {
	gin.SetMode(gin.TestMode)
}

// resetFlags clears the package-level flag variables after a test.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvData, "")
	t.Setenv(config.EnvAddr, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Cleanup(func() {
		configPath, dataPath, listenAddr, logLevel = "", "", "", ""
	})
}

func quietLogger() *logging.Logger {
	return logging.New(logging.Config{Level: logging.LevelError, Quiet: true})
}

func testConfig() config.DashboardConfig {
	cfg := config.DefaultConfig()
	cfg.Data.Path = testCSV
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Telemetry.TraceExporter = telemetry.ExporterNone
	cfg.Telemetry.MetricExporter = telemetry.ExporterPrometheus
	return cfg
}

// ============================================================================
// Configuration
// ============================================================================

func TestLoadConfig_Defaults(t *testing.T) {
	resetFlags(t)

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "spacex_launch_dash.csv", cfg.Data.Path)
	assert.Equal(t, ":8050", cfg.Server.Addr)
}

func TestLoadConfig_FlagsOverrideFileAndEnv(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "launchdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7000\"\n"), 0644))
	t.Setenv(config.EnvAddr, ":7100")

	configPath = path
	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":7100", cfg.Server.Addr)

	listenAddr = ":7200"
	dataPath = "other.csv"
	logLevel = "debug"
	cfg, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":7200", cfg.Server.Addr)
	assert.Equal(t, "other.csv", cfg.Data.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_InvalidLevelFlag(t *testing.T) {
	resetFlags(t)
	logLevel = "loud"

	_, err := loadConfig()
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	yes, no := true, false
	for _, json := range []*bool{nil, &yes, &no} {
		logger, err := newLogger(config.LoggingConfig{Level: "warn", JSON: json})
		require.NoError(t, err)
		require.NoError(t, logger.Close())
	}

	_, err := newLogger(config.LoggingConfig{Level: "verbose"})
	assert.ErrorIs(t, err, logging.ErrUnknownLevel)
}

func TestRunInitConfig(t *testing.T) {
	resetFlags(t)
	path := filepath.Join(t.TempDir(), "launchdash.yaml")

	var out bytes.Buffer
	initConfigCmd.SetOut(&out)
	t.Cleanup(func() { initConfigCmd.SetOut(nil) })

	require.NoError(t, runInitConfig(initConfigCmd, []string{path}))
	assert.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Server.Addr, cfg.Server.Addr)

	assert.Error(t, runInitConfig(initConfigCmd, []string{path}), "existing file must not be overwritten")
}

// ============================================================================
// Server Wiring
// ============================================================================

func TestNewApp_ServesDashboard(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.shutdown(context.Background()) })

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","records":12}`, w.Body.String())

	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/charts/pie", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "launchdash_dataset_records 12")
	assert.Contains(t, w.Body.String(), "launchdash_callback_invocations_total")
	assert.Contains(t, w.Body.String(), "launchdash_dataset_load_duration")
}

func TestNewApp_MissingDatasetFails(t *testing.T) {
	cfg := testConfig()
	cfg.Data.Path = filepath.Join(t.TempDir(), "missing.csv")

	_, err := newApp(context.Background(), cfg, quietLogger())
	assert.ErrorIs(t, err, dataset.ErrSourceUnavailable)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(), quietLogger())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx, ln) }()

	resp, err := http.Get(fmt.Sprintf("http://%s/health", ln.Addr()))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"records":12`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

// ============================================================================
// Summary
// ============================================================================

func loadTestDataset(t *testing.T) *datatypes.Dataset {
	t.Helper()
	ds, err := dataset.Load(context.Background(), dataset.FileSource{Path: testCSV})
	require.NoError(t, err)
	return ds
}

func TestWriteSummary_Site(t *testing.T) {
	var buf bytes.Buffer
	p := ux.NewPrinter(&buf, ux.ModePlain)

	writeSummary(p, loadTestDataset(t), "KSC LC-39A", datatypes.PayloadRange{Min: 0, Max: 10000})

	out := buf.String()
	assert.Contains(t, out, "# Launches by Site: KSC LC-39A\n")
	assert.Contains(t, out, "Outcome\tLaunches\tShare\n")
	assert.Contains(t, out, "Success\t2\t67%\n")
	assert.Contains(t, out, "Failed\t1\t33%\n")
	assert.Contains(t, out, "FT\t2\t1\n")
	assert.Contains(t, out, "B5\t1\t1\n")
}

func TestWriteSummary_AllSites(t *testing.T) {
	var buf bytes.Buffer
	p := ux.NewPrinter(&buf, ux.ModePlain)

	writeSummary(p, loadTestDataset(t), datatypes.AllSites, datatypes.PayloadRange{Min: 1000, Max: 5000})

	out := buf.String()
	assert.Contains(t, out, "# Successful Launches by Site\n")
	assert.Contains(t, out, "Site\tLaunches\tShare\n")
	assert.Contains(t, out, "CCAFS LC-40\t2\t")
	assert.Contains(t, out, "# Reporting Launch Success vs Payload for All Sites\n")
}

func TestWriteSummary_EmptyRangeAndUnknownSite(t *testing.T) {
	var buf bytes.Buffer
	p := ux.NewPrinter(&buf, ux.ModePlain)

	writeSummary(p, loadTestDataset(t), "Nowhere", datatypes.PayloadRange{Min: 0, Max: 10000})

	out := buf.String()
	assert.Contains(t, out, `WARN: site "Nowhere" does not appear in the dataset`)
	assert.Contains(t, out, "Success\t0\t0%\n")
	assert.Contains(t, out, "WARN: no launches in the selected payload range\n")
}
