// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/favbot/internal/validate"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader("", "v1.2.3").Load()
	require.NoError(t, err)

	want := Defaults()
	want.Version = "v1.2.3"
	abs, err := filepath.Abs(DefaultDataDir)
	require.NoError(t, err)
	want.DataDir = abs

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "http://localhost:5000", cfg.ServerURL)
	assert.Equal(t, 10*time.Second, cfg.SelectionTimeout)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, "favbot.yaml", `
serverURL: https://bot.example.com
dataDir: `+dir+`
selectionTimeout: 30s
logFormat: json
api:
  listenAddr: "127.0.0.1:9000"
  rateLimitRPM: 0
  callbackURL: http://host.local/reply
metrics:
  enabled: false
telemetry:
  enabled: true
  exporter: grpc
  endpoint: collector:4317
  samplingRate: 0.25
`)

	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "https://bot.example.com", cfg.ServerURL)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, 30*time.Second, cfg.SelectionTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "127.0.0.1:9000", cfg.API.ListenAddr)
	assert.Zero(t, cfg.API.RateLimitRPM, "explicit zero must survive the merge")
	assert.Equal(t, DefaultReplyQueueSize, cfg.API.ReplyQueueSize)
	assert.Equal(t, "http://host.local/reply", cfg.API.CallbackURL)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, TelemetryConfig{Enabled: true, Exporter: "grpc", Endpoint: "collector:4317", SamplingRate: 0.25}, cfg.Telemetry)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "favbot.yml", "serverURL: http://from-file:5000\nselectionTimeout: 20s\n")
	t.Setenv(EnvServerURL, "http://from-env:5000")
	t.Setenv(EnvSelectionTimeout, "15")
	t.Setenv(EnvMetricsEnabled, "no")
	t.Setenv(EnvOTelSampling, "0.5")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:5000", cfg.ServerURL)
	assert.Equal(t, 15*time.Second, cfg.SelectionTimeout)
	assert.False(t, cfg.Metrics.Enabled)
	assert.InDelta(t, 0.5, cfg.Telemetry.SamplingRate, 1e-9)
	assert.Contains(t, l.ConsumedEnvKeys, EnvServerURL)
	assert.Contains(t, l.ConsumedEnvKeys, EnvOTelEndpoint)
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv(EnvRateLimitRPM, "lots")
	t.Setenv(EnvSelectionTimeout, "soon")

	cfg, err := NewLoader("", "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultRateLimitRPM, cfg.API.RateLimitRPM)
	assert.Equal(t, DefaultSelectionTimeout, cfg.SelectionTimeout)
}

func TestLoad_UnknownFieldIsRejected(t *testing.T) {
	path := writeConfig(t, "favbot.yaml", "serverURL: http://localhost:5000\nserverUrl: typo\n")

	_, err := NewLoader(path, "dev").Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownConfigField), "got %v", err)
}

func TestLoad_FileErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"json extension", "favbot.json", "{}", "unsupported config format"},
		{"multiple documents", "favbot.yaml", "logLevel: info\n---\nlogLevel: debug\n", "multiple documents"},
		{"bad duration", "favbot.yaml", "selectionTimeout: forever\n", "selectionTimeout"},
		{"bad yaml", "favbot.yaml", "api: [1, 2\n", "strict config parse error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(writeConfig(t, tt.file, tt.content), "dev").Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader(writeConfig(t, "favbot.yaml", ""), "dev").Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml"), "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	require.NoError(t, Validate(valid))

	bad := valid
	bad.ServerURL = "localhost:5000"
	bad.SelectionTimeout = 0
	bad.LogLevel = "loud"
	bad.LogFormat = "xml"
	bad.API.ListenAddr = "8099"
	bad.API.ReplyQueueSize = 0
	bad.Telemetry.Exporter = "zipkin"
	bad.Telemetry.SamplingRate = 2

	err := Validate(bad)
	require.Error(t, err)

	var ve validate.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := make([]string, 0, len(ve.Errors()))
	for _, e := range ve.Errors() {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{
		"serverURL", "selectionTimeout", "logLevel", "logFormat",
		"api.listenAddr", "api.replyQueueSize", "telemetry.exporter", "telemetry.samplingRate",
	}, fields)
}

func TestValidate_TelemetryEndpointRequiredWhenEnabled(t *testing.T) {
	cfg := Defaults()
	cfg.Telemetry.Enabled = true
	cfg.Telemetry.Endpoint = ""
	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telemetry.endpoint")
}
