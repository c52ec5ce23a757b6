// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads favbot configuration from defaults, a YAML file and
// FAVBOT_* environment variables, and hot-reloads it when the file changes.
package config

import (
	"time"

	"github.com/ManuGH/favbot/internal/log"
)

// Defaults.
const (
	DefaultServerURL        = "http://localhost:5000"
	DefaultDataDir          = "./data"
	DefaultSelectionTimeout = 10 * time.Second
	DefaultLogLevel         = "info"
	DefaultListenAddr       = ":8099"
	DefaultRateLimitRPM     = 600
	DefaultReplyQueueSize   = 256
	DefaultOTelExporter     = "http"
	DefaultOTelEndpoint     = "localhost:4318"
)

// AppConfig is the effective runtime configuration.
type AppConfig struct {
	Version string

	ServerURL        string
	DataDir          string
	SelectionTimeout time.Duration
	LogLevel         string
	LogFormat        string

	API       APIConfig
	Metrics   MetricsConfig
	Telemetry TelemetryConfig
}

// APIConfig configures the gateway listener and reply delivery.
type APIConfig struct {
	ListenAddr     string
	RateLimitRPM   int // 0 disables rate limiting
	CallbackURL    string
	ReplyQueueSize int
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
	// ListenAddr serves /metrics on a separate listener. Empty mounts it on the API router.
	ListenAddr string
}

// TelemetryConfig configures OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled      bool
	Exporter     string // http|grpc
	Endpoint     string
	SamplingRate float64
}

// FileConfig mirrors the YAML file. Pointer fields distinguish unset from zero.
type FileConfig struct {
	ServerURL        string `yaml:"serverURL,omitempty"`
	DataDir          string `yaml:"dataDir,omitempty"`
	SelectionTimeout string `yaml:"selectionTimeout,omitempty"`
	LogLevel         string `yaml:"logLevel,omitempty"`
	LogFormat        string `yaml:"logFormat,omitempty"`

	API       FileAPIConfig       `yaml:"api,omitempty"`
	Metrics   FileMetricsConfig   `yaml:"metrics,omitempty"`
	Telemetry FileTelemetryConfig `yaml:"telemetry,omitempty"`
}

type FileAPIConfig struct {
	ListenAddr     string `yaml:"listenAddr,omitempty"`
	RateLimitRPM   *int   `yaml:"rateLimitRPM,omitempty"`
	CallbackURL    string `yaml:"callbackURL,omitempty"`
	ReplyQueueSize *int   `yaml:"replyQueueSize,omitempty"`
}

type FileMetricsConfig struct {
	Enabled    *bool  `yaml:"enabled,omitempty"`
	ListenAddr string `yaml:"listenAddr,omitempty"`
}

type FileTelemetryConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ServerURL:        DefaultServerURL,
		DataDir:          DefaultDataDir,
		SelectionTimeout: DefaultSelectionTimeout,
		LogLevel:         DefaultLogLevel,
		LogFormat:        log.FormatAuto,
		API: APIConfig{
			ListenAddr:     DefaultListenAddr,
			RateLimitRPM:   DefaultRateLimitRPM,
			ReplyQueueSize: DefaultReplyQueueSize,
		},
		Metrics: MetricsConfig{Enabled: true},
		Telemetry: TelemetryConfig{
			Exporter:     DefaultOTelExporter,
			Endpoint:     DefaultOTelEndpoint,
			SamplingRate: 1.0,
		},
	}
}
