// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"time"

	"github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/validate"
)

var httpSchemes = []string{"http", "https"}

// Validate checks the effective configuration and reports every violation at once.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.URL("serverURL", cfg.ServerURL, httpSchemes)
	v.NotEmpty("dataDir", cfg.DataDir)
	v.DurationRange("selectionTimeout", cfg.SelectionTimeout, time.Second, 10*time.Minute)
	if cfg.LogLevel != "" {
		if _, err := validate.ParseLogLevel(cfg.LogLevel); err != nil {
			v.AddError("logLevel", validate.ErrInvalidLogLevel.Message, cfg.LogLevel)
		}
	}
	v.OneOf("logFormat", cfg.LogFormat, []string{log.FormatAuto, log.FormatJSON, log.FormatConsole})

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	v.Range("api.rateLimitRPM", cfg.API.RateLimitRPM, 0, 1_000_000)
	v.OptionalURL("api.callbackURL", cfg.API.CallbackURL, httpSchemes)
	v.Range("api.replyQueueSize", cfg.API.ReplyQueueSize, 1, 100_000)

	if cfg.Metrics.ListenAddr != "" {
		v.ListenAddr("metrics.listenAddr", cfg.Metrics.ListenAddr)
	}

	v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"http", "grpc"})
	v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	if cfg.Telemetry.Enabled {
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
	}

	return v.Err()
}
