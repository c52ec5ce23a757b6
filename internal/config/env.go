// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ManuGH/favbot/internal/log"
	"github.com/rs/zerolog"
)

// Environment variable names.
const (
	EnvConfigPath       = "FAVBOT_CONFIG"
	EnvServerURL        = "FAVBOT_SERVER_URL"
	EnvDataDir          = "FAVBOT_DATA"
	EnvSelectionTimeout = "FAVBOT_SELECTION_TIMEOUT"
	EnvLogLevel         = "FAVBOT_LOG_LEVEL"
	EnvLogFormat        = "FAVBOT_LOG_FORMAT"
	EnvListenAddr       = "FAVBOT_LISTEN"
	EnvRateLimitRPM     = "FAVBOT_RATE_LIMIT_RPM"
	EnvCallbackURL      = "FAVBOT_CALLBACK_URL"
	EnvReplyQueueSize   = "FAVBOT_REPLY_QUEUE_SIZE"
	EnvMetricsEnabled   = "FAVBOT_METRICS_ENABLED"
	EnvMetricsListen    = "FAVBOT_METRICS_LISTEN"
	EnvOTelEnabled      = "FAVBOT_OTEL_ENABLED"
	EnvOTelExporter     = "FAVBOT_OTEL_EXPORTER"
	EnvOTelEndpoint     = "FAVBOT_OTEL_ENDPOINT"
	EnvOTelSampling     = "FAVBOT_OTEL_SAMPLING"
)

// ParseString reads a string from environment variable or returns default value.
// Values of keys that look like credentials are never logged.
func ParseString(key, defaultValue string) string {
	return parseStringWithLogger(log.WithComponent("config"), key, defaultValue)
}

func parseStringWithLogger(logger zerolog.Logger, key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		logDefault(logger, key, exists).Str("default", defaultValue).Msg("using default value")
		return defaultValue
	}
	evt := logger.Debug().Str("key", key).Str("source", "environment")
	if isSensitiveKey(key) {
		evt = evt.Bool("sensitive", true)
	} else {
		evt = evt.Str("value", value)
	}
	evt.Msg("using environment variable")
	return value
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	return strings.Contains(lower, "token") || strings.Contains(lower, "password") || strings.Contains(lower, "secret")
}

// ParseInt reads an integer from environment variable or returns default value.
// It falls back to default on parse errors.
func ParseInt(key string, defaultValue int) int {
	return parseEnv(key, defaultValue, "integer", strconv.Atoi)
}

// ParseDuration reads a duration from environment variable in Go duration format (e.g. "5s").
// Plain integers are taken as seconds.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	return parseEnv(key, defaultValue, "duration", parseDuration)
}

// ParseBool reads a boolean from environment variable or returns default value.
// It accepts "true", "false", "1", "0", "yes", "no" (case-insensitive).
func ParseBool(key string, defaultValue bool) bool {
	return parseEnv(key, defaultValue, "boolean", parseBool)
}

// ParseFloat reads a float64 from environment variable or returns default value.
func ParseFloat(key string, defaultValue float64) float64 {
	return parseEnv(key, defaultValue, "float", func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

func parseEnv[T any](key string, defaultValue T, kind string, parse func(string) (T, error)) T {
	logger := log.WithComponent("config")
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logDefault(logger, key, ok).Interface("default", defaultValue).Msg("using default value")
		return defaultValue
	}
	parsed, err := parse(strings.TrimSpace(v))
	if err != nil {
		logger.Warn().
			Str("key", key).
			Str("value", v).
			Interface("default", defaultValue).
			Msgf("invalid %s in environment variable, using default", kind)
		return defaultValue
	}
	logger.Debug().
		Str("key", key).
		Interface("value", parsed).
		Str("source", "environment").
		Msg("using environment variable")
	return parsed
}

func logDefault(logger zerolog.Logger, key string, present bool) *zerolog.Event {
	evt := logger.Debug().Str("key", key).Str("source", "default")
	if present {
		evt = evt.Bool("empty", true)
	}
	return evt
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

func parseDuration(s string) (time.Duration, error) {
	if secs, err := strconv.Atoi(s); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(s)
}
