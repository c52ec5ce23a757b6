// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/ManuGH/favbot/internal/log"
	"github.com/rs/zerolog"
)

// StartupConfig is the subset of configuration checked before serving.
type StartupConfig struct {
	DataDir   string
	ServerURL string
}

// PerformStartupChecks prepares the data directory and sanity-checks the
// config server address. It fails only on conditions the process cannot
// recover from at runtime.
func PerformStartupChecks(ctx context.Context, cfg StartupConfig) error {
	logger := log.WithComponentFromContext(ctx, "startup-check")
	logger.Debug().Msg("running pre-flight startup checks")

	if err := ensureDataDir(logger, cfg.DataDir); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}
	if err := checkServerURL(logger, cfg.ServerURL); err != nil {
		return fmt.Errorf("server URL check failed: %w", err)
	}
	return nil
}

func ensureDataDir(logger zerolog.Logger, path string) error {
	if path == "" {
		return fmt.Errorf("data directory is not set")
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(path, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		logger.Info().Str(log.FieldPath, path).Msg("created data directory")
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("path is not a directory: %s", path)
	}

	if res := NewDataDirChecker(path).Check(context.Background()); res.Status != StatusHealthy {
		return fmt.Errorf("%s: %s", res.Message, res.Error)
	}
	return nil
}

func checkServerURL(logger zerolog.Logger, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Scheme == "http" && u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
		logger.Warn().
			Str(log.FieldServerURL, u.Redacted()).
			Msg("config server is reached over plain HTTP")
	}
	return nil
}
