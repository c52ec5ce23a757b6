// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ManuGH/favbot/internal/config"
	xglog "github.com/ManuGH/favbot/internal/log"
	"github.com/ManuGH/favbot/internal/plugin"
	"github.com/ManuGH/favbot/internal/version"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string

	loader *config.Loader
	cfg    config.AppConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "favbot",
		Short:         "Favorites list plugin for chat bots",
		Long:          "favbot keeps a per-user favorites list of locations in a local JSON file\nand synchronizes it with a config server.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
	}
	cmd.SetVersionTemplate(version.String() + "\n")

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to config file (YAML); defaults to $"+config.EnvConfigPath)
	flags.StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	cmd.AddCommand(
		newServeCmd(opts),
		newConsoleCmd(opts),
		newPullCmd(opts),
		newPushCmd(opts),
		newListCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// load resolves the configuration and configures logging for every subcommand.
func (o *rootOptions) load(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	xglog.Configure(xglog.Config{Level: "info", Output: cmd.ErrOrStderr(), Version: version.Version})

	path := strings.TrimSpace(o.configPath)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(config.EnvConfigPath))
	}
	o.loader = config.NewLoader(path, version.Version)
	cfg, err := o.loader.Load()
	if err != nil {
		logger := xglog.WithComponent("cli")
		logger.Error().Err(err).Str(xglog.FieldPath, path).Msg("failed to load configuration")
		return fmt.Errorf("load config: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	o.cfg = cfg

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Output:  cmd.ErrOrStderr(),
		Version: version.Version,
	})
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, version.String())
			_, _ = fmt.Fprintf(out, "plugin %s %s\n", plugin.Name, plugin.Version)
		},
	}
}
