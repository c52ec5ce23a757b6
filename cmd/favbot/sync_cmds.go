// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"fmt"

	"github.com/ManuGH/favbot/internal/plugin"
	"github.com/spf13/cobra"
)

func newPullCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Fetch the favorites from the config server into the local file",
		Long:  "pull runs the startup fetch once. On failure the local list is reset to empty.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			svc := newServices(cfg, func() string { return cfg.ServerURL })
			err := svc.initialSync(cmd.Context())
			out := cmd.OutOrStdout()
			if err != nil {
				_, _ = fmt.Fprintf(out, "✗ 拉取失败: %v\n", err)
				return err
			}
			_, _ = fmt.Fprintln(out, plugin.ListMessage(svc.store.Load(cmd.Context())))
			return nil
		},
	}
}

func newPushCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Upload the local favorites to the config server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			svc := newServices(cfg, func() string { return cfg.ServerURL })
			ctx := cmd.Context()
			err := svc.remote.Push(ctx, svc.store.Load(ctx))
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), plugin.SaveMessage(err))
			return err
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the local favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := newServices(opts.cfg, func() string { return opts.cfg.ServerURL })
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), plugin.ListMessage(svc.store.Load(cmd.Context())))
			return nil
		},
	}
}
