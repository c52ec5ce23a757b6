// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"os"

	"github.com/ManuGH/favbot/internal/console"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newConsoleCmd(opts *rootOptions) *cobra.Command {
	var (
		user   string
		noSync bool
	)
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Chat with the plugin on stdin/stdout",
		Long:  "console reads one message per line from stdin and prints the replies.\nSend 关注列表, 增加 [n], 删除 [n], 清空 or 保存.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			svc := newServices(cfg, func() string { return cfg.ServerURL })
			writer := console.NewWriter(cmd.OutOrStdout())
			p, dispatcher := svc.wire(writer, cfg.SelectionTimeout)

			ctx := cmd.Context()
			g, gctx := errgroup.WithContext(ctx)
			if !noSync {
				g.Go(func() error {
					_ = svc.initialSync(gctx)
					return nil
				})
			}

			p.Start(ctx, svc.remote.ServerURL())
			err := console.Run(ctx, cmd.InOrStdin(), dispatcher, user)

			if ctx.Err() != nil {
				_ = dispatcher.Close(context.WithoutCancel(ctx))
			} else {
				// Pending selections finish or time out before exit.
				dispatcher.Wait()
			}
			_ = g.Wait()
			p.Terminate(context.WithoutCancel(ctx))
			return err
		},
	}
	cmd.Flags().StringVar(&user, "user", defaultUser(), "sender name attached to console messages")
	cmd.Flags().BoolVar(&noSync, "no-sync", false, "skip the startup fetch from the config server")
	return cmd
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
