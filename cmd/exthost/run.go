// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/holomush/exthost/internal/transport"
)

// shutdownTimeout bounds disposal when a command exits.
const shutdownTimeout = 10 * time.Second

// NewRunCmd creates the run subcommand.
func NewRunCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <bundle-dir>",
		Short: "Host an extension over stdin/stdout",
		Long: `Load the extension bundle and serve it to a single client speaking
newline-delimited JSON on stdin and stdout. Logs go to stderr. The
extension is disposed when the client sends "dispose" or closes stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStdio(cmd, opts, args[0])
		},
	}
}

func runStdio(cmd *cobra.Command, opts *globalOptions, bundleDir string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := newLogger(opts, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a, err := newApp(ctx, opts, appParams{bundleDir: bundleDir, logger: logger})
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.Close(closeCtx); err != nil {
			a.logger.Warn("shutdown incomplete", "error", err)
		}
	}()

	a.logger.Info("serving extension on stdio", "extension", a.bundle.Manifest.ID())

	codec := transport.NewLineCodec(cmd.InOrStdin(), cmd.OutOrStdout())
	session := transport.NewSession(a.service, codec,
		transport.WithLogger(a.logger),
		transport.WithOwnership(),
	)
	return session.Run(ctx)
}
